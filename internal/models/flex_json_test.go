package models

import (
	"encoding/json"
	"testing"
)

func TestFlexUnmarshal_AllStrings(t *testing.T) {
	input := `{"athlete_id": "ath_7", "activity_id": "act_2026_03_02", "date": "2026-03-02", "session_type": "training", "session_ordinal": "2", "metrics": {"player_load": "512.300", "velocity": "7.85", "distance": "6204.1"}}`

	var rec SensorRecord
	if err := json.Unmarshal([]byte(input), &rec); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if rec.AthleteID != "ath_7" {
		t.Errorf("AthleteID = %q, want ath_7", rec.AthleteID)
	}
	if rec.Date != "2026-03-02" {
		t.Errorf("Date = %q, want 2026-03-02", rec.Date)
	}
	if rec.SessionType != SessionTraining {
		t.Errorf("SessionType = %q, want training", rec.SessionType)
	}
	if rec.SessionOrdinal != 2 {
		t.Errorf("SessionOrdinal = %d, want 2", rec.SessionOrdinal)
	}
	if rec.Metrics[MetricPlayerLoad] != 512.3 {
		t.Errorf("player_load = %f, want 512.3", rec.Metrics[MetricPlayerLoad])
	}
	if rec.Metrics[MetricVelocity] != 7.85 {
		t.Errorf("velocity = %f, want 7.85", rec.Metrics[MetricVelocity])
	}
}

func TestFlexUnmarshal_NativeTypes(t *testing.T) {
	input := `{"athlete_id": "ath_7", "date": "2026-03-02", "session_type": "match", "metrics": {"player_load": 880.4, "high_speed_distance": 412}}`

	var rec SensorRecord
	if err := json.Unmarshal([]byte(input), &rec); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if rec.SessionType != SessionMatch {
		t.Errorf("SessionType = %q, want match", rec.SessionType)
	}
	if rec.Metrics[MetricPlayerLoad] != 880.4 {
		t.Errorf("player_load = %f, want 880.4", rec.Metrics[MetricPlayerLoad])
	}
	if rec.Metrics[MetricHighSpeedDistance] != 412 {
		t.Errorf("high_speed_distance = %f, want 412", rec.Metrics[MetricHighSpeedDistance])
	}
}

func TestFlexUnmarshal_MixedMetricValues(t *testing.T) {
	// Some vendors quote only part of the map; unparseable values drop
	// out as absent metrics rather than zeros.
	input := `{"athlete_id": "ath_7", "date": "2026-03-02", "session_type": "training", "session_ordinal": "1", "metrics": {"player_load": "512.3", "velocity": 7.85, "distance": "n/a"}}`

	var rec SensorRecord
	if err := json.Unmarshal([]byte(input), &rec); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if rec.Metrics[MetricPlayerLoad] != 512.3 {
		t.Errorf("player_load = %f, want 512.3", rec.Metrics[MetricPlayerLoad])
	}
	if rec.Metrics[MetricVelocity] != 7.85 {
		t.Errorf("velocity = %f, want 7.85", rec.Metrics[MetricVelocity])
	}
	if _, ok := rec.Metrics[MetricDistance]; ok {
		t.Error("unparseable metric value should be absent, not zero")
	}
}

func TestFlexUnmarshal_UnknownFieldsIgnored(t *testing.T) {
	input := `{"athlete_id": "ath_7", "date": "2026-03-02", "session_type": "training", "session_ordinal": "1", "firmware": "v4.1", "metrics": {}}`

	var rec SensorRecord
	if err := json.Unmarshal([]byte(input), &rec); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if rec.AthleteID != "ath_7" {
		t.Errorf("AthleteID = %q, want ath_7", rec.AthleteID)
	}
}

func TestFormatTag(t *testing.T) {
	tests := []struct {
		name    string
		typ     SessionType
		ordinal int
		want    string
	}{
		{"Match", SessionMatch, 0, "match"},
		{"Match Ignores Ordinal", SessionMatch, 2, "match"},
		{"Training No Ordinal", SessionTraining, 0, "training"},
		{"Training Numbered", SessionTraining, 2, "training#2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTag(tt.typ, tt.ordinal); got != tt.want {
				t.Errorf("FormatTag(%s, %d) = %q, want %q", tt.typ, tt.ordinal, got, tt.want)
			}
		})
	}
}
