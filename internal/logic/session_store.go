package logic

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

type sessionStore struct {
	ch driver.Conn
}

func NewSessionStore(ch driver.Conn) SessionStore {
	return &sessionStore{ch: ch}
}

// ListRecords reads raw sensor records for a date range back into memory.
// Empty bounds widen to the full stored history. The modeling core only
// ever sees the in-memory slice; all ClickHouse access stays here.
func (s *sessionStore) ListRecords(ctx context.Context, from, to string) ([]models.SensorRecord, error) {
	if from == "" {
		from = "1970-01-01"
	}
	if to == "" {
		to = "2999-12-31"
	}

	rows, err := s.ch.Query(ctx, `
		SELECT
			athlete_id, activity_id, toString(date),
			session_type, session_ordinal, metrics
		FROM athlete_stats.sensor_readings
		WHERE date >= toDate(?) AND date <= toDate(?)
		ORDER BY athlete_id, date, session_type, session_ordinal
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query sensor readings: %w", err)
	}
	defer rows.Close()

	var records []models.SensorRecord
	for rows.Next() {
		var (
			rec     models.SensorRecord
			typ     string
			ordinal uint8
			metrics map[string]float64
		)
		if err := rows.Scan(&rec.AthleteID, &rec.ActivityID, &rec.Date, &typ, &ordinal, &metrics); err != nil {
			return nil, fmt.Errorf("scan sensor reading: %w", err)
		}
		rec.SessionType = models.SessionType(typ)
		rec.SessionOrdinal = int(ordinal)
		rec.Metrics = metrics
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sensor readings: %w", err)
	}

	return records, nil
}
