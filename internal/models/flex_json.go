package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// sensorRecordFieldMap caches JSON tag -> struct field index mappings
var (
	sensorRecordFieldMap     map[string]int
	sensorRecordFieldMapOnce sync.Once
)

func getSensorRecordFieldMap() map[string]int {
	sensorRecordFieldMapOnce.Do(func() {
		t := reflect.TypeOf(SensorRecord{})
		sensorRecordFieldMap = make(map[string]int, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("json")
			if tag == "" || tag == "-" {
				continue
			}
			name := strings.Split(tag, ",")[0]
			sensorRecordFieldMap[name] = i
		}
	})
	return sensorRecordFieldMap
}

// UnmarshalJSON implements flexible JSON unmarshaling that accepts both
// string-encoded and native JSON types. Wearable-vendor exports frequently
// serialize every value as a quoted string; this handles coercion to the
// correct Go types transparently, including metric map values.
func (r *SensorRecord) UnmarshalJSON(data []byte) error {
	// Alias prevents infinite recursion
	type Alias SensorRecord
	a := (*Alias)(r)

	// Fast path: try standard unmarshal (works when all types match natively)
	if err := json.Unmarshal(data, a); err == nil {
		return nil
	}

	// Slow path: field-by-field with string-to-native coercion
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	fieldMap := getSensorRecordFieldMap()
	v := reflect.ValueOf(a).Elem()

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}

		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		if key == "metrics" {
			if m, err := coerceMetricMap(rawVal); err == nil {
				fv.Set(reflect.ValueOf(m))
			}
			continue
		}

		// Try direct unmarshal first
		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal(rawVal, ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
			continue
		}

		// Value is a JSON string but target is numeric — coerce
		if len(rawVal) > 1 && rawVal[0] == '"' {
			var s string
			if err := json.Unmarshal(rawVal, &s); err != nil {
				continue
			}
			if s == "" {
				continue
			}
			coerceStringToField(fv, s)
		}
	}

	return nil
}

// coerceMetricMap decodes a metric map whose values may be numbers or
// quoted numeric strings. Unparseable values are skipped, which matches
// the absent-metric semantics used everywhere downstream.
func coerceMetricMap(data json.RawMessage) (map[string]float64, error) {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(rawMap))
	for name, rawVal := range rawMap {
		var f float64
		if err := json.Unmarshal(rawVal, &f); err == nil {
			out[name] = f
			continue
		}
		var s string
		if err := json.Unmarshal(rawVal, &s); err != nil || s == "" {
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			out[name] = f
		}
	}
	return out, nil
}

// coerceStringToField converts a string value to the field's native type.
func coerceStringToField(fv reflect.Value, s string) {
	switch fv.Kind() {
	case reflect.Float32, reflect.Float64:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetFloat(n)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// ParseFloat handles "2.0" → truncate to int
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetInt(int64(n))
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			fv.SetBool(b)
		}
	case reflect.String:
		fv.SetString(s)
	}
}
