package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateScanAcceptsDriverShapes(t *testing.T) {
	cases := []interface{}{
		"2026-03-05",
		[]byte("2026-03-05"),
		"2026-03-05 00:00:00+00:00",
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	for _, input := range cases {
		var d Date
		if err := d.Scan(input); err != nil {
			t.Fatalf("scan %v failed: %v", input, err)
		}
		if d.String() != "2026-03-05" {
			t.Fatalf("scan %v got %s", input, d.String())
		}
	}
}

func TestDateJSONRoundTripUsesISODate(t *testing.T) {
	var payload struct {
		Start Date `json:"start_date"`
	}
	if err := json.Unmarshal([]byte(`{"start_date":"2026-12-31"}`), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"start_date":"2026-12-31"}` {
		t.Fatalf("unexpected json: %s", out)
	}
	if err := json.Unmarshal([]byte(`{"start_date":"31/12/2026"}`), &payload); err == nil {
		t.Fatalf("expected invalid date error")
	}
}

func TestJSONValueKeepsRawValue(t *testing.T) {
	var v JSONValue
	if err := v.Scan(`"\"DKNgayNghi\""`); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	out, _ := json.Marshal(map[string]JSONValue{"value": v})
	if string(out) != `{"value":"\"DKNgayNghi\""}` {
		t.Fatalf("unexpected json: %s", out)
	}
	var empty JSONValue
	if raw, _ := empty.MarshalJSON(); string(raw) != "null" {
		t.Fatalf("empty value should marshal to null, got %s", raw)
	}
}

func TestJSONValueScanNativeScalars(t *testing.T) {
	cases := []struct {
		input interface{}
		want  string
	}{
		{int64(1), "1"},
		{float64(1.5), "1.5"},
		{true, "true"},
		{[]byte(`"ACME"`), `"ACME"`},
		{"false", "false"},
		{nil, "null"},
	}
	for _, tc := range cases {
		var v JSONValue
		if err := v.Scan(tc.input); err != nil {
			t.Fatalf("scan %v failed: %v", tc.input, err)
		}
		if string(v) != tc.want {
			t.Fatalf("scan %v want %s got %s", tc.input, tc.want, v)
		}
	}
}
