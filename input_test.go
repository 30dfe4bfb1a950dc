package main

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSanitizeNonObject(t *testing.T) {
	for _, raw := range []any{nil, "thrust", 3.0, true, []any{1.0}} {
		if got := SanitizeInput(raw); got != NeutralInput() {
			t.Errorf("SanitizeInput(%v) = %+v, want neutral", raw, got)
		}
	}
}

func TestSanitizeAxis(t *testing.T) {
	tests := []struct {
		raw  any
		want float64
	}{
		{0.5, 0.5},
		{5.0, 1},
		{-3.0, -1},
		{"0.25", 0.25},
		{" -0.5 ", -0.5},
		{"abc", 0},
		{"0x10", 0},
		{"", 0},
		{true, 1},
		{false, 0},
		{nil, 0},
		{map[string]any{}, 0},
	}
	for _, tt := range tests {
		in := SanitizeInput(map[string]any{"thrust": tt.raw})
		if in.Thrust != tt.want {
			t.Errorf("thrust %#v: expected %f, got %f", tt.raw, tt.want, in.Thrust)
		}
	}
}

func TestSanitizeFlags(t *testing.T) {
	tests := []struct {
		raw  any
		want bool
	}{
		{true, true},
		{false, false},
		{1.0, true},
		{0.0, false},
		{"yes", true},
		{"", false},
		{nil, false},
		{map[string]any{}, true},
	}
	for _, tt := range tests {
		in := SanitizeInput(map[string]any{"firePlasma": tt.raw})
		if in.FirePlasma != tt.want {
			t.Errorf("firePlasma %#v: expected %v, got %v", tt.raw, tt.want, in.FirePlasma)
		}
	}
}

func TestSanitizeWarp(t *testing.T) {
	tests := map[any]WarpMode{
		"stable": WarpStable,
		"blind":  WarpBlind,
		"none":   WarpNone,
		"turbo":  WarpNone,
		1.0:      WarpNone,
	}
	for raw, want := range tests {
		if got := SanitizeInput(map[string]any{"warp": raw}).Warp; got != want {
			t.Errorf("warp %#v: expected %s, got %s", raw, want, got)
		}
	}
}

func TestSanitizeLockTarget(t *testing.T) {
	in := SanitizeInput(map[string]any{"lockTarget": 3.0})
	if in.LockTarget == nil || *in.LockTarget != 3 {
		t.Errorf("expected lock on 3, got %v", in.LockTarget)
	}
	for _, raw := range []any{2.5, "3", nil, true} {
		if in := SanitizeInput(map[string]any{"lockTarget": raw}); in.LockTarget != nil {
			t.Errorf("lockTarget %#v should be ignored, got %d", raw, *in.LockTarget)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		`{"thrust":"0.7","yaw":-9,"boost":1,"warp":"blind","lockTarget":1001}`,
		`{"strafe":0.3,"lift":"x","fireMissile":"yes","overchargeMissile":0,"lockTarget":1.5}`,
		`{}`,
		`[1,2,3]`,
	}
	for _, src := range inputs {
		var raw any
		if err := json.Unmarshal([]byte(src), &raw); err != nil {
			t.Fatal(err)
		}
		once := SanitizeInput(raw)

		data, err := json.Marshal(once)
		if err != nil {
			t.Fatal(err)
		}
		var again any
		if err := json.Unmarshal(data, &again); err != nil {
			t.Fatal(err)
		}
		twice := SanitizeInput(again)

		if !reflect.DeepEqual(once, twice) {
			t.Errorf("%s: sanitize not idempotent\nonce:  %+v\ntwice: %+v", src, once, twice)
		}
	}
}
