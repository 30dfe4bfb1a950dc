package main

import (
	"math"
	"strconv"
	"strings"
)

// WarpMode selects the warp variant requested by an input
type WarpMode string

const (
	WarpNone   WarpMode = "none"
	WarpStable WarpMode = "stable"
	WarpBlind  WarpMode = "blind"
)

// Input is one player's sanitized control state. Axes are in [-1, 1].
type Input struct {
	Thrust            float64  `json:"thrust"`
	Strafe            float64  `json:"strafe"`
	Lift              float64  `json:"lift"`
	Yaw               float64  `json:"yaw"`
	Pitch             float64  `json:"pitch"`
	Roll              float64  `json:"roll"`
	Boost             bool     `json:"boost"`
	FirePlasma        bool     `json:"firePlasma"`
	FireMissile       bool     `json:"fireMissile"`
	OverchargeMissile bool     `json:"overchargeMissile"`
	Warp              WarpMode `json:"warp"`
	GravityShift      bool     `json:"gravityShift"`
	BlackHolePulse    bool     `json:"blackHolePulse"`
	QuickTurn         bool     `json:"quickTurn"`
	EmergencyRefill   bool     `json:"emergencyRefill"`
	LockTarget        *int     `json:"lockTarget"`
}

// NeutralInput is the input of an idle ship
func NeutralInput() Input {
	return Input{Warp: WarpNone}
}

// SanitizeInput coerces an arbitrary decoded JSON value into an Input.
// Anything that is not an object yields NeutralInput; missing or malformed
// fields fall back to neutral values. It never fails.
func SanitizeInput(raw any) Input {
	obj, ok := raw.(map[string]any)
	if !ok {
		return NeutralInput()
	}

	in := Input{
		Thrust:            axis(obj["thrust"]),
		Strafe:            axis(obj["strafe"]),
		Lift:              axis(obj["lift"]),
		Yaw:               axis(obj["yaw"]),
		Pitch:             axis(obj["pitch"]),
		Roll:              axis(obj["roll"]),
		Boost:             truthy(obj["boost"]),
		FirePlasma:        truthy(obj["firePlasma"]),
		FireMissile:       truthy(obj["fireMissile"]),
		OverchargeMissile: truthy(obj["overchargeMissile"]),
		Warp:              WarpNone,
		GravityShift:      truthy(obj["gravityShift"]),
		BlackHolePulse:    truthy(obj["blackHolePulse"]),
		QuickTurn:         truthy(obj["quickTurn"]),
		EmergencyRefill:   truthy(obj["emergencyRefill"]),
	}
	if w, ok := obj["warp"].(string); ok && (w == string(WarpStable) || w == string(WarpBlind)) {
		in.Warp = WarpMode(w)
	}
	if f, ok := obj["lockTarget"].(float64); ok && isIntegral(f) {
		id := int(f)
		in.LockTarget = &id
	}
	return in
}

// axis converts a loosely typed value to a number clamped to [-1, 1].
// Non-numeric values become 0.
func axis(v any) float64 {
	n := toNumber(v)
	if math.IsNaN(n) {
		return 0
	}
	return Clamp(n, -1, 1)
}

// toNumber follows the usual loose conversion rules of browser clients:
// null and false are 0, true is 1, numeric strings parse, everything else is NaN.
func toNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case float64:
		return x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || strings.ContainsAny(s, "_xXpP") {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	}
	return true
}

// isIntegral reports whether f is a finite whole number that is safe as an id
func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) && math.Abs(f) <= 1<<53-1
}
