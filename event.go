package main

// Event kinds delivered in the per-tick event log
const (
	EvtRoundStart = "roundStart"
	EvtRoundEnd   = "roundEnd"
	EvtHazardOn   = "eventStart"
	EvtHazardOff  = "eventEnd"
	EvtExplosion  = "explosion"
	EvtKill       = "kill"
	EvtHit        = "hit"
	EvtWarp       = "warp"
	EvtAbility    = "ability"
)

// Event is one discrete occurrence during a tick. Only the fields relevant
// to Type are set.
type Event struct {
	Type           string         `json:"type"`
	Round          int            `json:"round,omitempty"`
	WinnerID       int            `json:"winnerId,omitempty"`
	WinnerTeam     int            `json:"winnerTeam,omitempty"`
	EventType      HazardType     `json:"eventType,omitempty"`
	PlayerID       int            `json:"playerId,omitempty"`
	Ability        string         `json:"ability,omitempty"`
	KillerID       int            `json:"killerId,omitempty"`
	KillerName     string         `json:"killerName,omitempty"`
	VictimID       int            `json:"victimId,omitempty"`
	VictimName     string         `json:"victimName,omitempty"`
	TargetID       int            `json:"targetId,omitempty"`
	AttackerID     int            `json:"attackerId,omitempty"`
	Damage         float64        `json:"damage,omitempty"`
	ProjectileType ProjectileKind `json:"projectileType,omitempty"`
	Position       *Vec3          `json:"position,omitempty"`
	From           *Vec3          `json:"from,omitempty"`
	To             *Vec3          `json:"to,omitempty"`
	Radius         float64        `json:"radius,omitempty"`
	Color          string         `json:"color,omitempty"`
}

func at(v Vec3) *Vec3 {
	return &v
}

// emit appends an event to the current tick's log
func (w *World) emit(e Event) {
	w.Events = append(w.Events, e)
}
