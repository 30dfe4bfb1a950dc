package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons for inbound frames and messages
const (
	RejectTooLarge    = "too_large"
	RejectUnmasked    = "unmasked"
	RejectRateLimited = "rate_limited"
	RejectBadJSON     = "bad_json"
)

// Collectors use bounded label values only; never a player id or name.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shadowfighter_tick_duration_seconds",
		Help:    "Time spent in one simulation tick including broadcast",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.033, 0.05},
	})

	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shadowfighter_connections_active",
		Help: "Currently open websocket connections",
	})

	participantsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "shadowfighter_participants",
		Help: "Round participants by kind",
	}, []string{"kind"}) // human, bot

	framesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shadowfighter_frames_rejected_total",
		Help: "Inbound frames or messages rejected",
	}, []string{"reason"})

	snapshotBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shadowfighter_snapshot_bytes_total",
		Help: "Encoded snapshot payload bytes queued for sending",
	})

	roundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shadowfighter_rounds_total",
		Help: "Finished rounds by outcome",
	}, []string{"outcome"}) // winner, draw

	roundResultsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shadowfighter_round_results_dropped_total",
		Help: "Round results dropped because the round log queue was full",
	})

	connectionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shadowfighter_connections_rejected_total",
		Help: "Upgrade requests refused by connection limits",
	}, []string{"reason"}) // per_ip, total
)
