package main

import (
	"context"
	"testing"
	"time"
)

func openTestRoundLog(t *testing.T) *RoundLog {
	t.Helper()
	rl, err := OpenRoundLog(":memory:")
	if err != nil {
		t.Fatalf("open round log: %v", err)
	}
	t.Cleanup(func() { rl.Close() })
	return rl
}

func sampleResult(round int) RoundResult {
	return RoundResult{
		Round:      round,
		Mode:       ModeBattleRoyale,
		Duration:   42.5,
		WinnerID:   2,
		WinnerName: "Ace",
		EndedAt:    time.Date(2024, 5, 1, 12, 0, round, 0, time.UTC),
		Participants: []RoundParticipant{
			{PlayerID: 2, Name: "Ace", Kills: 3, Alive: true, Health: 61.5, Team: 1},
			{PlayerID: 1001, Name: "BOT-1", Bot: true, Deaths: 1, Team: 2},
		},
	}
}

func TestRoundLogTrackAndRecent(t *testing.T) {
	rl := openTestRoundLog(t)
	for i := 1; i <= 3; i++ {
		if !rl.Track(sampleResult(i)) {
			t.Fatalf("track %d failed", i)
		}
	}
	rl.Flush()

	rounds, err := rl.Recent(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(rounds))
	}
	if rounds[0].Round != 3 || rounds[2].Round != 1 {
		t.Errorf("expected newest first, got %d..%d", rounds[0].Round, rounds[2].Round)
	}

	r := rounds[0]
	if r.WinnerID != 2 || r.WinnerName != "Ace" || r.Mode != ModeBattleRoyale || r.Duration != 42.5 {
		t.Errorf("unexpected round %+v", r)
	}
	if !r.EndedAt.Equal(sampleResult(3).EndedAt) {
		t.Errorf("ended at %v, want %v", r.EndedAt, sampleResult(3).EndedAt)
	}
	if len(r.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(r.Participants))
	}
	ace, bot := r.Participants[0], r.Participants[1]
	if ace.PlayerID != 2 || ace.Kills != 3 || !ace.Alive || ace.Health != 61.5 {
		t.Errorf("unexpected first participant %+v", ace)
	}
	if bot.PlayerID != 1001 || !bot.Bot || bot.Alive || bot.Deaths != 1 {
		t.Errorf("unexpected second participant %+v", bot)
	}
}

func TestRoundLogDraw(t *testing.T) {
	rl := openTestRoundLog(t)
	r := sampleResult(1)
	r.WinnerID, r.WinnerName = noPlayer, ""
	rl.Track(r)
	rl.Flush()

	rounds, err := rl.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rounds) != 1 || rounds[0].WinnerID != noPlayer {
		t.Errorf("expected a stored draw, got %+v", rounds)
	}
}

func TestRoundLogLimit(t *testing.T) {
	rl := openTestRoundLog(t)
	for i := 1; i <= 5; i++ {
		rl.Track(sampleResult(i))
	}
	rl.Flush()

	rounds, err := rl.Recent(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rounds) != 2 || rounds[0].Round != 5 {
		t.Errorf("expected the 2 newest rounds, got %d", len(rounds))
	}

	rounds, err = rl.Recent(context.Background(), MaxRecentRounds*10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rounds) != 5 {
		t.Errorf("expected all 5 rounds, got %d", len(rounds))
	}
}

func TestRoundLogEmpty(t *testing.T) {
	rl := openTestRoundLog(t)
	rounds, err := rl.Recent(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if rounds == nil || len(rounds) != 0 {
		t.Errorf("expected an empty non-nil slice, got %#v", rounds)
	}
}

func TestRoundLogCloseDrains(t *testing.T) {
	rl, err := OpenRoundLog(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	rl.Track(sampleResult(1))
	if err := rl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if rl.Track(sampleResult(2)) {
		t.Error("track after close should report false")
	}
	rl.Flush() // must not block once closed
	if err := rl.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestRoundLogQueueFull(t *testing.T) {
	rl := &RoundLog{
		results: make(chan RoundResult, 1),
		stop:    make(chan struct{}),
	}
	if !rl.Track(sampleResult(1)) {
		t.Fatal("first result should fit")
	}
	if rl.Track(sampleResult(2)) {
		t.Error("a full queue should drop instead of blocking")
	}
}
