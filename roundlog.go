package main

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	roundLogQueue     = 64
	roundLogBatch     = 16
	roundLogInterval  = 2 * time.Second
	MaxRecentRounds   = 100
	defaultRecentSize = 20
)

// RoundParticipant is one player's line in a finished round
type RoundParticipant struct {
	PlayerID int     `json:"playerId"`
	Name     string  `json:"name"`
	Bot      bool    `json:"bot"`
	Team     int     `json:"team"`
	Kills    int     `json:"kills"`
	Deaths   int     `json:"deaths"`
	Alive    bool    `json:"alive"`
	Health   float64 `json:"health"`
}

// RoundResult summarizes a finished round. Participants are in final
// ranking order.
type RoundResult struct {
	Round        int                `json:"round"`
	Mode         GameMode           `json:"mode"`
	Duration     float64            `json:"duration"`
	WinnerID     int                `json:"winnerId,omitempty"`
	WinnerName   string             `json:"winnerName,omitempty"`
	WinnerTeam   int                `json:"winnerTeam,omitempty"`
	EndedAt      time.Time          `json:"endedAt"`
	Participants []RoundParticipant `json:"participants"`
}

// RoundRecorder accepts finished rounds without blocking the caller
type RoundRecorder interface {
	Track(r RoundResult) bool
}

// RoundLog keeps finished rounds in SQLite, written in batches by a
// background goroutine
type RoundLog struct {
	conn    *sql.DB
	results chan RoundResult
	flushes chan chan struct{}
	stop    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// OpenRoundLog opens the store at dsn (":memory:" for process-lifetime
// history) and starts the writer
func OpenRoundLog(dsn string) (*RoundLog, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// every new connection to :memory: would see an empty database
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	rl := &RoundLog{
		conn:    conn,
		results: make(chan RoundResult, roundLogQueue),
		flushes: make(chan chan struct{}),
		stop:    make(chan struct{}),
	}
	if err := rl.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	rl.wg.Add(1)
	go rl.writer()
	return rl, nil
}

func (rl *RoundLog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		round INTEGER NOT NULL,
		mode TEXT NOT NULL,
		duration REAL NOT NULL DEFAULT 0,
		winner_id INTEGER,
		winner_name TEXT NOT NULL DEFAULT '',
		winner_team INTEGER NOT NULL DEFAULT 0,
		ended_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS round_players (
		round_id INTEGER NOT NULL REFERENCES rounds(id),
		rank INTEGER NOT NULL,
		player_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		bot INTEGER NOT NULL DEFAULT 0,
		team INTEGER NOT NULL DEFAULT 0,
		kills INTEGER NOT NULL DEFAULT 0,
		deaths INTEGER NOT NULL DEFAULT 0,
		alive INTEGER NOT NULL DEFAULT 0,
		health REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (round_id, rank)
	);
	`
	_, err := rl.conn.Exec(schema)
	if err != nil {
		log.Printf("round log migration error: %v", err)
	}
	return err
}

// Track queues a result for persistence. It never blocks; a full queue
// drops the result and returns false.
func (rl *RoundLog) Track(r RoundResult) bool {
	select {
	case <-rl.stop:
		return false
	default:
	}
	select {
	case rl.results <- r:
		return true
	default:
		roundResultsDropped.Inc()
		return false
	}
}

// Flush blocks until everything queued so far is written
func (rl *RoundLog) Flush() {
	ack := make(chan struct{})
	select {
	case rl.flushes <- ack:
		<-ack
	case <-rl.stop:
	}
}

// Close stops the writer after draining the queue, then closes the database
func (rl *RoundLog) Close() error {
	var err error
	rl.once.Do(func() {
		close(rl.stop)
		rl.wg.Wait()
		err = rl.conn.Close()
	})
	return err
}

func (rl *RoundLog) writer() {
	defer rl.wg.Done()

	batch := make([]RoundResult, 0, roundLogBatch)
	ticker := time.NewTicker(roundLogInterval)
	defer ticker.Stop()

	drain := func() {
		for {
			select {
			case r := <-rl.results:
				batch = append(batch, r)
			default:
				return
			}
		}
	}

	for {
		select {
		case r := <-rl.results:
			batch = append(batch, r)
			if len(batch) >= roundLogBatch {
				rl.write(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				rl.write(batch)
				batch = batch[:0]
			}
		case ack := <-rl.flushes:
			drain()
			rl.write(batch)
			batch = batch[:0]
			close(ack)
		case <-rl.stop:
			drain()
			rl.write(batch)
			return
		}
	}
}

// write stores a batch in one transaction
func (rl *RoundLog) write(batch []RoundResult) {
	if len(batch) == 0 {
		return
	}
	tx, err := rl.conn.Begin()
	if err != nil {
		log.Printf("round log: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	roundStmt, err := tx.Prepare(`INSERT INTO rounds (round, mode, duration, winner_id, winner_name, winner_team, ended_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("round log: prepare error: %v", err)
		return
	}
	defer roundStmt.Close()
	playerStmt, err := tx.Prepare(`INSERT INTO round_players (round_id, rank, player_id, name, bot, team, kills, deaths, alive, health) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("round log: prepare error: %v", err)
		return
	}
	defer playerStmt.Close()

	for _, r := range batch {
		winner := sql.NullInt64{Int64: int64(r.WinnerID), Valid: r.WinnerID != noPlayer}
		res, err := roundStmt.Exec(r.Round, string(r.Mode), r.Duration, winner, r.WinnerName, r.WinnerTeam, r.EndedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			log.Printf("round log: insert error: %v", err)
			continue
		}
		id, err := res.LastInsertId()
		if err != nil {
			log.Printf("round log: insert id error: %v", err)
			continue
		}
		for rank, p := range r.Participants {
			if _, err := playerStmt.Exec(id, rank, p.PlayerID, p.Name, p.Bot, p.Team, p.Kills, p.Deaths, p.Alive, p.Health); err != nil {
				log.Printf("round log: insert player error: %v", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("round log: commit error: %v", err)
	}
}

// Recent returns up to limit stored rounds, newest first
func (rl *RoundLog) Recent(ctx context.Context, limit int) ([]RoundResult, error) {
	if limit <= 0 {
		limit = defaultRecentSize
	}
	if limit > MaxRecentRounds {
		limit = MaxRecentRounds
	}

	rows, err := rl.conn.QueryContext(ctx, `
		SELECT id, round, mode, duration, winner_id, winner_name, winner_team, ended_at
		FROM rounds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	var ids []int64
	out := []RoundResult{}
	for rows.Next() {
		var (
			id      int64
			r       RoundResult
			mode    string
			winner  sql.NullInt64
			endedAt string
		)
		if err := rows.Scan(&id, &r.Round, &mode, &r.Duration, &winner, &r.WinnerName, &r.WinnerTeam, &endedAt); err != nil {
			rows.Close()
			return nil, err
		}
		r.Mode = GameMode(mode)
		r.WinnerID = int(winner.Int64)
		r.EndedAt, _ = time.Parse(time.RFC3339Nano, endedAt)
		r.Participants = []RoundParticipant{}
		ids = append(ids, id)
		out = append(out, r)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	// the single connection must be released before the next query
	for i, id := range ids {
		parts, err := rl.participants(ctx, id)
		if err != nil {
			return nil, err
		}
		out[i].Participants = parts
	}
	return out, nil
}

func (rl *RoundLog) participants(ctx context.Context, roundID int64) ([]RoundParticipant, error) {
	rows, err := rl.conn.QueryContext(ctx, `
		SELECT player_id, name, bot, team, kills, deaths, alive, health
		FROM round_players WHERE round_id = ? ORDER BY rank`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RoundParticipant{}
	for rows.Next() {
		var p RoundParticipant
		if err := rows.Scan(&p.PlayerID, &p.Name, &p.Bot, &p.Team, &p.Kills, &p.Deaths, &p.Alive, &p.Health); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
