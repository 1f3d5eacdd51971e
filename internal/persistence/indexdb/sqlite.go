package indexdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"kitchencrew.ai/internal/agent"
	"kitchencrew.ai/internal/sim/catalogs"
	"kitchencrew.ai/internal/sim/tuning"
)

// Episode is one simulated run or one served session.
type Episode struct {
	ID        string `db:"id" json:"id"`
	Source    string `db:"source" json:"source"`
	Level     string `db:"level" json:"level"`
	Seed      int64  `db:"seed" json:"seed"`
	StartedAt string `db:"started_at" json:"started_at"`
	EndedAt   string `db:"ended_at" json:"ended_at"`
	Ticks     int    `db:"ticks" json:"ticks"`
	Delivered int    `db:"delivered" json:"delivered"`
	Expired   int    `db:"expired" json:"expired"`
	Wasted    int    `db:"wasted" json:"wasted"`
	Reward    int    `db:"reward" json:"reward"`
	Digest    string `db:"digest" json:"digest"`
}

// GoalOutcome is one controller history entry.
type GoalOutcome struct {
	EpisodeID string `db:"episode_id" json:"episode_id"`
	Seq       int    `db:"seq" json:"seq"`
	Agent     string `db:"agent" json:"agent"`
	Goal      string `db:"goal" json:"goal"`
	Requested string `db:"requested" json:"requested"`
	Outcome   string `db:"outcome" json:"outcome"`
	Msg       string `db:"msg" json:"msg"`
	Started   int    `db:"started" json:"started"`
	Finished  int    `db:"finished" json:"finished"`
}

// Outcomes converts an agent's history for RecordEpisode. Seq continues from
// offset so several agents can share an episode.
func Outcomes(episodeID, agentName string, offset int, hist []agent.Entry) []GoalOutcome {
	out := make([]GoalOutcome, len(hist))
	for i, e := range hist {
		out[i] = GoalOutcome{
			EpisodeID: episodeID,
			Seq:       offset + i,
			Agent:     agentName,
			Goal:      string(e.Goal),
			Requested: string(e.Requested),
			Outcome:   string(e.Outcome),
			Msg:       e.Msg,
			Started:   e.Started,
			Finished:  e.Finished,
		}
	}
	return out
}

type SQLiteIndex struct {
	db *sqlx.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropEpisodeTotal atomic.Uint64
}

type req struct {
	episode  Episode
	outcomes []GoalOutcome
}

type Stats struct {
	DropEpisodeTotal uint64
	QueueDepth       int
	QueueCapacity    int
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			level TEXT NOT NULL,
			seed INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			ticks INTEGER NOT NULL,
			delivered INTEGER NOT NULL,
			expired INTEGER NOT NULL,
			wasted INTEGER NOT NULL,
			reward INTEGER NOT NULL,
			digest TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS goal_outcomes (
			episode_id TEXT NOT NULL REFERENCES episodes(id),
			seq INTEGER NOT NULL,
			agent TEXT NOT NULL,
			goal TEXT NOT NULL,
			requested TEXT NOT NULL,
			outcome TEXT NOT NULL,
			msg TEXT NOT NULL,
			started INTEGER NOT NULL,
			finished INTEGER NOT NULL,
			PRIMARY KEY (episode_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_goal_outcomes_goal ON goal_outcomes(goal, outcome);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// RecordEpisode queues an episode and its goal outcomes. It never blocks:
// when the writer falls behind the episode is dropped and counted, since the
// trace logs remain the source of truth.
func (s *SQLiteIndex) RecordEpisode(ep Episode, outcomes []GoalOutcome) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{episode: ep, outcomes: outcomes}:
	default:
		s.dropEpisodeTotal.Add(1)
	}
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		DropEpisodeTotal: s.dropEpisodeTotal.Load(),
		QueueDepth:       len(s.ch),
		QueueCapacity:    cap(s.ch),
	}
}

// UpsertCatalogs stores the recipe catalog and the tuning actually applied.
func (s *SQLiteIndex) UpsertCatalogs(cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	defs := make([]catalogs.RecipeDef, 0, len(cats.Recipes.Order))
	for _, id := range cats.Recipes.Order {
		defs = append(defs, cats.Recipes.ByID[id])
	}
	recipesJSON, err := json.Marshal(defs)
	if err != nil {
		return err
	}
	tuneJSON, err := json.Marshal(tune)
	if err != nil {
		return err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	rows := []struct{ name, digest, json string }{
		{"recipes", cats.Recipes.Digest, string(recipesJSON)},
		{"tuning", tune.Digest(), string(tuneJSON)},
	}
	for _, r := range rows {
		if _, err := stmt.Exec(r.name, r.digest, r.json, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const (
	insertEpisode = `INSERT OR REPLACE INTO episodes
		(id,source,level,seed,started_at,ended_at,ticks,delivered,expired,wasted,reward,digest)
		VALUES (:id,:source,:level,:seed,:started_at,:ended_at,:ticks,:delivered,:expired,:wasted,:reward,:digest)`
	insertOutcome = `INSERT OR REPLACE INTO goal_outcomes
		(episode_id,seq,agent,goal,requested,outcome,msg,started,finished)
		VALUES (:episode_id,:seq,:agent,:goal,:requested,:outcome,:msg,:started,:finished)`
)

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	var (
		tx            *sqlx.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		if _, err := tx.NamedExec(insertEpisode, r.episode); err != nil {
			rollback()
			continue
		}
		opCount++
		for _, o := range r.outcomes {
			if _, err := tx.NamedExec(insertOutcome, o); err != nil {
				rollback()
				break
			}
			opCount++
		}
		if tx != nil && (opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}

	commit()
}
