package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/rift/internal/domain/model"
	"github.com/okian/rift/pkg/metrics"

	_ "modernc.org/sqlite"
)

// filterColumns maps accepted filter keys to qualified columns.
var filterColumns = map[string]string{
	"champion_id": "p.champion_id",
	"role":        "p.role",
	"match_id":    "p.match_id",
	"team_id":     "p.team_id",
	"summoner_id": "p.summoner_id",
	"queue_id":    "m.queue_id",
	"season_id":   "m.season_id",
	"region":      "m.region",
}

var memoryDBs atomic.Int64

// SQLiteStore is the SQLite-backed Store.
// Thread-safety: all methods are safe for concurrent use.
type SQLiteStore struct {
	db          *sql.DB
	mu          sync.RWMutex
	busyTimeout time.Duration
	now         func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// Open creates a store at path, creating tables if needed. ":memory:" opens
// a private in-memory database.
func Open(path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{busyTimeout: 5 * time.Second, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	memory := path == ":memory:"
	dsn := path
	if memory {
		// Each in-memory store gets its own shared-cache name so every pooled
		// connection sees the same database and stores never see each other.
		dsn = fmt.Sprintf("file:rift-%d?mode=memory&cache=shared", memoryDBs.Add(1))
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", s.busyTimeout.Milliseconds()),
		"PRAGMA foreign_keys = ON",
	}
	if !memory {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	s.db = db
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS summoners (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		region TEXT NOT NULL,
		account_id INTEGER,
		summoner_id INTEGER,
		updated_at INTEGER NOT NULL,
		UNIQUE(name, region)
	);

	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id INTEGER NOT NULL UNIQUE,
		queue_id INTEGER,
		season_id INTEGER,
		region TEXT,
		game_duration INTEGER,
		winning_team_id INTEGER
	);

	CREATE TABLE IF NOT EXISTS teams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id INTEGER NOT NULL REFERENCES matches(id),
		side INTEGER NOT NULL,
		tower_kills INTEGER DEFAULT 0,
		inhibitor_kills INTEGER DEFAULT 0,
		baron_kills INTEGER DEFAULT 0,
		dragon_kills INTEGER DEFAULT 0,
		UNIQUE(match_id, side)
	);

	CREATE TABLE IF NOT EXISTS summoner_performances (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		summoner_id INTEGER NOT NULL REFERENCES summoners(id),
		match_id INTEGER NOT NULL REFERENCES matches(id),
		team_id INTEGER NOT NULL REFERENCES teams(id),
		participant_id INTEGER,
		champion_id INTEGER NOT NULL,
		role TEXT NOT NULL,
		kills INTEGER NOT NULL DEFAULT 0,
		deaths INTEGER NOT NULL DEFAULT 0,
		assists INTEGER NOT NULL DEFAULT 0,
		gold_earned INTEGER DEFAULT 0,
		total_minions_killed INTEGER DEFAULT 0,
		neutral_minions_killed INTEGER DEFAULT 0,
		vision_score INTEGER DEFAULT 0,
		damage_to_champions INTEGER DEFAULT 0,
		total_healing_done INTEGER DEFAULT 0,
		largest_killing_spree INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_perf_summoner_champion ON summoner_performances(summoner_id, champion_id);
	CREATE INDEX IF NOT EXISTS idx_perf_match ON summoner_performances(match_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func observe(op string, start time.Time, err *error) {
	metrics.RecordRepositoryQuery(op, float64(time.Since(start).Microseconds())/1000, *err)
}

// Find returns performances matching every predicate in f.
func (s *SQLiteStore) Find(ctx context.Context, f Filter) (out []model.Performance, err error) {
	defer observe("find", time.Now(), &err)

	where := []string{"1 = 1"}
	var args []any
	if f.SummonerID != 0 {
		where = append(where, "p.summoner_id = ?")
		args = append(args, f.SummonerID)
	}

	keys := make([]string, 0, len(f.Equals))
	for k := range f.Equals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		col, ok := filterColumns[k]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, k)
		}
		where = append(where, col+" = ?")
		args = append(args, f.Equals[k])
	}

	query := `
	SELECT p.id, p.summoner_id, p.match_id, p.team_id, t.side, p.participant_id,
		p.champion_id, p.role, p.kills, p.deaths, p.assists, p.gold_earned,
		p.total_minions_killed, p.neutral_minions_killed, p.vision_score,
		p.damage_to_champions, p.total_healing_done, p.largest_killing_spree,
		CASE WHEN p.team_id = m.winning_team_id THEN 1 ELSE 0 END
	FROM summoner_performances p
	JOIN matches m ON m.id = p.match_id
	JOIN teams t ON t.id = p.team_id
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY m.id, p.id`

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query performances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p    model.Performance
			role string
			won  int
		)
		if err = rows.Scan(&p.ID, &p.SummonerID, &p.MatchID, &p.TeamID, &p.Side, &p.ParticipantID,
			&p.ChampionID, &role, &p.Kills, &p.Deaths, &p.Assists, &p.GoldEarned,
			&p.TotalMinionsKilled, &p.NeutralMinionsKilled, &p.VisionScore,
			&p.DamageToChampions, &p.TotalHealingDone, &p.LargestKillingSpree, &won); err != nil {
			return nil, fmt.Errorf("scan performance: %w", err)
		}
		p.Role = model.Role(role)
		p.Victorious = won == 1
		out = append(out, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate performances: %w", err)
	}
	return out, nil
}

// FindSummoner looks a summoner up by name and region.
func (s *SQLiteStore) FindSummoner(ctx context.Context, name, region string) (sm model.Summoner, err error) {
	defer observe("find_summoner", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		accountID, summonerID sql.NullInt64
		updated               int64
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT id, name, region, account_id, summoner_id, updated_at
		FROM summoners WHERE lower(name) = lower(?) AND region = ?`,
		strings.TrimSpace(name), region,
	).Scan(&sm.ID, &sm.Name, &sm.Region, &accountID, &summonerID, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Summoner{}, fmt.Errorf("%w: summoner %q in %s", ErrNotFound, name, region)
	}
	if err != nil {
		return model.Summoner{}, fmt.Errorf("query summoner: %w", err)
	}
	sm.AccountID = accountID.Int64
	sm.SummonerID = summonerID.Int64
	sm.UpdatedAt = time.Unix(0, updated).UTC()
	return sm, nil
}

// SummonerNames lists the summoner names stored for region.
func (s *SQLiteStore) SummonerNames(ctx context.Context, region string) (names []string, err error) {
	defer observe("summoner_names", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM summoners WHERE region = ? ORDER BY id`, region)
	if err != nil {
		return nil, fmt.Errorf("query summoner names: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n string
		if err = rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan summoner name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// SaveSummoner upserts by (name, region).
func (s *SQLiteStore) SaveSummoner(ctx context.Context, sm *model.Summoner) (err error) {
	defer observe("save_summoner", time.Now(), &err)

	if sm == nil || strings.TrimSpace(sm.Name) == "" || sm.Region == "" {
		return fmt.Errorf("%w: summoner needs a name and region", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sm.UpdatedAt = s.now().UTC()
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO summoners (name, region, account_id, summoner_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name, region) DO UPDATE SET
			account_id = excluded.account_id,
			summoner_id = excluded.summoner_id,
			updated_at = excluded.updated_at
		RETURNING id`,
		sm.Name, sm.Region, sm.AccountID, sm.SummonerID, sm.UpdatedAt.UnixNano(),
	).Scan(&sm.ID)
	if err != nil {
		return fmt.Errorf("upsert summoner: %w", err)
	}
	return nil
}

// SaveMatch stores m, its teams and performances in one transaction. Team
// ids on performances are resolved from their Side.
func (s *SQLiteStore) SaveMatch(ctx context.Context, m *model.Match) (err error) {
	defer observe("save_match", time.Now(), &err)

	if m == nil || m.GameID == 0 {
		return fmt.Errorf("%w: match needs a game id", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO matches (game_id, queue_id, season_id, region, game_duration)
		VALUES (?, ?, ?, ?, ?)`,
		m.GameID, m.QueueID, m.SeasonID, m.Region, m.GameDuration)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("match id: %w", err)
	}

	sides := make(map[int]int64, len(m.Teams))
	for i := range m.Teams {
		t := &m.Teams[i]
		res, err = tx.ExecContext(ctx, `
			INSERT INTO teams (match_id, side, tower_kills, inhibitor_kills, baron_kills, dragon_kills)
			VALUES (?, ?, ?, ?, ?, ?)`,
			m.ID, t.Side, t.TowerKills, t.InhibitorKills, t.BaronKills, t.DragonKills)
		if err != nil {
			return fmt.Errorf("insert team %d: %w", t.Side, err)
		}
		if t.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("team id: %w", err)
		}
		sides[t.Side] = t.ID
	}

	if winner, ok := sides[m.WinningSide]; ok {
		if _, err = tx.ExecContext(ctx, `UPDATE matches SET winning_team_id = ? WHERE id = ?`, winner, m.ID); err != nil {
			return fmt.Errorf("set winner: %w", err)
		}
	}

	for i := range m.Performances {
		p := &m.Performances[i]
		teamID, ok := sides[p.Side]
		if !ok {
			err = fmt.Errorf("%w: performance on unknown side %d", ErrInvalidRecord, p.Side)
			return err
		}
		p.MatchID = m.ID
		p.TeamID = teamID
		p.Victorious = p.Side == m.WinningSide
		res, err = tx.ExecContext(ctx, `
			INSERT INTO summoner_performances (
				summoner_id, match_id, team_id, participant_id, champion_id, role,
				kills, deaths, assists, gold_earned, total_minions_killed,
				neutral_minions_killed, vision_score, damage_to_champions,
				total_healing_done, largest_killing_spree
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.SummonerID, p.MatchID, p.TeamID, p.ParticipantID, p.ChampionID, string(p.Role),
			p.Kills, p.Deaths, p.Assists, p.GoldEarned, p.TotalMinionsKilled,
			p.NeutralMinionsKilled, p.VisionScore, p.DamageToChampions,
			p.TotalHealingDone, p.LargestKillingSpree)
		if err != nil {
			return fmt.Errorf("insert performance: %w", err)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("performance id: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
