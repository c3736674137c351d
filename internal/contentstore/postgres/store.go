// Package postgres serves games from a Postgres `games` table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/preston-bernstein/hoops-league-service/internal/contentstore"
	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// Name identifies this store in logs and metrics.
const Name = "postgres"

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Schema creates the games table when missing.
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	id             TEXT PRIMARY KEY,
	game_number    INTEGER NOT NULL DEFAULT 0,
	team_a         TEXT NOT NULL DEFAULT '',
	team_b         TEXT NOT NULL DEFAULT '',
	age_group      TEXT NOT NULL DEFAULT '',
	venue          TEXT NOT NULL DEFAULT '',
	court_number   TEXT NOT NULL DEFAULT '',
	fixture_at     TIMESTAMPTZ,
	score_a        INTEGER NOT NULL DEFAULT 0,
	score_b        INTEGER NOT NULL DEFAULT 0,
	result_team_a  TEXT NOT NULL DEFAULT '',
	result_team_b  TEXT NOT NULL DEFAULT '',
	is_locked      BOOLEAN NOT NULL DEFAULT FALSE,
	has_scoresheet BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const selectColumns = `id, game_number, team_a, team_b, age_group, venue, court_number,
	fixture_at, score_a, score_b, result_team_a, result_team_b, is_locked, has_scoresheet`

// Store implements contentstore.Store on database/sql.
type Store struct {
	db *sql.DB
}

// Open connects to dsn, sizes the pool and pings the server.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn: %w", contentstore.ErrUnavailable)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return New(db), nil
}

// New wraps an open handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the games table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", classify(err))
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) FetchGames(ctx context.Context, filter contentstore.Filter) ([]games.Game, error) {
	query, args := buildFetchQuery(filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", classify(err))
	}
	defer rows.Close()

	var out []games.Game
	for rows.Next() {
		var (
			g         games.Game
			fixtureAt sql.NullTime
			resultA   string
			resultB   string
		)
		if err := rows.Scan(
			&g.ID, &g.GameNumber, &g.TeamA, &g.TeamB, &g.AgeGroup, &g.Venue, &g.CourtNumber,
			&fixtureAt, &g.ScoreA, &g.ScoreB, &resultA, &resultB, &g.IsLocked, &g.HasScoresheet,
		); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, fromRow(g, fixtureAt, resultA, resultB))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", classify(err))
	}
	return out, nil
}

func (s *Store) PersistScore(ctx context.Context, gameID string, scoreA, scoreB int) (games.PersistResult, error) {
	var (
		res     games.PersistResult
		resultA string
		resultB string
	)
	err := s.db.QueryRowContext(ctx, updateScoreQuery, scoreA, scoreB, gameID).
		Scan(&res.ScoreA, &res.ScoreB, &resultA, &resultB)
	if errors.Is(err, sql.ErrNoRows) {
		return games.PersistResult{}, contentstore.ErrNotFound
	}
	if err != nil {
		return games.PersistResult{}, fmt.Errorf("update score: %w", classify(err))
	}
	res.ResultTeamA = games.ParseResult(resultA)
	res.ResultTeamB = games.ParseResult(resultB)
	return res, nil
}

func (s *Store) PersistResult(ctx context.Context, gameID string, resultA, resultB games.Result) error {
	tag, err := s.db.ExecContext(ctx, updateResultQuery, string(resultA), string(resultB), gameID)
	if err != nil {
		return fmt.Errorf("update result: %w", classify(err))
	}
	n, err := tag.RowsAffected()
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	if n == 0 {
		return contentstore.ErrNotFound
	}
	return nil
}

const updateScoreQuery = `
	UPDATE games SET score_a = $1, score_b = $2, updated_at = now()
	WHERE id = $3
	RETURNING score_a, score_b, result_team_a, result_team_b`

const updateResultQuery = `
	UPDATE games SET result_team_a = $1, result_team_b = $2, updated_at = now()
	WHERE id = $3`

func buildFetchQuery(filter contentstore.Filter) (string, []any) {
	query := "SELECT " + selectColumns + " FROM games WHERE 1=1"
	args := []any{}
	argIdx := 1

	if filter.AgeGroup != "" {
		query += fmt.Sprintf(" AND age_group = $%d", argIdx)
		args = append(args, filter.AgeGroup)
		argIdx++
	}
	if filter.LockedOnly {
		query += " AND is_locked"
	}
	if !filter.From.IsZero() {
		query += fmt.Sprintf(" AND fixture_at >= $%d", argIdx)
		args = append(args, filter.From.UTC())
		argIdx++
	}
	if !filter.To.IsZero() {
		query += fmt.Sprintf(" AND fixture_at < $%d", argIdx)
		args = append(args, filter.To.UTC())
	}

	query += " ORDER BY game_number ASC, id ASC"
	return query, args
}

func fromRow(g games.Game, fixtureAt sql.NullTime, resultA, resultB string) games.Game {
	if fixtureAt.Valid {
		at := fixtureAt.Time.UTC()
		g.FixtureDateTime = &at
	}
	g.ResultTeamA = games.Result(resultA)
	g.ResultTeamB = games.Result(resultB)
	return g.Normalize()
}

// classify turns transient server conditions into a temporary StatusError so
// the retrying wrapper backs off on them.
func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code.Class() {
	case "08", "53", "57":
		return &contentstore.StatusError{
			Store:      Name,
			StatusCode: http.StatusServiceUnavailable,
			Message:    fmt.Sprintf("%s: %s", pqErr.Code.Name(), pqErr.Message),
		}
	default:
		return err
	}
}
