package server

import (
	"log/slog"

	appgames "github.com/preston-bernstein/hoops-league-service/internal/app/games"
	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/logging"
	"github.com/preston-bernstein/hoops-league-service/internal/metrics"
	"github.com/preston-bernstein/hoops-league-service/internal/scoreboard"
)

// sessionObserver logs and counts scoreboard outcomes and folds saved
// scores back into the games cache.
type sessionObserver struct {
	scoreboard.NopObserver

	games   *appgames.Service
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newSessionObserver(gamesSvc *appgames.Service, logger *slog.Logger, recorder *metrics.Recorder) *sessionObserver {
	return &sessionObserver{games: gamesSvc, logger: logger, metrics: recorder}
}

func (o *sessionObserver) TimeExpired(gameID string) {
	o.metrics.RecordClockExpired()
	logging.Info(o.logger, "game clock expired", logging.FieldGameID, gameID)
}

func (o *sessionObserver) Persisted(gameID string, result games.PersistResult) {
	o.metrics.RecordPersist(nil)
	if o.games != nil && !o.games.ApplyPersisted(gameID, result) {
		logging.Warn(o.logger, "persisted score for uncached game", logging.FieldGameID, gameID)
	}
}

func (o *sessionObserver) PersistFailed(err *scoreboard.PersistenceFailedError) {
	o.metrics.RecordPersist(err)
	logging.Error(o.logger, "score persist failed", err.Err,
		logging.FieldGameID, err.GameID,
		"score_a", err.Score.A,
		"score_b", err.Score.B,
	)
}

func (o *sessionObserver) Coalesced(string) {
	o.metrics.RecordCoalesced()
}
