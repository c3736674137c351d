// Package results writes inferred W/L/F results for locked games that have none.
package results

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/contentstore"
	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/logging"
	"github.com/preston-bernstein/hoops-league-service/internal/metrics"
)

// Report summarizes one reconcile run.
type Report struct {
	Checked  int           `json:"checked"`
	Updated  int           `json:"updated"`
	Ties     int           `json:"ties"`
	Failed   []string      `json:"failed,omitempty"`
	Duration time.Duration `json:"-"`
}

// Options tune a run.
type Options struct {
	// Overwrite recomputes results for games that already have one.
	Overwrite bool
}

// Reconciler infers results from final scores and saves them.
type Reconciler struct {
	store    contentstore.Store
	logger   *slog.Logger
	recorder *metrics.Recorder
	now      func() time.Time
}

// NewReconciler builds a reconciler over store.
func NewReconciler(store contentstore.Store, logger *slog.Logger, recorder *metrics.Recorder) *Reconciler {
	return &Reconciler{store: store, logger: logger, recorder: recorder, now: time.Now}
}

// Run reconciles every locked game. Per-game failures are collected and
// joined into the returned error; they never stop the run.
func (r *Reconciler) Run(ctx context.Context, opts Options) (Report, error) {
	start := r.now()
	report := Report{}
	if r.store == nil {
		return report, contentstore.ErrUnavailable
	}

	list, err := r.store.FetchGames(ctx, contentstore.Filter{LockedOnly: true})
	if err != nil {
		return report, fmt.Errorf("fetch locked games: %w", err)
	}

	var errs []error
	for _, g := range list {
		if g.ID == "" || (g.HasResult() && !opts.Overwrite) {
			continue
		}
		report.Checked++
		resultA, resultB := games.InferResult(g.ScoreA, g.ScoreB)
		if !resultA.IsValid() {
			report.Ties++
			continue
		}
		if g.ResultTeamA == resultA && g.ResultTeamB == resultB {
			continue
		}
		if err := r.store.PersistResult(ctx, g.ID, resultA, resultB); err != nil {
			report.Failed = append(report.Failed, g.ID)
			errs = append(errs, fmt.Errorf("game %s: %w", g.ID, err))
			continue
		}
		report.Updated++
	}

	report.Duration = r.now().Sub(start)
	r.recorder.RecordReconcile(report.Duration, report.Updated, len(report.Failed))

	joined := errors.Join(errs...)
	if joined != nil {
		logging.Error(r.logger, "results reconcile finished with failures", joined,
			logging.FieldCount, report.Updated,
			"failed", len(report.Failed),
			logging.FieldDurationMS, report.Duration.Milliseconds(),
		)
	} else {
		logging.Info(r.logger, "results reconciled",
			logging.FieldCount, report.Updated,
			"checked", report.Checked,
			logging.FieldDurationMS, report.Duration.Milliseconds(),
		)
	}
	return report, joined
}
