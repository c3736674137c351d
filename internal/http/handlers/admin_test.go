package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/hoops-league-service/internal/poller"
	"github.com/preston-bernstein/hoops-league-service/internal/results"
	"github.com/preston-bernstein/hoops-league-service/internal/testutil"
)

type stubRefresher struct {
	err    error
	calls  int
	status poller.Status
}

func (s *stubRefresher) Refresh(ctx context.Context) error {
	_ = ctx
	s.calls++
	return s.err
}

func (s *stubRefresher) Status() poller.Status { return s.status }

type stubRunner struct {
	report results.Report
	err    error
	opts   results.Options
}

func (s *stubRunner) Run(ctx context.Context, opts results.Options) (results.Report, error) {
	_ = ctx
	s.opts = opts
	return s.report, s.err
}

func adminRequest(target, token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAdminRequiresBearerToken(t *testing.T) {
	refresher := &stubRefresher{}
	h := NewAdminHandler(refresher, &stubRunner{}, "secret", nil)

	rr := testutil.ServeRequest(http.HandlerFunc(h.RefreshGames), adminRequest("/admin/games/refresh", ""))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	rr = testutil.ServeRequest(http.HandlerFunc(h.RefreshGames), adminRequest("/admin/games/refresh", "wrong"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	req := httptest.NewRequest(http.MethodPost, "/admin/games/refresh", nil)
	req.Header.Set("Authorization", "secret")
	rr = testutil.ServeRequest(http.HandlerFunc(h.RefreshGames), req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	if refresher.calls != 0 {
		t.Fatalf("expected no refresh without auth")
	}
}

func TestAdminEmptyTokenRejectsEverything(t *testing.T) {
	h := NewAdminHandler(&stubRefresher{}, &stubRunner{}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/admin/results/reconcile", nil)
	req.Header.Set("Authorization", "Bearer ")
	rr := testutil.ServeRequest(http.HandlerFunc(h.ReconcileResults), req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestAdminRefreshGames(t *testing.T) {
	refresher := &stubRefresher{status: poller.Status{LastCount: 6}}
	h := NewAdminHandler(refresher, nil, "secret", nil)

	rr := testutil.ServeRequest(http.HandlerFunc(h.RefreshGames), adminRequest("/admin/games/refresh", "secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp map[string]any
	testutil.DecodeJSON(t, rr, &resp)
	if resp["count"] != float64(6) || refresher.calls != 1 {
		t.Fatalf("unexpected refresh response %v (calls %d)", resp, refresher.calls)
	}
}

func TestAdminRefreshGamesUpstreamFailure(t *testing.T) {
	h := NewAdminHandler(&stubRefresher{err: errors.New("down")}, nil, "secret", nil)
	rr := testutil.ServeRequest(http.HandlerFunc(h.RefreshGames), adminRequest("/admin/games/refresh", "secret"))
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
}

func TestAdminNotConfigured(t *testing.T) {
	h := NewAdminHandler(nil, nil, "secret", nil)
	rr := testutil.ServeRequest(http.HandlerFunc(h.RefreshGames), adminRequest("/admin/games/refresh", "secret"))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	rr = testutil.ServeRequest(http.HandlerFunc(h.ReconcileResults), adminRequest("/admin/results/reconcile", "secret"))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestAdminReconcileResults(t *testing.T) {
	runner := &stubRunner{report: results.Report{Checked: 2, Updated: 2}}
	h := NewAdminHandler(nil, runner, "secret", nil)

	rr := testutil.ServeRequest(http.HandlerFunc(h.ReconcileResults), adminRequest("/admin/results/reconcile?overwrite=true", "secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !runner.opts.Overwrite {
		t.Fatalf("expected overwrite passed through")
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) || !strings.Contains(rr.Body.String(), `"updated":2`) {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestAdminReconcilePartialFailure(t *testing.T) {
	runner := &stubRunner{
		report: results.Report{Checked: 2, Updated: 1, Failed: []string{"fixture-3"}},
		err:    errors.New("game fixture-3: boom"),
	}
	h := NewAdminHandler(nil, runner, "secret", nil)

	rr := testutil.ServeRequest(http.HandlerFunc(h.ReconcileResults), adminRequest("/admin/results/reconcile", "secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"status":"partial"`) || !strings.Contains(rr.Body.String(), "fixture-3") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestAdminReconcileFetchFailure(t *testing.T) {
	h := NewAdminHandler(nil, &stubRunner{err: errors.New("fetch locked games: down")}, "secret", nil)
	rr := testutil.ServeRequest(http.HandlerFunc(h.ReconcileResults), adminRequest("/admin/results/reconcile", "secret"))
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
}

func TestAdminReconcileRejectsBadFlag(t *testing.T) {
	h := NewAdminHandler(nil, &stubRunner{}, "secret", nil)
	rr := testutil.ServeRequest(http.HandlerFunc(h.ReconcileResults), adminRequest("/admin/results/reconcile?overwrite=maybe", "secret"))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}
