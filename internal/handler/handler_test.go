package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/events"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/planner"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/solver"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/validation"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/workshift"
)

const testSecret = "test-secret"

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	acquired []string
	released []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) Acquire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	l.acquired = append(l.acquired, key)
	return true, nil
}

func (l *fakeLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	l.released = append(l.released, key)
	return nil
}

// fakeSolver 为 picks 中的变量返回 1，其余返回 0
type fakeSolver struct {
	picks []string
	err   error
}

func (s *fakeSolver) SolveAsync(ctx context.Context, m *scheduler.Model) *solver.Future[[]scheduler.Assignment] {
	return solver.Async(func() ([]scheduler.Assignment, error) {
		if s.err != nil {
			return nil, s.err
		}
		assignments := []scheduler.Assignment{}
		for _, name := range s.picks {
			assignments = append(assignments, scheduler.Assignment{Name: name, Value: 1})
		}
		return assignments, nil
	})
}

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(t *testing.T, s planner.Solver, locker Locker) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.Redis.OperationExpiration = 1
	cfg.Redis.LockExpiration = 60

	cal := calendar.New(time.UTC)
	registry := domain.NewActionRegistry()
	shifts := workshift.NewService(cal, registry)
	builder := scheduler.NewBuilder(shifts, scheduler.WithLogger(slogDiscard()))

	h, err := NewHandler(cfg, Dependencies{
		Calendar: cal,
		Registry: registry,
		Engine:   validation.NewEngine(shifts, slogDiscard()),
		Builder:  builder,
		Planner: planner.New(
			builder,
			scheduler.NewApplier(shifts, slogDiscard()),
			s,
			events.LogPublisher{Logger: slogDiscard()},
			slogDiscard(),
		),
		Locker: locker,
	})
	require.NoError(t, err)
	h.RegisterRoutes()
	return h
}

func signToken(t *testing.T, secret string, role domain.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(1, 10),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func ledgerBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(domain.LedgerDocument{
		Date: "2024-03-01",
		Employees: []domain.EmployeeDocument{
			{ID: 1, Name: "陈静", TotWeekShifts: 5, MaxWeekMornings: 3, MaxWeekAfternoons: 3},
		},
		Groups:        []domain.GroupDocument{},
		Subgroups:     []domain.SubgroupDocument{},
		AvailableCars: 1,
		Shifts: []domain.ShiftDocument{
			{EmployeeID: 1, Date: "2024-03-04", Value: "F"},
		},
	})
	require.NoError(t, err)
	return body
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, h *Handler, path, token string, body []byte) (int, response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestAuth(t *testing.T) {
	h := newTestHandler(t, &fakeSolver{}, newFakeLocker())

	_, resp := do(t, h, "/ledgers/validate", "", ledgerBody(t))
	assert.False(t, resp.Success)
	assert.Equal(t, "用户未登录", resp.Message)

	_, resp = do(t, h, "/ledgers/validate", signToken(t, "other-secret", domain.RoleBlackCore), ledgerBody(t))
	assert.False(t, resp.Success)
	assert.Equal(t, "无效的令牌", resp.Message)

	// 也可以从 cookie 中读取令牌
	req := httptest.NewRequest(http.MethodPost, "/ledgers/validate", bytes.NewReader(ledgerBody(t)))
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: signToken(t, testSecret, domain.RoleNormalAssistant)})
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
}

func TestValidateLedger(t *testing.T) {
	h := newTestHandler(t, &fakeSolver{}, newFakeLocker())

	status, resp := do(t, h, "/ledgers/validate", signToken(t, testSecret, domain.RoleNormalAssistant), ledgerBody(t))
	assert.Equal(t, http.StatusOK, status)
	require.True(t, resp.Success, resp.Message)

	var report validation.Report
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, "2024-03-01", report.Date)
	// 每周应工作 5 个班次，只有 03-04 这一周有一个外出
	assert.Len(t, report.Violations, 5)
}

func TestValidateLedgerRejectsMalformedBody(t *testing.T) {
	h := newTestHandler(t, &fakeSolver{}, newFakeLocker())
	token := signToken(t, testSecret, domain.RoleNormalAssistant)

	_, resp := do(t, h, "/ledgers/validate", token, []byte(`{"employees": []}`))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)

	_, resp = do(t, h, "/ledgers/validate", token, []byte(`not json`))
	assert.False(t, resp.Success)

	body, err := json.Marshal(domain.LedgerDocument{
		Date:      "2024-03-01",
		Employees: []domain.EmployeeDocument{{ID: 1, Name: "陈静"}},
		Shifts:    []domain.ShiftDocument{{EmployeeID: 1, Date: "2024-03-04", Value: "XYZ"}},
	})
	require.NoError(t, err)
	_, resp = do(t, h, "/ledgers/validate", token, body)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "XYZ")
}

func TestExportModel(t *testing.T) {
	h := newTestHandler(t, &fakeSolver{}, newFakeLocker())

	_, resp := do(t, h, "/ledgers/model", signToken(t, testSecret, domain.RoleNormalAssistant), ledgerBody(t))
	require.True(t, resp.Success, resp.Message)

	var req solver.Request
	require.NoError(t, json.Unmarshal(resp.Data, &req))
	// 2024-02-26 到 2024-03-31 共 35 天
	assert.Len(t, req.Variables, 35*4)
	assert.Len(t, req.Objective, 35*2)
}

func TestOptimizeLedger(t *testing.T) {
	locker := newFakeLocker()
	h := newTestHandler(t, &fakeSolver{picks: []string{
		"1_2024-03-04_MONDAY_AWAY",
		"1_2024-03-05_TUESDAY_MORNING",
	}}, locker)

	_, resp := do(t, h, "/ledgers/optimize", signToken(t, testSecret, domain.RoleNormalAssistant), ledgerBody(t))
	assert.False(t, resp.Success)
	assert.Equal(t, "权限不足", resp.Message)

	_, resp = do(t, h, "/ledgers/optimize", signToken(t, testSecret, domain.RoleBlackCore), ledgerBody(t))
	require.True(t, resp.Success, resp.Message)

	var data struct {
		Ledger  domain.LedgerDocument `json:"ledger"`
		Changed int                   `json:"changed"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, 1, data.Changed)
	assert.Equal(t, []domain.ShiftDocument{
		{EmployeeID: 1, Date: "2024-03-04", Value: "F"},
		{EmployeeID: 1, Date: "2024-03-05", Value: "M"},
	}, data.Ledger.Shifts)

	assert.Equal(t, []string{"optimize_lock_2024-03"}, locker.acquired)
	assert.Equal(t, []string{"optimize_lock_2024-03"}, locker.released)
}

func TestOptimizeLedgerWhileLocked(t *testing.T) {
	locker := newFakeLocker()
	locker.held["optimize_lock_2024-03"] = true
	h := newTestHandler(t, &fakeSolver{}, locker)

	_, resp := do(t, h, "/ledgers/optimize", signToken(t, testSecret, domain.RoleBlackCore), ledgerBody(t))
	assert.False(t, resp.Success)
	assert.Equal(t, "该月份正在优化中，请稍后再试", resp.Message)
	assert.Empty(t, locker.released)
}

func TestOptimizeLedgerSolverFailure(t *testing.T) {
	locker := newFakeLocker()
	h := newTestHandler(t, &fakeSolver{err: solver.ErrUnavailable}, locker)

	status, resp := do(t, h, "/ledgers/optimize", signToken(t, testSecret, domain.RoleSeniorAssistant), ledgerBody(t))
	assert.Equal(t, http.StatusBadGateway, status)
	assert.False(t, resp.Success)
	assert.Equal(t, []string{"optimize_lock_2024-03"}, locker.released)
}
