package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/internal/config"
	"github.com/oakhollow/staff-rota/pkg/auth"
	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/db"
)

// testWeekStart is a Monday.
var testWeekStart = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

// mockDatabase implements db.Database over in-memory fixtures.
type mockDatabase struct {
	staff   []model.StaffMember
	rotas   map[string]*roster.Rota
	latest  *roster.Rota
	records []db.RotaRecord
	admins  map[string]*db.AdminUser

	inserted   []*roster.Rota
	replaced   *roster.Rota
	replaceErr error
	staffErr   error
}

func newMockDatabase() *mockDatabase {
	return &mockDatabase{
		rotas:  make(map[string]*roster.Rota),
		admins: make(map[string]*db.AdminUser),
	}
}

func (m *mockDatabase) add(rota *roster.Rota) {
	m.rotas[rota.ID] = rota
	m.latest = rota
}

func (m *mockDatabase) ListStaff(ctx context.Context) ([]model.StaffMember, error) {
	if m.staffErr != nil {
		return nil, m.staffErr
	}
	return m.staff, nil
}

func (m *mockDatabase) GetStaff(ctx context.Context, id string) (model.StaffMember, error) {
	for _, member := range m.staff {
		if member.ID == id {
			return member, nil
		}
	}
	return model.StaffMember{}, db.ErrNotFound
}

func (m *mockDatabase) InsertRota(ctx context.Context, rota *roster.Rota) error {
	m.inserted = append(m.inserted, rota)
	m.add(rota)
	return nil
}

func (m *mockDatabase) GetRota(ctx context.Context, id string) (*roster.Rota, error) {
	rota, ok := m.rotas[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return rota, nil
}

func (m *mockDatabase) GetLatestRota(ctx context.Context) (*roster.Rota, error) {
	if m.latest == nil {
		return nil, db.ErrNotFound
	}
	return m.latest, nil
}

func (m *mockDatabase) GetDraftRotaForWeek(ctx context.Context, weekStart time.Time) (*roster.Rota, error) {
	day := model.DateOnly(weekStart)
	for _, rota := range m.rotas {
		if rota.Status == roster.RotaDraft && rota.StartDate.Equal(day) {
			return rota, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockDatabase) ListRotas(ctx context.Context) ([]db.RotaRecord, error) {
	return m.records, nil
}

func (m *mockDatabase) ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = rota
	rota.Version = expectedVersion + 1
	m.rotas[rota.ID] = rota
	return nil
}

func (m *mockDatabase) GetAdminByUsername(ctx context.Context, username string) (*db.AdminUser, error) {
	admin, ok := m.admins[username]
	if !ok {
		return nil, db.ErrNotFound
	}
	return admin, nil
}

func (m *mockDatabase) CountAdmins(ctx context.Context) (int, error) {
	return len(m.admins), nil
}

func (m *mockDatabase) InsertAdmin(ctx context.Context, admin *db.AdminUser) error {
	m.admins[admin.Username] = admin
	return nil
}

// stubPinger fails health checks on demand.
type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error {
	return p.err
}

type testEnv struct {
	db     *mockDatabase
	pinger *stubPinger
	router *gin.Engine
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database := newMockDatabase()
	authService := auth.NewService("test-secret")
	pinger := &stubPinger{}

	h := &Handler{
		DB:     database,
		Auth:   authService,
		Config: &config.Config{DatabaseURL: "postgres://localhost/staff_rota_test"},
		Logger: zap.NewNop(),
		Pinger: pinger,
	}
	router := gin.New()
	h.Routes(router)

	token, err := authService.CreateToken("test-admin")
	require.NoError(t, err)

	return &testEnv{db: database, pinger: pinger, router: router, token: token}
}

// request performs an authenticated request with an optional JSON body.
func (e *testEnv) request(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a JSON response body into a generic map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func testRequirements() roster.WeeklyShiftRequirements {
	return roster.WeeklyShiftRequirements{
		Morning:   roster.SlotRequirement{Total: 1},
		Afternoon: roster.SlotRequirement{Total: 1},
		Night:     roster.SlotRequirement{Total: 1},
	}
}

func testRota(t *testing.T) *roster.Rota {
	t.Helper()
	rota, err := roster.GenerateRoster(testWeekStart, testRequirements(), roster.DefaultRotaConfig())
	require.NoError(t, err)
	return rota
}

func testMember(id, firstName, lastName string, roles ...model.Role) model.StaffMember {
	return model.StaffMember{
		ID:              id,
		FirstName:       firstName,
		LastName:        lastName,
		Roles:           roles,
		ContractedHours: 37.5,
		Compliance: model.ComplianceScore{
			Overall: 92, Training: 92, Certification: 92, Supervision: 92, Documentation: 92,
		},
		Performance: model.PerformanceMetrics{
			AttendanceRate: 90, PunctualityScore: 90, ShiftCompletionRate: 90, FeedbackScore: 90,
		},
		Active: true,
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestHealthz_DegradedWhenStoreUnreachable(t *testing.T) {
	env := newTestEnv(t)
	env.pinger.err = errors.New("connection refused")

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decode(t, rec)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	hash, err := auth.HashPassword("rota-secret")
	require.NoError(t, err)
	env.db.admins["head-of-care"] = &db.AdminUser{
		ID:           "admin-1",
		Username:     "head-of-care",
		PasswordHash: hash,
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/login",
		bytes.NewReader([]byte(`{"username":"head-of-care","password":"rota-secret"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["token"])
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	hash, err := auth.HashPassword("rota-secret")
	require.NoError(t, err)
	env.db.admins["head-of-care"] = &db.AdminUser{
		ID:           "admin-1",
		Username:     "head-of-care",
		PasswordHash: hash,
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/login",
		bytes.NewReader([]byte(`{"username":"head-of-care","password":"guessed"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rotas", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rotas", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
