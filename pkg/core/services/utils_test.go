package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/db"
)

// testWeekStart is the Monday every service test builds its week on.
var testWeekStart = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

// lightRequirements keeps fixtures small: one care staff slot per shift.
func lightRequirements() roster.WeeklyShiftRequirements {
	return roster.WeeklyShiftRequirements{
		Morning:   roster.SlotRequirement{Total: 1},
		Afternoon: roster.SlotRequirement{Total: 1},
		Night:     roster.SlotRequirement{Total: 1},
	}
}

func testRota(t *testing.T) *roster.Rota {
	t.Helper()
	cfg := roster.DefaultRotaConfig()
	cfg.Requirements = lightRequirements()
	rota, err := roster.GenerateRoster(testWeekStart, lightRequirements(), cfg)
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

func intPtr(v int) *int {
	return &v
}

type mockRotaReader struct {
	rota      *roster.Rota
	latest    *roster.Rota
	getErr    error
	latestErr error
}

func (m *mockRotaReader) GetRota(ctx context.Context, id string) (*roster.Rota, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.rota == nil || m.rota.ID != id {
		return nil, db.ErrNotFound
	}
	return m.rota, nil
}

func (m *mockRotaReader) GetLatestRota(ctx context.Context) (*roster.Rota, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	if m.latest == nil {
		return nil, db.ErrNotFound
	}
	return m.latest, nil
}

func TestResolveRota_ByID(t *testing.T) {
	rota := testRota(t)
	reader := &mockRotaReader{rota: rota}
	ctx := context.Background()

	got, err := resolveRota(ctx, reader, zap.NewNop(), rota.ID)

	require.NoError(t, err)
	assert.Same(t, rota, got)
}

func TestResolveRota_FallsBackToLatest(t *testing.T) {
	rota := testRota(t)
	reader := &mockRotaReader{latest: rota}
	ctx := context.Background()

	got, err := resolveRota(ctx, reader, zap.NewNop(), "")

	require.NoError(t, err)
	assert.Same(t, rota, got)
}

func TestResolveRota_NotFound(t *testing.T) {
	reader := &mockRotaReader{}
	ctx := context.Background()

	_, err := resolveRota(ctx, reader, zap.NewNop(), "missing-id")

	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestCountByStatus(t *testing.T) {
	rota := testRota(t)
	staff := []model.StaffMember{testMember("alice", "Alice", "Nguyen", model.RoleCareStaff)}
	assembler := roster.NewAssembler(rota, staff)

	shift, ok := rota.ShiftAt(testWeekStart, model.SlotMorning)
	require.True(t, ok)
	require.NoError(t, assembler.Assign(shift.ID, "alice", model.RoleCareStaff, "test", false))

	counts := countByStatus(rota)

	assert.Equal(t, 1, counts[roster.StatusFullyStaffed])
	assert.Equal(t, 20, counts[roster.StatusUnfilled])
}
