package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/db"
)

type mockAutoFillRotaStore struct {
	rota  *roster.Rota
	staff []model.StaffMember

	replaced        *roster.Rota
	replacedVersion int
}

func (m *mockAutoFillRotaStore) GetRota(ctx context.Context, id string) (*roster.Rota, error) {
	if m.rota == nil || m.rota.ID != id {
		return nil, db.ErrNotFound
	}
	return m.rota, nil
}

func (m *mockAutoFillRotaStore) GetLatestRota(ctx context.Context) (*roster.Rota, error) {
	if m.rota == nil {
		return nil, db.ErrNotFound
	}
	return m.rota, nil
}

func (m *mockAutoFillRotaStore) ListStaff(ctx context.Context) ([]model.StaffMember, error) {
	return m.staff, nil
}

func (m *mockAutoFillRotaStore) ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error {
	m.replaced = rota
	m.replacedVersion = expectedVersion
	rota.Version = expectedVersion + 1
	return nil
}

func TestAutoFillRota_AppliesAndPersists(t *testing.T) {
	rota := testRota(t)
	store := &mockAutoFillRotaStore{
		rota: rota,
		staff: []model.StaffMember{
			testMember("s1", "Sam", "Iqbal", model.RoleCareStaff),
			testMember("s2", "Tess", "Boyd", model.RoleCareStaff),
			testMember("s3", "Uma", "Reid", model.RoleCareStaff),
		},
	}
	ctx := context.Background()

	result, err := AutoFillRota(ctx, store, zap.NewNop(), rota.ID, roster.DefaultSchedulerOptions())

	require.NoError(t, err)
	assert.True(t, result.Report.Applied)
	assert.Equal(t, 21, result.Report.Assigned)
	assert.Equal(t, 0, result.Report.OpenSlots)
	assert.Equal(t, 2, result.Version)

	// The pass works on a copy; only the filled copy is persisted.
	assert.NotSame(t, rota, result.Rota)
	assert.Same(t, result.Rota, store.replaced)
	assert.Equal(t, 1, store.replacedVersion)
	for _, shift := range result.Rota.Shifts {
		assert.Equal(t, roster.StatusFullyStaffed, shift.Status)
	}
}

func TestAutoFillRota_IncompletePassNotPersisted(t *testing.T) {
	rota := testRota(t)
	store := &mockAutoFillRotaStore{rota: rota}
	ctx := context.Background()

	result, err := AutoFillRota(ctx, store, zap.NewNop(), rota.ID, roster.DefaultSchedulerOptions())

	require.NoError(t, err)
	assert.False(t, result.Report.Applied)
	assert.Equal(t, 21, result.Report.OpenSlots)
	assert.NotEmpty(t, result.Report.Gaps)
	assert.Equal(t, 1, result.Version)

	assert.Same(t, rota, result.Rota)
	assert.Nil(t, store.replaced)
}

func TestAutoFillRota_PartialFillPersistsWhenAllowed(t *testing.T) {
	rota := testRota(t)
	onLeaveMidweek := testMember("s1", "Sam", "Iqbal", model.RoleCareStaff)
	onLeaveMidweek.LeaveIntervals = []model.LeaveInterval{
		{Start: testWeekStart.AddDate(0, 0, 3), End: testWeekStart.AddDate(0, 0, 6)},
	}
	store := &mockAutoFillRotaStore{
		rota:  rota,
		staff: []model.StaffMember{onLeaveMidweek},
	}
	opts := roster.DefaultSchedulerOptions()
	opts.AllowPartialFill = true
	ctx := context.Background()

	result, err := AutoFillRota(ctx, store, zap.NewNop(), rota.ID, opts)

	require.NoError(t, err)
	assert.True(t, result.Report.Applied)
	assert.Greater(t, result.Report.OpenSlots, 0)
	assert.Same(t, result.Rota, store.replaced)
	assert.Equal(t, 2, result.Version)
}
