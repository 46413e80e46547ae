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

type mockAssignStaffStore struct {
	rota       *roster.Rota
	latest     *roster.Rota
	staff      []model.StaffMember
	getErr     error
	listErr    error
	replaceErr error

	replaced        *roster.Rota
	replacedVersion int
}

func (m *mockAssignStaffStore) GetRota(ctx context.Context, id string) (*roster.Rota, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.rota == nil || m.rota.ID != id {
		return nil, db.ErrNotFound
	}
	return m.rota, nil
}

func (m *mockAssignStaffStore) GetLatestRota(ctx context.Context) (*roster.Rota, error) {
	if m.latest == nil {
		return nil, db.ErrNotFound
	}
	return m.latest, nil
}

func (m *mockAssignStaffStore) ListStaff(ctx context.Context) ([]model.StaffMember, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.staff, nil
}

func (m *mockAssignStaffStore) ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = rota
	m.replacedVersion = expectedVersion
	rota.Version = expectedVersion + 1
	return nil
}

func TestAssignStaff_Success(t *testing.T) {
	rota := testRota(t)
	store := &mockAssignStaffStore{
		rota:  rota,
		staff: []model.StaffMember{testMember("alice", "Alice", "Nguyen", model.RoleCareStaff)},
	}
	shift, ok := rota.ShiftAt(testWeekStart, model.SlotMorning)
	require.True(t, ok)
	ctx := context.Background()

	result, err := AssignStaff(ctx, store, zap.NewNop(), rota.ID, shift.ID, "alice", model.RoleCareStaff, false, "")

	require.NoError(t, err)
	assert.Equal(t, roster.StatusFullyStaffed, result.ShiftStatus)
	assert.Equal(t, 2, result.Version)
	assert.Empty(t, result.Warnings)

	assert.Same(t, rota, store.replaced)
	assert.Equal(t, 1, store.replacedVersion)

	asg, ok := shift.AssignmentFor("alice")
	require.True(t, ok)
	assert.Equal(t, DefaultAssignedBy, asg.AssignedBy)
	assert.False(t, asg.Override)
}

func TestAssignStaff_FallsBackToLatestRota(t *testing.T) {
	rota := testRota(t)
	store := &mockAssignStaffStore{
		latest: rota,
		staff:  []model.StaffMember{testMember("alice", "Alice", "Nguyen", model.RoleCareStaff)},
	}
	shift, ok := rota.ShiftAt(testWeekStart, model.SlotAfternoon)
	require.True(t, ok)
	ctx := context.Background()

	result, err := AssignStaff(ctx, store, zap.NewNop(), "", shift.ID, "alice", model.RoleCareStaff, false, "rota-admin")

	require.NoError(t, err)
	assert.Equal(t, rota.ID, result.RotaID)

	asg, ok := shift.AssignmentFor("alice")
	require.True(t, ok)
	assert.Equal(t, "rota-admin", asg.AssignedBy)
}

func TestAssignStaff_IneligibleRejected(t *testing.T) {
	rota := testRota(t)
	onLeave := testMember("alice", "Alice", "Nguyen", model.RoleCareStaff)
	onLeave.LeaveIntervals = []model.LeaveInterval{
		{Start: testWeekStart, End: testWeekStart.AddDate(0, 0, 2)},
	}
	store := &mockAssignStaffStore{rota: rota, staff: []model.StaffMember{onLeave}}
	shift, ok := rota.ShiftAt(testWeekStart, model.SlotMorning)
	require.True(t, ok)
	ctx := context.Background()

	_, err := AssignStaff(ctx, store, zap.NewNop(), rota.ID, shift.ID, "alice", model.RoleCareStaff, false, "")

	require.Error(t, err)
	var ineligible *roster.IneligibleError
	require.ErrorAs(t, err, &ineligible)
	require.Len(t, ineligible.Violations, 1)
	assert.Equal(t, roster.RuleOnLeave, ineligible.Violations[0].Rule)
	assert.Nil(t, store.replaced)
}

func TestAssignStaff_OverrideProceedsWithConflict(t *testing.T) {
	rota := testRota(t)
	onLeave := testMember("alice", "Alice", "Nguyen", model.RoleCareStaff)
	onLeave.LeaveIntervals = []model.LeaveInterval{
		{Start: testWeekStart, End: testWeekStart.AddDate(0, 0, 2)},
	}
	store := &mockAssignStaffStore{rota: rota, staff: []model.StaffMember{onLeave}}
	shift, ok := rota.ShiftAt(testWeekStart, model.SlotMorning)
	require.True(t, ok)
	ctx := context.Background()

	result, err := AssignStaff(ctx, store, zap.NewNop(), rota.ID, shift.ID, "alice", model.RoleCareStaff, true, "duty-manager")

	require.NoError(t, err)
	assert.Equal(t, roster.StatusConflict, result.ShiftStatus)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[len(result.Warnings)-1], "on leave")

	assert.Same(t, rota, store.replaced)
	asg, ok := shift.AssignmentFor("alice")
	require.True(t, ok)
	assert.True(t, asg.Override)
}

func TestAssignStaff_UnknownShift(t *testing.T) {
	rota := testRota(t)
	store := &mockAssignStaffStore{
		rota:  rota,
		staff: []model.StaffMember{testMember("alice", "Alice", "Nguyen", model.RoleCareStaff)},
	}
	ctx := context.Background()

	_, err := AssignStaff(ctx, store, zap.NewNop(), rota.ID, "no-such-shift", "alice", model.RoleCareStaff, false, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, roster.ErrUnknownShift)
	assert.Nil(t, store.replaced)
}

func TestAssignStaff_VersionConflictSurfaces(t *testing.T) {
	rota := testRota(t)
	store := &mockAssignStaffStore{
		rota:       rota,
		staff:      []model.StaffMember{testMember("alice", "Alice", "Nguyen", model.RoleCareStaff)},
		replaceErr: db.ErrVersionConflict,
	}
	shift, ok := rota.ShiftAt(testWeekStart, model.SlotMorning)
	require.True(t, ok)
	ctx := context.Background()

	_, err := AssignStaff(ctx, store, zap.NewNop(), rota.ID, shift.ID, "alice", model.RoleCareStaff, false, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrVersionConflict)
}
