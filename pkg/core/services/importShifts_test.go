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

type mockImportShiftsStore struct {
	rota  *roster.Rota
	staff []model.StaffMember

	replaced        *roster.Rota
	replacedVersion int
}

func (m *mockImportShiftsStore) GetRota(ctx context.Context, id string) (*roster.Rota, error) {
	if m.rota == nil || m.rota.ID != id {
		return nil, db.ErrNotFound
	}
	return m.rota, nil
}

func (m *mockImportShiftsStore) GetLatestRota(ctx context.Context) (*roster.Rota, error) {
	if m.rota == nil {
		return nil, db.ErrNotFound
	}
	return m.rota, nil
}

func (m *mockImportShiftsStore) ListStaff(ctx context.Context) ([]model.StaffMember, error) {
	return m.staff, nil
}

func (m *mockImportShiftsStore) ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error {
	m.replaced = rota
	m.replacedVersion = expectedVersion
	rota.Version = expectedVersion + 1
	return nil
}

func TestImportShifts_Success(t *testing.T) {
	rota := testRota(t)
	store := &mockImportShiftsStore{
		rota: rota,
		staff: []model.StaffMember{
			testMember("alice", "Alice", "Nguyen", model.RoleCareStaff),
			testMember("bob", "Bob", "Okafor", model.RoleCareStaff),
		},
	}
	doc := []byte(`{"shifts": [
		{"date": "2025-06-02", "time": "Morning", "staff": ["alice"]},
		{"date": "2025-06-02", "time": "Afternoon", "staff": ["bob"]}
	]}`)
	ctx := context.Background()

	result, err := ImportShifts(ctx, store, zap.NewNop(), rota.ID, doc)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Report.Applied)
	assert.Equal(t, 0, result.Report.Skipped)
	assert.Empty(t, result.Report.Warnings)
	assert.Equal(t, 2, result.Version)
	assert.Same(t, rota, store.replaced)

	morning, ok := rota.ShiftAt(testWeekStart, model.SlotMorning)
	require.True(t, ok)
	asg, ok := morning.AssignmentFor("alice")
	require.True(t, ok)
	assert.Equal(t, "import", asg.AssignedBy)
	assert.Equal(t, roster.StatusFullyStaffed, morning.Status)
}

func TestImportShifts_MalformedDocument(t *testing.T) {
	rota := testRota(t)
	store := &mockImportShiftsStore{rota: rota}
	ctx := context.Background()

	_, err := ImportShifts(ctx, store, zap.NewNop(), rota.ID, []byte(`{"rows": []}`))

	require.Error(t, err)
	assert.ErrorIs(t, err, roster.ErrMalformedImport)
	assert.Nil(t, store.replaced)
}

func TestImportShifts_RowProblemsAreTolerated(t *testing.T) {
	rota := testRota(t)
	store := &mockImportShiftsStore{
		rota:  rota,
		staff: []model.StaffMember{testMember("alice", "Alice", "Nguyen", model.RoleCareStaff)},
	}
	doc := []byte(`{"shifts": [
		{"date": "2025-06-02", "time": "Twilight", "staff": ["alice"]},
		{"date": "2025-06-03", "time": "Morning", "staff": ["alice", "zz-unknown"]}
	]}`)
	ctx := context.Background()

	result, err := ImportShifts(ctx, store, zap.NewNop(), rota.ID, doc)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Report.Applied)
	assert.Equal(t, 1, result.Report.Skipped)
	assert.Len(t, result.Report.Warnings, 2)
	assert.Same(t, rota, store.replaced)

	tuesday, ok := rota.ShiftAt(testWeekStart.AddDate(0, 0, 1), model.SlotMorning)
	require.True(t, ok)
	_, ok = tuesday.AssignmentFor("alice")
	assert.True(t, ok)
}

func TestExportRota_RoundTripsImportDocument(t *testing.T) {
	rota := testRota(t)
	staff := []model.StaffMember{testMember("alice", "Alice", "Nguyen", model.RoleCareStaff)}
	shift, ok := rota.ShiftAt(testWeekStart, model.SlotMorning)
	require.True(t, ok)
	require.NoError(t, roster.NewAssembler(rota, staff).Assign(shift.ID, "alice", model.RoleCareStaff, "test", false))

	store := &mockImportShiftsStore{rota: rota, staff: staff}
	ctx := context.Background()

	payload, err := ExportRota(ctx, store, zap.NewNop(), rota.ID)

	require.NoError(t, err)
	require.Len(t, payload.Shifts, 21)
	assert.Equal(t, "2025-06-02", payload.Shifts[0].Date)
	assert.Equal(t, "Morning", payload.Shifts[0].Time)
	assert.Equal(t, []string{"alice"}, payload.Shifts[0].Staff)
}
