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

type mockPublishRotaStore struct {
	rota       *roster.Rota
	replaceErr error

	replaced        *roster.Rota
	replacedVersion int
}

func (m *mockPublishRotaStore) GetRota(ctx context.Context, id string) (*roster.Rota, error) {
	if m.rota == nil || m.rota.ID != id {
		return nil, db.ErrNotFound
	}
	return m.rota, nil
}

func (m *mockPublishRotaStore) GetLatestRota(ctx context.Context) (*roster.Rota, error) {
	if m.rota == nil {
		return nil, db.ErrNotFound
	}
	return m.rota, nil
}

func (m *mockPublishRotaStore) ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = rota
	m.replacedVersion = expectedVersion
	rota.Version = expectedVersion + 1
	return nil
}

func TestPublishRota_PublishesDraft(t *testing.T) {
	rota := testRota(t)
	staff := []model.StaffMember{testMember("alice", "Alice", "Nguyen", model.RoleCareStaff)}
	shift, ok := rota.ShiftAt(testWeekStart, model.SlotMorning)
	require.True(t, ok)
	require.NoError(t, roster.NewAssembler(rota, staff).Assign(shift.ID, "alice", model.RoleCareStaff, "test", false))

	store := &mockPublishRotaStore{rota: rota}
	ctx := context.Background()

	result, err := PublishRota(ctx, store, zap.NewNop(), rota.ID)

	require.NoError(t, err)
	assert.Equal(t, roster.RotaPublished, result.Status)
	assert.Equal(t, roster.RotaPublished, rota.Status)
	assert.Equal(t, 2, result.Version)
	assert.Equal(t, 1, result.FullyStaffed)
	assert.Equal(t, 20, result.Unfilled)
	assert.Same(t, rota, store.replaced)
	assert.Equal(t, 1, store.replacedVersion)
}

func TestPublishRota_ConflictBlocksPublish(t *testing.T) {
	rota := testRota(t)
	onLeave := testMember("alice", "Alice", "Nguyen", model.RoleCareStaff)
	onLeave.LeaveIntervals = []model.LeaveInterval{{Start: testWeekStart, End: testWeekStart}}
	shift, ok := rota.ShiftAt(testWeekStart, model.SlotMorning)
	require.True(t, ok)
	err := roster.NewAssembler(rota, []model.StaffMember{onLeave}).
		Assign(shift.ID, "alice", model.RoleCareStaff, "test", true)
	require.NoError(t, err)
	require.Equal(t, roster.StatusConflict, shift.Status)

	store := &mockPublishRotaStore{rota: rota}
	ctx := context.Background()

	_, err = PublishRota(ctx, store, zap.NewNop(), rota.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedConflicts)
	assert.Equal(t, roster.RotaDraft, rota.Status)
	assert.Nil(t, store.replaced)
}

func TestPublishRota_AlreadyPublished(t *testing.T) {
	rota := testRota(t)
	rota.Status = roster.RotaPublished
	store := &mockPublishRotaStore{rota: rota}
	ctx := context.Background()

	_, err := PublishRota(ctx, store, zap.NewNop(), rota.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyPublished)
	assert.Nil(t, store.replaced)
}

func TestPublishRota_ArchivedRejected(t *testing.T) {
	rota := testRota(t)
	rota.Status = roster.RotaArchived
	store := &mockPublishRotaStore{rota: rota}
	ctx := context.Background()

	_, err := PublishRota(ctx, store, zap.NewNop(), rota.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRotaArchived)
	assert.Nil(t, store.replaced)
}
