package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/model"
)

type mockListStaffStore struct {
	staff   []model.StaffMember
	listErr error
}

func (m *mockListStaffStore) ListStaff(ctx context.Context) ([]model.StaffMember, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.staff, nil
}

func TestListStaff(t *testing.T) {
	store := &mockListStaffStore{
		staff: []model.StaffMember{
			testMember("alice", "Alice", "Nguyen", model.RoleCareStaff, model.RoleShiftLeader),
			testMember("bob", "Bob", "Okafor", model.RoleCareStaff),
		},
	}
	ctx := context.Background()

	staff, err := ListStaff(ctx, store, zap.NewNop())

	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Equal(t, "alice", staff[0].ID)
	assert.True(t, staff[0].HasRole(model.RoleShiftLeader))
}

func TestListStaff_Error(t *testing.T) {
	store := &mockListStaffStore{listErr: errors.New("connection reset")}
	ctx := context.Background()

	_, err := ListStaff(ctx, store, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list staff")
}
