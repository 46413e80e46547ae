package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/db"
)

type mockListRotasStore struct {
	rotas   []db.RotaRecord
	listErr error
}

func (m *mockListRotasStore) ListRotas(ctx context.Context) ([]db.RotaRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.rotas, nil
}

func TestGetRoster_ByID(t *testing.T) {
	rota := testRota(t)
	reader := &mockRotaReader{rota: rota}
	ctx := context.Background()

	got, err := GetRoster(ctx, reader, zap.NewNop(), rota.ID)

	require.NoError(t, err)
	assert.Same(t, rota, got)
}

func TestGetRoster_LatestWhenNoID(t *testing.T) {
	rota := testRota(t)
	reader := &mockRotaReader{latest: rota}
	ctx := context.Background()

	got, err := GetRoster(ctx, reader, zap.NewNop(), "")

	require.NoError(t, err)
	assert.Same(t, rota, got)
}

func TestGetRoster_NotFound(t *testing.T) {
	reader := &mockRotaReader{}
	ctx := context.Background()

	_, err := GetRoster(ctx, reader, zap.NewNop(), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestListRotas(t *testing.T) {
	store := &mockListRotasStore{
		rotas: []db.RotaRecord{
			{ID: "r2", StartDate: testWeekStart.AddDate(0, 0, 7), Status: string(roster.RotaDraft), Version: 1},
			{ID: "r1", StartDate: testWeekStart, Status: string(roster.RotaPublished), Version: 3},
		},
	}
	ctx := context.Background()

	rotas, err := ListRotas(ctx, store, zap.NewNop())

	require.NoError(t, err)
	require.Len(t, rotas, 2)
	assert.Equal(t, "r2", rotas[0].ID)
	assert.Equal(t, "r1", rotas[1].ID)
}

func TestListRotas_Error(t *testing.T) {
	store := &mockListRotasStore{listErr: errors.New("connection reset")}
	ctx := context.Background()

	_, err := ListRotas(ctx, store, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list rotas")
}
