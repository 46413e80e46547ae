package db

import (
	"context"
	"errors"
	"time"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrVersionConflict is returned by ReplaceRota when the stored rota has
// moved past the version the caller loaded. The caller reloads and
// retries.
var ErrVersionConflict = errors.New("rota version conflict")

// StaffStore defines the interface for staff directory reads. The
// directory is mirrored from the HR systems; this service never writes
// it.
type StaffStore interface {
	ListStaff(ctx context.Context) ([]model.StaffMember, error)
	GetStaff(ctx context.Context, id string) (model.StaffMember, error)
}

// RotaStore defines the interface for rota persistence. Rotas load and
// save as whole aggregates; ReplaceRota enforces optimistic concurrency
// on the version the caller loaded.
type RotaStore interface {
	InsertRota(ctx context.Context, rota *roster.Rota) error
	GetRota(ctx context.Context, id string) (*roster.Rota, error)
	GetLatestRota(ctx context.Context) (*roster.Rota, error)
	GetDraftRotaForWeek(ctx context.Context, weekStart time.Time) (*roster.Rota, error)
	ListRotas(ctx context.Context) ([]RotaRecord, error)
	ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error
}

// AdminStore defines the interface for admin user records.
type AdminStore interface {
	GetAdminByUsername(ctx context.Context, username string) (*AdminUser, error)
	CountAdmins(ctx context.Context) (int, error)
	InsertAdmin(ctx context.Context, admin *AdminUser) error
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	StaffStore
	RotaStore
	AdminStore
}
