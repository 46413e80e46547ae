package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/internal/config"
	"github.com/oakhollow/staff-rota/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Logger   *zap.Logger
	Ctx      context.Context
}
