package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
)

// SlotTargets sets the staffing target for one daily time slot.
type SlotTargets struct {
	Total   int `yaml:"total" validate:"min=0"`
	Leaders int `yaml:"leaders,omitempty" validate:"min=0"`
	Drivers int `yaml:"drivers,omitempty" validate:"min=0"`
}

// RequirementOverride adjusts the staffing target for one time slot on
// the dates matched by a recurrence rule, applied when a rota week is
// generated. Unset counts keep their defaults.
type RequirementOverride struct {
	RRule   string `yaml:"rrule" validate:"required"`
	Slot    string `yaml:"slot" validate:"required"`
	Total   *int   `yaml:"total,omitempty" validate:"omitempty,min=0"`
	Leaders *int   `yaml:"leaders,omitempty" validate:"omitempty,min=0"`
	Drivers *int   `yaml:"drivers,omitempty" validate:"omitempty,min=0"`
}

// StaffingDefaults holds the house staffing rules applied to generated
// rotas. Nil fields fall back to the built-in house pattern.
type StaffingDefaults struct {
	MinStaffPerShift   *int         `yaml:"minStaffPerShift,omitempty" validate:"omitempty,min=0"`
	MaxConsecutiveDays *int         `yaml:"maxConsecutiveDays,omitempty" validate:"omitempty,min=1"`
	MinRestHours       *int         `yaml:"minRestHours,omitempty" validate:"omitempty,min=0"`
	Morning            *SlotTargets `yaml:"morning,omitempty"`
	Afternoon          *SlotTargets `yaml:"afternoon,omitempty"`
	Night              *SlotTargets `yaml:"night,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL          string                `yaml:"databaseURL" validate:"required"`
	ListenAddr           string                `yaml:"listenAddr,omitempty"`
	JWTSecret            string                `yaml:"jwtSecret,omitempty"`
	Staffing             StaffingDefaults      `yaml:"staffing,omitempty"`
	RequirementOverrides []RequirementOverride `yaml:"requirementOverrides,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from staff_rota.yaml.
// It looks for the config file in the current directory first, then in
// the user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific
// path. Environment variables override file values for the database URL
// and secrets, so deployments can keep those out of the file.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the slot targets and the
// rrule syntax of every requirement override.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	slots := map[string]*SlotTargets{
		"morning":   cfg.Staffing.Morning,
		"afternoon": cfg.Staffing.Afternoon,
		"night":     cfg.Staffing.Night,
	}
	for name, targets := range slots {
		if targets == nil {
			continue
		}
		if targets.Leaders+targets.Drivers > targets.Total {
			return fmt.Errorf("invalid staffing.%s: role counts (%d) exceed total (%d)",
				name, targets.Leaders+targets.Drivers, targets.Total)
		}
	}

	for i, override := range cfg.RequirementOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in requirementOverrides[%d]: %w", i, err)
		}
		if _, err := model.ParseTimeSlot(override.Slot); err != nil {
			return fmt.Errorf("invalid slot in requirementOverrides[%d]: %w", i, err)
		}
	}

	return nil
}

// applyEnvOverrides replaces file values with environment variables when
// set. The mains load .env first via godotenv.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
}

// findConfigFile searches for staff_rota.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "staff_rota.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}

// WeeklyRequirements resolves the configured slot targets into the
// engine's weekly requirements, falling back to the house pattern for
// any slot left unset.
func (c *Config) WeeklyRequirements() roster.WeeklyShiftRequirements {
	requirements := roster.DefaultWeeklyRequirements()
	if s := c.Staffing.Morning; s != nil {
		requirements.Morning = roster.SlotRequirement{Total: s.Total, ShiftLeader: s.Leaders, Driver: s.Drivers}
	}
	if s := c.Staffing.Afternoon; s != nil {
		requirements.Afternoon = roster.SlotRequirement{Total: s.Total, ShiftLeader: s.Leaders, Driver: s.Drivers}
	}
	if s := c.Staffing.Night; s != nil {
		requirements.Night = roster.SlotRequirement{Total: s.Total, ShiftLeader: s.Leaders, Driver: s.Drivers}
	}
	return requirements
}

// RotaConfig resolves the configured staffing rules into the engine's
// rota config, falling back to the house rules for unset values.
func (c *Config) RotaConfig() roster.RotaConfig {
	rotaConfig := roster.DefaultRotaConfig()
	rotaConfig.Requirements = c.WeeklyRequirements()
	if v := c.Staffing.MinStaffPerShift; v != nil {
		rotaConfig.MinStaffPerShift = *v
	}
	if v := c.Staffing.MaxConsecutiveDays; v != nil {
		rotaConfig.MaxConsecutiveDays = *v
	}
	if v := c.Staffing.MinRestHours; v != nil {
		rotaConfig.MinRestPeriodHours = *v
	}
	return rotaConfig
}
