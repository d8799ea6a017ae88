package postgres

import (
	"context"
	"errors"
	"fmt"
)

// HealthCheck implements ports.HealthChecker for PostgreSQL. The database
// only counts as healthy once cmd/migrate has applied at least one version.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

// Ping reads the latest applied schema version.
func (h *HealthCheck) Ping(ctx context.Context) error {
	var version string
	err := h.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), '') FROM schema_migrations`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version == "" {
		return errors.New("no migrations applied")
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
