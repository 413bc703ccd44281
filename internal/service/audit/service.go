// Package audit records one row per API call and serves the
// admin-facing usage log. Recording is a pure side effect of the HTTP
// layer and never influences request handling.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/dkovalenko/railgo/internal/domain"
	postgresrepo "github.com/dkovalenko/railgo/internal/repository/postgres"
)

type Config struct {
	DefaultPage int
	MaxPage     int
}

type Service struct {
	store *postgresrepo.Store
	cfg   Config
}

func New(store *postgresrepo.Store, cfg Config) *Service {
	if cfg.DefaultPage <= 0 {
		cfg.DefaultPage = 50
	}

	if cfg.MaxPage <= 0 || cfg.MaxPage < cfg.DefaultPage {
		cfg.MaxPage = 500
	}

	return &Service{store: store, cfg: cfg}
}

// Record appends one usage row.
func (s *Service) Record(ctx context.Context, u domain.APIUsage) error {
	const op = "service.audit.Record"

	if err := s.store.Audit().Insert(ctx, u); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// List returns usage records newest first, optionally filtered by
// method and status substrings.
func (s *Service) List(ctx context.Context, method, status string, limit, offset int) ([]domain.APIUsage, error) {
	const op = "service.audit.List"

	if limit <= 0 {
		limit = s.cfg.DefaultPage
	}

	if limit > s.cfg.MaxPage {
		limit = s.cfg.MaxPage
	}

	out, err := s.store.Audit().List(ctx, method, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// Prune deletes usage rows older than the retention horizon and
// returns how many were removed.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	const op = "service.audit.Prune"

	n, err := s.store.Audit().DeleteOlderThan(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, err)
	}

	return n, nil
}
