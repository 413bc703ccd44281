package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dkovalenko/railgo/internal/repository"
)

func TestTranslateDBErr(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, repository.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), repository.ErrNotFound},
		{
			"seat unique violation",
			&pgconn.PgError{Code: "23505", ConstraintName: "ticket_journey_cargo_place_key"},
			repository.ErrSeatTaken,
		},
		{
			"other unique violation",
			&pgconn.PgError{Code: "23505", ConstraintName: "station_name_key"},
			repository.ErrConflict,
		},
		{
			"foreign key violation",
			&pgconn.PgError{Code: "23503"},
			repository.ErrInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateDBErr(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	// unknown errors pass through untouched
	base := errors.New("network down")
	assert.Equal(t, base, translateDBErr(base))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsRetryable(&pgconn.PgError{Code: "40P01"}))
	assert.True(t, IsRetryable(fmt.Errorf("tx: %w", &pgconn.PgError{Code: "40001"})))

	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestWrapDBErr(t *testing.T) {
	assert.NoError(t, wrapDBErr("postgres.Test", nil))

	err := wrapDBErr("postgres.Test", pgx.ErrNoRows)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, err.Error(), "postgres.Test")
}
