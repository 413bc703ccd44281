package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkovalenko/railgo/internal/repository"
)

func TestPage(t *testing.T) {
	svc := New(nil, Config{DefaultPage: 20, MaxPage: 100})

	assert.Equal(t, 20, svc.page(0))
	assert.Equal(t, 20, svc.page(-5))
	assert.Equal(t, 50, svc.page(50))
	assert.Equal(t, 100, svc.page(10_000))
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"not found", repository.ErrNotFound, ErrNotFound},
		{"conflict", repository.ErrConflict, ErrNameTaken},
		{"invalid reference", repository.ErrInvalidReference, ErrBadReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate("catalog.Test", tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	// unknown errors pass through wrapped
	base := errors.New("connection reset")
	got := translate("catalog.Test", fmt.Errorf("wrap: %w", base))
	assert.ErrorIs(t, got, base)
	assert.NotErrorIs(t, got, ErrNotFound)
}
