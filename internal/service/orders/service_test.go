package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalenko/railgo/internal/domain"
)

func TestCreateOrder_EmptyOrder(t *testing.T) {
	svc := New(nil, nil, nil, nil, Config{})

	_, err := svc.CreateOrder(context.Background(), 1, nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.CreateOrder(context.Background(), 1, []domain.TicketRequest{}, "")
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCreateOrder_DuplicateSeatInRequest(t *testing.T) {
	svc := New(nil, nil, nil, nil, Config{})

	_, err := svc.CreateOrder(context.Background(), 1, []domain.TicketRequest{
		{JourneyID: 7, Cargo: 2, Place: 14},
		{JourneyID: 7, Cargo: 3, Place: 14},
		{JourneyID: 7, Cargo: 2, Place: 14},
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSeatTaken)

	var taken *SeatTakenError
	require.True(t, errors.As(err, &taken))
	assert.Equal(t, int64(7), taken.JourneyID)
	assert.Equal(t, 2, taken.Cargo)
	assert.Equal(t, 14, taken.Place)
}

// Same (cargo, place) on different journeys is not a collision.
func TestFindDuplicate(t *testing.T) {
	_, ok := findDuplicate([]domain.TicketRequest{
		{JourneyID: 1, Cargo: 1, Place: 1},
		{JourneyID: 2, Cargo: 1, Place: 1},
		{JourneyID: 1, Cargo: 1, Place: 2},
	})
	assert.False(t, ok)

	dup, ok := findDuplicate([]domain.TicketRequest{
		{JourneyID: 1, Cargo: 1, Place: 1},
		{JourneyID: 1, Cargo: 1, Place: 1},
	})
	require.True(t, ok)
	assert.Equal(t, domain.TicketRequest{JourneyID: 1, Cargo: 1, Place: 1}, dup)
}

func TestLocateSeatConflict(t *testing.T) {
	requests := []domain.TicketRequest{
		{JourneyID: 1, Cargo: 1, Place: 1},
		{JourneyID: 2, Cargo: 4, Place: 8},
		{JourneyID: 3, Cargo: 2, Place: 2},
	}

	t.Run("names the booked seat", func(t *testing.T) {
		err := locateSeatConflict(context.Background(), requests,
			func(_ context.Context, journeyID int64, cargo, place int) (bool, error) {
				return journeyID == 2 && cargo == 4 && place == 8, nil
			})

		var taken *SeatTakenError
		require.True(t, errors.As(err, &taken))
		assert.Equal(t, int64(2), taken.JourneyID)
		assert.Equal(t, 4, taken.Cargo)
		assert.Equal(t, 8, taken.Place)
	})

	t.Run("falls back to the sentinel when nothing is found", func(t *testing.T) {
		err := locateSeatConflict(context.Background(), requests,
			func(context.Context, int64, int, int) (bool, error) {
				return false, nil
			})

		assert.Equal(t, ErrSeatTaken, err)
	})

	t.Run("falls back to the sentinel on checker failure", func(t *testing.T) {
		err := locateSeatConflict(context.Background(), requests,
			func(context.Context, int64, int, int) (bool, error) {
				return false, errors.New("connection reset")
			})

		assert.Equal(t, ErrSeatTaken, err)
	})
}

func TestErrRateLimitedWrapping(t *testing.T) {
	err := fmt.Errorf("service.orders.CreateOrder:%w, retry in 30s", ErrRateLimited)

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.NotErrorIs(t, err, ErrSeatTaken)
}

func TestSeatTakenError(t *testing.T) {
	err := &SeatTakenError{JourneyID: 5, Cargo: 1, Place: 9}

	assert.Equal(t, "seat already taken: journey 5, cargo 1, place 9", err.Error())
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.NotErrorIs(t, err, ErrEmptyOrder)
}

func TestConfigDefaults(t *testing.T) {
	svc := New(nil, nil, nil, nil, Config{})
	assert.Equal(t, 20, svc.cfg.DefaultPage)
	assert.Equal(t, 100, svc.cfg.MaxPage)

	svc = New(nil, nil, nil, nil, Config{DefaultPage: 5, MaxPage: 50})
	assert.Equal(t, 5, svc.cfg.DefaultPage)
	assert.Equal(t, 50, svc.cfg.MaxPage)
}
