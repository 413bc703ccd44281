package orders

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOrder      = errors.New("order must contain at least one ticket")
	ErrJourneyNotFound = errors.New("journey not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrSeatTaken       = errors.New("seat already taken")
	ErrRateLimited     = errors.New("rate limited")
)

// SeatTakenError identifies the exact seat that collided. It matches
// ErrSeatTaken under errors.Is.
type SeatTakenError struct {
	JourneyID int64
	Cargo     int
	Place     int
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf(
		"seat already taken: journey %d, cargo %d, place %d",
		e.JourneyID, e.Cargo, e.Place,
	)
}

func (e *SeatTakenError) Is(target error) bool {
	return target == ErrSeatTaken
}
