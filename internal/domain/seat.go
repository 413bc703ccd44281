package domain

import "fmt"

// TrainLayout is the physical layout of a train: how many cargo units
// it has and how many places each unit holds.
type TrainLayout struct {
	CargoNum      int
	PlacesInCargo int
}

// SeatRangeError reports a cargo or place number outside the train's
// physical layout. Field names the failing ticket attribute, Bound the
// train attribute that limits it.
type SeatRangeError struct {
	Field string
	Bound string
	Limit int
}

func (e *SeatRangeError) Error() string {
	return fmt.Sprintf(
		"%s number must be in available range: (1, %s): (1, %d)",
		e.Field, e.Bound, e.Limit,
	)
}

// ValidateSeat decides whether a (cargo, place) pair is physically
// addressable on a train with the given layout, independent of whether
// the seat is taken. Checks run in declared order and the first
// failing field is reported alone.
func ValidateSeat(cargo, place int, layout TrainLayout) error {
	checks := []struct {
		value int
		field string
		bound string
		limit int
	}{
		{cargo, "cargo", "cargo_num", layout.CargoNum},
		{place, "place", "places_in_cargo", layout.PlacesInCargo},
	}

	for _, c := range checks {
		if c.value < 1 || c.value > c.limit {
			return &SeatRangeError{Field: c.field, Bound: c.bound, Limit: c.limit}
		}
	}

	return nil
}
