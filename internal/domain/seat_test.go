package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeat(t *testing.T) {
	layout := TrainLayout{CargoNum: 10, PlacesInCargo: 50}

	tests := []struct {
		name    string
		cargo   int
		place   int
		wantErr string
	}{
		{name: "valid middle", cargo: 5, place: 25},
		{name: "valid lower bound", cargo: 1, place: 1},
		{name: "valid upper bound", cargo: 10, place: 50},
		{
			name:    "cargo zero",
			cargo:   0,
			place:   1,
			wantErr: "cargo number must be in available range: (1, cargo_num): (1, 10)",
		},
		{
			name:    "cargo above limit",
			cargo:   11,
			place:   1,
			wantErr: "cargo number must be in available range: (1, cargo_num): (1, 10)",
		},
		{
			name:    "place zero",
			cargo:   1,
			place:   0,
			wantErr: "place number must be in available range: (1, places_in_cargo): (1, 50)",
		},
		{
			name:    "place above limit",
			cargo:   1,
			place:   51,
			wantErr: "place number must be in available range: (1, places_in_cargo): (1, 50)",
		},
		{
			name:    "negative cargo",
			cargo:   -1,
			place:   1,
			wantErr: "cargo number must be in available range: (1, cargo_num): (1, 10)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeat(tt.cargo, tt.place, layout)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

// Both coordinates out of range: cargo is checked first, only its
// failure is reported.
func TestValidateSeat_CargoReportedFirst(t *testing.T) {
	layout := TrainLayout{CargoNum: 3, PlacesInCargo: 4}

	err := ValidateSeat(99, 99, layout)
	require.Error(t, err)

	var sre *SeatRangeError
	require.True(t, errors.As(err, &sre))
	assert.Equal(t, "cargo", sre.Field)
	assert.Equal(t, "cargo_num", sre.Bound)
	assert.Equal(t, 3, sre.Limit)
}

func TestValidateSeat_DegenerateLayout(t *testing.T) {
	layout := TrainLayout{CargoNum: 1, PlacesInCargo: 1}

	assert.NoError(t, ValidateSeat(1, 1, layout))
	assert.Error(t, ValidateSeat(2, 1, layout))
	assert.Error(t, ValidateSeat(1, 2, layout))
}

func TestTrainCapacity(t *testing.T) {
	tr := Train{CargoNum: 10, PlacesInCargo: 50}
	assert.Equal(t, 500, tr.Capacity())

	layout := tr.Layout()
	assert.Equal(t, 10, layout.CargoNum)
	assert.Equal(t, 50, layout.PlacesInCargo)
}

func TestTicketLabel(t *testing.T) {
	tk := Ticket{Cargo: 3, Place: 12}
	assert.Equal(t, "Cargo 3 | Place 12", tk.Label())
}

func TestCrewFullName(t *testing.T) {
	c := Crew{FirstName: "Anna", LastName: "Kovalenko"}
	assert.Equal(t, "Anna Kovalenko", c.FullName())
}
