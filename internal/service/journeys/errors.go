package journeys

import "errors"

var (
	ErrJourneyNotFound = errors.New("journey not found")
	ErrBadReference    = errors.New("route, train or crew member does not exist")
)
