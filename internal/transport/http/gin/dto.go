package httpgin

import (
	"time"
)

type StationRequest struct {
	Name      string   `json:"name" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type RouteRequest struct {
	Source      int64 `json:"source" binding:"required"`
	Destination int64 `json:"destination" binding:"required"`
	DistanceKM  int   `json:"distance_km" binding:"required,gt=0"`
}

type TrainTypeRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type TrainRequest struct {
	Name          string `json:"name" binding:"required"`
	CargoNum      int    `json:"cargo_num" binding:"required,gt=0"`
	PlacesInCargo int    `json:"places_in_cargo" binding:"required,gt=0"`
	TrainType     int64  `json:"train_type" binding:"required"`
}

type TrainImageRequest struct {
	Image string `json:"image" binding:"required,url"`
}

type CrewRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Position  string `json:"position"`
}

type JourneyRequest struct {
	Route         int64   `json:"route" binding:"required"`
	Train         int64   `json:"train" binding:"required"`
	DepartureTime string  `json:"departure_time" binding:"required"`
	ArrivalTime   string  `json:"arrival_time" binding:"required"`
	Crew          []int64 `json:"crew"`
}

type TicketInput struct {
	Cargo   int   `json:"cargo"`
	Place   int   `json:"place"`
	Journey int64 `json:"journey" binding:"required"`
}

// CreateOrderRequest deliberately has no min=1 binding on tickets: an
// empty order is a domain validation failure, reported by the orders
// service, not a malformed request.
type CreateOrderRequest struct {
	Tickets []TicketInput `json:"tickets"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
