package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Station struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Route struct {
	ID            int64 `json:"id"`
	SourceID      int64 `json:"source"`
	DestinationID int64 `json:"destination"`
	DistanceKM    int   `json:"distance_km"`
}

// RouteDetail embeds the stations instead of referencing them by id.
type RouteDetail struct {
	ID          int64   `json:"id"`
	Source      Station `json:"source"`
	Destination Station `json:"destination"`
	DistanceKM  int     `json:"distance_km"`
}

type TrainType struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type Train struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	CargoNum      int     `json:"cargo_num"`
	PlacesInCargo int     `json:"places_in_cargo"`
	TrainTypeID   int64   `json:"train_type"`
	ImageURL      *string `json:"image,omitempty"`
}

// Capacity is the total number of places on the train. It is always
// derived from the layout, never stored.
func (t Train) Capacity() int {
	return t.CargoNum * t.PlacesInCargo
}

// Layout returns the physical layout used for seat validation.
func (t Train) Layout() TrainLayout {
	return TrainLayout{CargoNum: t.CargoNum, PlacesInCargo: t.PlacesInCargo}
}

// TrainSummary is the list representation of a train: the type is
// flattened to its name and capacity is precomputed.
type TrainSummary struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Image         *string `json:"image"`
	CargoNum      int     `json:"cargo_num"`
	PlacesInCargo int     `json:"places_in_cargo"`
	Capacity      int     `json:"capacity"`
	TrainType     string  `json:"train_type"`
}

type TrainDetail struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Image         *string   `json:"image"`
	CargoNum      int       `json:"cargo_num"`
	PlacesInCargo int       `json:"places_in_cargo"`
	Capacity      int       `json:"capacity"`
	TrainType     TrainType `json:"train_type"`
}

type Crew struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
}

// FullName is derived, never stored.
func (c Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Journey struct {
	ID            int64     `json:"id"`
	RouteID       int64     `json:"route"`
	TrainID       int64     `json:"train"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	CrewIDs       []int64   `json:"crew"`
}

// JourneySummary is the list representation of a journey. Route and
// train are flattened to display strings and available_places is the
// derived seat inventory at read time.
type JourneySummary struct {
	ID              int64     `json:"id"`
	Route           string    `json:"route"`
	Train           string    `json:"train"`
	TrainImage      *string   `json:"train_image"`
	AvailablePlaces int       `json:"available_places"`
	Crew            []string  `json:"crew"`
	DepartureTime   time.Time `json:"departure_time"`
	ArrivalTime     time.Time `json:"arrival_time"`
}

type JourneyDetail struct {
	ID            int64        `json:"id"`
	Route         RouteDetail  `json:"route"`
	Train         TrainSummary `json:"train"`
	DepartureTime time.Time    `json:"departure_time"`
	ArrivalTime   time.Time    `json:"arrival_time"`
	TakenPlaces   []string     `json:"taken_places"`
	Crew          []Crew       `json:"crew"`
}

// JourneyAvailability is the read-path projection over current
// tickets: capacity minus booked seats, recomputed on every query.
type JourneyAvailability struct {
	JourneyID       int64 `json:"journey_id"`
	Capacity        int   `json:"capacity"`
	Booked          int   `json:"booked"`
	AvailablePlaces int   `json:"available_places"`
}

type Order struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Ticket struct {
	ID        int64     `json:"id"`
	Cargo     int       `json:"cargo"`
	Place     int       `json:"place"`
	JourneyID int64     `json:"journey"`
	OrderID   uuid.UUID `json:"order"`
}

// Label renders a ticket the way journey details list taken places.
func (t Ticket) Label() string {
	return fmt.Sprintf("Cargo %d | Place %d", t.Cargo, t.Place)
}

type OrderWithTickets struct {
	Order   Order    `json:"order"`
	Tickets []Ticket `json:"tickets"`
}

// TicketRequest is one requested seat inside an order submission.
type TicketRequest struct {
	Cargo     int   `json:"cargo"`
	Place     int   `json:"place"`
	JourneyID int64 `json:"journey"`
}

type APIUsage struct {
	ID             int64     `json:"id"`
	Endpoint       string    `json:"endpoint"`
	Method         string    `json:"method"`
	Timestamp      time.Time `json:"timestamp"`
	ResponseStatus int       `json:"response_status"`
	UserIP         string    `json:"user_ip"`
}
