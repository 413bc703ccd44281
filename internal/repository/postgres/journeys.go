package postgres

import (
	"context"

	"github.com/dkovalenko/railgo/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JourneyRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *JourneyRepo) With(db DB) *JourneyRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *JourneyRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a journey and its crew assignments.
//
// Returns:
//   - int64: the created journey ID.
//   - error: repository.ErrInvalidReference if the route, train or a
//     crew member does not exist.
func (r *JourneyRepo) Create(ctx context.Context, j domain.Journey) (int64, error) {
	const op = "postgres.JourneyRepo.Create"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO journey(route_id, train_id, departure_time, arrival_time)
       	 VALUES ($1, $2, $3, $4)
     	 RETURNING id`,
		j.RouteID, j.TrainID, j.DepartureTime, j.ArrivalTime,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	if len(j.CrewIDs) > 0 {
		batch := &pgx.Batch{}
		for _, crewID := range j.CrewIDs {
			batch.Queue(
				`INSERT INTO journey_crew(journey_id, crew_id) VALUES ($1, $2)`,
				id, crewID,
			)
		}
		if err := db.SendBatch(ctx, batch).Close(); err != nil {
			return 0, wrapDBErr(op, err)
		}
	}

	return id, nil
}

func (r *JourneyRepo) Get(ctx context.Context, id int64) (*domain.Journey, error) {
	const op = "postgres.JourneyRepo.Get"

	db := r.handle()

	var j domain.Journey
	err := db.QueryRow(ctx,
		`SELECT j.id, j.route_id, j.train_id, j.departure_time, j.arrival_time,
		        COALESCE(
		            (SELECT array_agg(jc.crew_id ORDER BY jc.crew_id)
		             FROM journey_crew jc WHERE jc.journey_id = j.id),
		            '{}')
       	 FROM journey j
       	 WHERE j.id = $1`,
		id,
	).Scan(&j.ID, &j.RouteID, &j.TrainID, &j.DepartureTime, &j.ArrivalTime, &j.CrewIDs)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &j, nil
}

// List returns the list representation ordered by departure time
// descending: flattened route and train names, crew full names and the
// derived available_places count. The count is recomputed from current
// tickets on every call, never stored.
func (r *JourneyRepo) List(ctx context.Context, limit, offset int) ([]domain.JourneySummary, error) {
	const op = "postgres.JourneyRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT j.id,
		        src.name || ' -> ' || dst.name,
		        t.name,
		        t.image_url,
		        t.cargo_num * t.places_in_cargo
		            - (SELECT COUNT(*) FROM ticket tk WHERE tk.journey_id = j.id),
		        COALESCE(
		            (SELECT array_agg(c.first_name || ' ' || c.last_name ORDER BY c.first_name)
		             FROM journey_crew jc
		             JOIN crew c ON c.id = jc.crew_id
		             WHERE jc.journey_id = j.id),
		            '{}'),
		        j.departure_time,
		        j.arrival_time
		 FROM journey j
		 JOIN route r ON r.id = j.route_id
		 JOIN station src ON src.id = r.source_id
		 JOIN station dst ON dst.id = r.destination_id
		 JOIN train t ON t.id = j.train_id
		 ORDER BY j.departure_time DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.JourneySummary
	for rows.Next() {
		var js domain.JourneySummary
		if err := rows.Scan(
			&js.ID,
			&js.Route,
			&js.Train,
			&js.TrainImage,
			&js.AvailablePlaces,
			&js.Crew,
			&js.DepartureTime,
			&js.ArrivalTime,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, js)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// GetDetail returns the retrieve representation: embedded route with
// stations, train summary, crew records and the taken places labels.
func (r *JourneyRepo) GetDetail(ctx context.Context, id int64) (*domain.JourneyDetail, error) {
	const op = "postgres.JourneyRepo.GetDetail"

	db := r.handle()

	var jd domain.JourneyDetail
	err := db.QueryRow(ctx,
		`SELECT j.id, j.departure_time, j.arrival_time,
		        r.id, r.distance_km,
		        src.id, src.name, src.latitude, src.longitude,
		        dst.id, dst.name, dst.latitude, dst.longitude,
		        t.id, t.name, t.image_url, t.cargo_num, t.places_in_cargo, tt.name
       	 FROM journey j
       	 JOIN route r ON r.id = j.route_id
       	 JOIN station src ON src.id = r.source_id
       	 JOIN station dst ON dst.id = r.destination_id
       	 JOIN train t ON t.id = j.train_id
       	 JOIN train_type tt ON tt.id = t.train_type_id
       	 WHERE j.id = $1`,
		id,
	).Scan(
		&jd.ID, &jd.DepartureTime, &jd.ArrivalTime,
		&jd.Route.ID, &jd.Route.DistanceKM,
		&jd.Route.Source.ID, &jd.Route.Source.Name, &jd.Route.Source.Latitude, &jd.Route.Source.Longitude,
		&jd.Route.Destination.ID, &jd.Route.Destination.Name, &jd.Route.Destination.Latitude, &jd.Route.Destination.Longitude,
		&jd.Train.ID, &jd.Train.Name, &jd.Train.Image, &jd.Train.CargoNum, &jd.Train.PlacesInCargo, &jd.Train.TrainType,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	jd.Train.Capacity = jd.Train.CargoNum * jd.Train.PlacesInCargo

	crewRows, err := db.Query(ctx,
		`SELECT c.id, c.first_name, c.last_name, c.position
		 FROM journey_crew jc
		 JOIN crew c ON c.id = jc.crew_id
		 WHERE jc.journey_id = $1
		 ORDER BY c.first_name`,
		id,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer crewRows.Close()

	for crewRows.Next() {
		var c domain.Crew
		if err := crewRows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Position); err != nil {
			return nil, wrapDBErr(op, err)
		}

		jd.Crew = append(jd.Crew, c)
	}
	if err := crewRows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	ticketRows, err := db.Query(ctx,
		`SELECT cargo, place FROM ticket
		 WHERE journey_id = $1
		 ORDER BY cargo, place`,
		id,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer ticketRows.Close()

	for ticketRows.Next() {
		var t domain.Ticket
		if err := ticketRows.Scan(&t.Cargo, &t.Place); err != nil {
			return nil, wrapDBErr(op, err)
		}

		jd.TakenPlaces = append(jd.TakenPlaces, t.Label())
	}
	if err := ticketRows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &jd, nil
}

func (r *JourneyRepo) Update(ctx context.Context, j domain.Journey) error {
	const op = "postgres.JourneyRepo.Update"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE journey
		 SET route_id = $2, train_id = $3, departure_time = $4, arrival_time = $5
		 WHERE id = $1`,
		j.ID, j.RouteID, j.TrainID, j.DepartureTime, j.ArrivalTime,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	if _, err := db.Exec(ctx,
		`DELETE FROM journey_crew WHERE journey_id = $1`, j.ID,
	); err != nil {
		return wrapDBErr(op, err)
	}

	if len(j.CrewIDs) > 0 {
		batch := &pgx.Batch{}
		for _, crewID := range j.CrewIDs {
			batch.Queue(
				`INSERT INTO journey_crew(journey_id, crew_id) VALUES ($1, $2)`,
				j.ID, crewID,
			)
		}
		if err := db.SendBatch(ctx, batch).Close(); err != nil {
			return wrapDBErr(op, err)
		}
	}

	return nil
}

func (r *JourneyRepo) Delete(ctx context.Context, id int64) error {
	const op = "postgres.JourneyRepo.Delete"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM journey WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}

// GetTrain resolves the train serving a journey, used by seat
// validation on the order path.
//
// Returns:
//   - *domain.Train: the train when the journey exists.
//   - error: repository.ErrNotFound if the journey is not found.
func (r *JourneyRepo) GetTrain(ctx context.Context, journeyID int64) (*domain.Train, error) {
	const op = "postgres.JourneyRepo.GetTrain"

	db := r.handle()

	var t domain.Train
	err := db.QueryRow(ctx,
		`SELECT t.id, t.name, t.cargo_num, t.places_in_cargo, t.train_type_id, t.image_url
       	 FROM journey j
       	 JOIN train t ON t.id = j.train_id
       	 WHERE j.id = $1`,
		journeyID,
	).Scan(&t.ID, &t.Name, &t.CargoNum, &t.PlacesInCargo, &t.TrainTypeID, &t.ImageURL)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &t, nil
}

// Availability computes capacity minus booked tickets for a journey.
//
// Returns:
//   - *domain.JourneyAvailability: the derived counts when the journey exists.
//   - error: repository.ErrNotFound if the journey is not found.
func (r *JourneyRepo) Availability(ctx context.Context, journeyID int64) (*domain.JourneyAvailability, error) {
	const op = "postgres.JourneyRepo.Availability"

	db := r.handle()

	var a domain.JourneyAvailability
	err := db.QueryRow(ctx,
		`SELECT j.id,
		        t.cargo_num * t.places_in_cargo,
		        (SELECT COUNT(*) FROM ticket tk WHERE tk.journey_id = j.id)
       	 FROM journey j
       	 JOIN train t ON t.id = j.train_id
       	 WHERE j.id = $1`,
		journeyID,
	).Scan(&a.JourneyID, &a.Capacity, &a.Booked)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	a.AvailablePlaces = a.Capacity - a.Booked

	return &a, nil
}
