package postgres

import (
	"context"

	"github.com/dkovalenko/railgo/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// --- stations ---

func (r *CatalogRepo) CreateStation(ctx context.Context, s domain.Station) (int64, error) {
	const op = "postgres.CatalogRepo.CreateStation"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO station(name, latitude, longitude)
       	 VALUES ($1, $2, $3)
     	 RETURNING id`,
		s.Name, s.Latitude, s.Longitude,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *CatalogRepo) GetStation(ctx context.Context, id int64) (*domain.Station, error) {
	const op = "postgres.CatalogRepo.GetStation"

	db := r.handle()

	var s domain.Station
	err := db.QueryRow(ctx,
		`SELECT id, name, latitude, longitude
       	 FROM station WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &s, nil
}

// ListStations lists stations ordered by name. A non-empty name filter
// matches as a case-insensitive substring.
func (r *CatalogRepo) ListStations(ctx context.Context, name string, limit, offset int) ([]domain.Station, error) {
	const op = "postgres.CatalogRepo.ListStations"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, latitude, longitude
		 FROM station
		 WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		 ORDER BY name
		 LIMIT $2 OFFSET $3`,
		name, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Station
	for rows.Next() {
		var s domain.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) UpdateStation(ctx context.Context, s domain.Station) error {
	const op = "postgres.CatalogRepo.UpdateStation"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE station SET name = $2, latitude = $3, longitude = $4
		 WHERE id = $1`,
		s.ID, s.Name, s.Latitude, s.Longitude,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}

func (r *CatalogRepo) DeleteStation(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteStation"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM station WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}

// --- routes ---

func (r *CatalogRepo) CreateRoute(ctx context.Context, rt domain.Route) (int64, error) {
	const op = "postgres.CatalogRepo.CreateRoute"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO route(source_id, destination_id, distance_km)
       	 VALUES ($1, $2, $3)
     	 RETURNING id`,
		rt.SourceID, rt.DestinationID, rt.DistanceKM,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// GetRoute returns the detail representation with both stations embedded.
func (r *CatalogRepo) GetRoute(ctx context.Context, id int64) (*domain.RouteDetail, error) {
	const op = "postgres.CatalogRepo.GetRoute"

	db := r.handle()

	var rd domain.RouteDetail
	err := db.QueryRow(ctx,
		`SELECT r.id, r.distance_km,
		        src.id, src.name, src.latitude, src.longitude,
		        dst.id, dst.name, dst.latitude, dst.longitude
       	 FROM route r
       	 JOIN station src ON src.id = r.source_id
       	 JOIN station dst ON dst.id = r.destination_id
       	 WHERE r.id = $1`,
		id,
	).Scan(
		&rd.ID, &rd.DistanceKM,
		&rd.Source.ID, &rd.Source.Name, &rd.Source.Latitude, &rd.Source.Longitude,
		&rd.Destination.ID, &rd.Destination.Name, &rd.Destination.Latitude, &rd.Destination.Longitude,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &rd, nil
}

// ListRoutes lists routes ordered by distance. Zero source/destination
// ids mean "any station".
func (r *CatalogRepo) ListRoutes(ctx context.Context, sourceID, destinationID int64, limit, offset int) ([]domain.Route, error) {
	const op = "postgres.CatalogRepo.ListRoutes"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, source_id, destination_id, distance_km
		 FROM route
		 WHERE ($1 = 0 OR source_id = $1)
		   AND ($2 = 0 OR destination_id = $2)
		 ORDER BY distance_km
		 LIMIT $3 OFFSET $4`,
		sourceID, destinationID, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Route
	for rows.Next() {
		var rt domain.Route
		if err := rows.Scan(&rt.ID, &rt.SourceID, &rt.DestinationID, &rt.DistanceKM); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) UpdateRoute(ctx context.Context, rt domain.Route) error {
	const op = "postgres.CatalogRepo.UpdateRoute"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE route SET source_id = $2, destination_id = $3, distance_km = $4
		 WHERE id = $1`,
		rt.ID, rt.SourceID, rt.DestinationID, rt.DistanceKM,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}

func (r *CatalogRepo) DeleteRoute(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteRoute"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM route WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}

// --- train types ---

func (r *CatalogRepo) CreateTrainType(ctx context.Context, tt domain.TrainType) (int64, error) {
	const op = "postgres.CatalogRepo.CreateTrainType"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO train_type(name, description)
       	 VALUES ($1, $2)
     	 RETURNING id`,
		tt.Name, tt.Description,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *CatalogRepo) GetTrainType(ctx context.Context, id int64) (*domain.TrainType, error) {
	const op = "postgres.CatalogRepo.GetTrainType"

	db := r.handle()

	var tt domain.TrainType
	err := db.QueryRow(ctx,
		`SELECT id, name, description FROM train_type WHERE id = $1`,
		id,
	).Scan(&tt.ID, &tt.Name, &tt.Description)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &tt, nil
}

func (r *CatalogRepo) ListTrainTypes(ctx context.Context, name string, limit, offset int) ([]domain.TrainType, error) {
	const op = "postgres.CatalogRepo.ListTrainTypes"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, description
		 FROM train_type
		 WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		 ORDER BY name
		 LIMIT $2 OFFSET $3`,
		name, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.TrainType
	for rows.Next() {
		var tt domain.TrainType
		if err := rows.Scan(&tt.ID, &tt.Name, &tt.Description); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, tt)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) UpdateTrainType(ctx context.Context, tt domain.TrainType) error {
	const op = "postgres.CatalogRepo.UpdateTrainType"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE train_type SET name = $2, description = $3 WHERE id = $1`,
		tt.ID, tt.Name, tt.Description,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}

func (r *CatalogRepo) DeleteTrainType(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteTrainType"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM train_type WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}

// --- trains ---

func (r *CatalogRepo) CreateTrain(ctx context.Context, t domain.Train) (int64, error) {
	const op = "postgres.CatalogRepo.CreateTrain"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO train(name, cargo_num, places_in_cargo, train_type_id, image_url)
       	 VALUES ($1, $2, $3, $4, $5)
     	 RETURNING id`,
		t.Name, t.CargoNum, t.PlacesInCargo, t.TrainTypeID, t.ImageURL,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *CatalogRepo) GetTrain(ctx context.Context, id int64) (*domain.TrainDetail, error) {
	const op = "postgres.CatalogRepo.GetTrain"

	db := r.handle()

	var td domain.TrainDetail
	err := db.QueryRow(ctx,
		`SELECT t.id, t.name, t.image_url, t.cargo_num, t.places_in_cargo,
		        tt.id, tt.name, tt.description
       	 FROM train t
       	 JOIN train_type tt ON tt.id = t.train_type_id
       	 WHERE t.id = $1`,
		id,
	).Scan(
		&td.ID, &td.Name, &td.Image, &td.CargoNum, &td.PlacesInCargo,
		&td.TrainType.ID, &td.TrainType.Name, &td.TrainType.Description,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	td.Capacity = td.CargoNum * td.PlacesInCargo

	return &td, nil
}

// ListTrains lists trains ordered by cargo count, optionally narrowed
// to a set of train type ids and a name substring.
func (r *CatalogRepo) ListTrains(ctx context.Context, typeIDs []int64, name string, limit, offset int) ([]domain.TrainSummary, error) {
	const op = "postgres.CatalogRepo.ListTrains"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT t.id, t.name, t.image_url, t.cargo_num, t.places_in_cargo, tt.name
		 FROM train t
		 JOIN train_type tt ON tt.id = t.train_type_id
		 WHERE (cardinality($1::bigint[]) = 0 OR t.train_type_id = ANY($1))
		   AND ($2 = '' OR t.name ILIKE '%' || $2 || '%')
		 ORDER BY t.cargo_num
		 LIMIT $3 OFFSET $4`,
		typeIDs, name, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.TrainSummary
	for rows.Next() {
		var ts domain.TrainSummary
		if err := rows.Scan(&ts.ID, &ts.Name, &ts.Image, &ts.CargoNum, &ts.PlacesInCargo, &ts.TrainType); err != nil {
			return nil, wrapDBErr(op, err)
		}

		ts.Capacity = ts.CargoNum * ts.PlacesInCargo
		out = append(out, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) UpdateTrain(ctx context.Context, t domain.Train) error {
	const op = "postgres.CatalogRepo.UpdateTrain"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE train
		 SET name = $2, cargo_num = $3, places_in_cargo = $4, train_type_id = $5
		 WHERE id = $1`,
		t.ID, t.Name, t.CargoNum, t.PlacesInCargo, t.TrainTypeID,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}

// SetTrainImage stores the reference to an uploaded train photo. The
// binary asset itself lives in external storage.
func (r *CatalogRepo) SetTrainImage(ctx context.Context, id int64, imageURL string) error {
	const op = "postgres.CatalogRepo.SetTrainImage"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE train SET image_url = $2 WHERE id = $1`,
		id, imageURL,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}

func (r *CatalogRepo) DeleteTrain(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteTrain"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM train WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}

// --- crew ---

func (r *CatalogRepo) CreateCrew(ctx context.Context, c domain.Crew) (int64, error) {
	const op = "postgres.CatalogRepo.CreateCrew"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO crew(first_name, last_name, position)
       	 VALUES ($1, $2, $3)
     	 RETURNING id`,
		c.FirstName, c.LastName, c.Position,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *CatalogRepo) GetCrew(ctx context.Context, id int64) (*domain.Crew, error) {
	const op = "postgres.CatalogRepo.GetCrew"

	db := r.handle()

	var c domain.Crew
	err := db.QueryRow(ctx,
		`SELECT id, first_name, last_name, position FROM crew WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Position)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &c, nil
}

// ListCrew lists crew members ordered by first name. The name filter
// matches either name as a case-insensitive substring.
func (r *CatalogRepo) ListCrew(ctx context.Context, name string, limit, offset int) ([]domain.Crew, error) {
	const op = "postgres.CatalogRepo.ListCrew"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, first_name, last_name, position
		 FROM crew
		 WHERE $1 = ''
		    OR first_name ILIKE '%' || $1 || '%'
		    OR last_name ILIKE '%' || $1 || '%'
		 ORDER BY first_name
		 LIMIT $2 OFFSET $3`,
		name, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Crew
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Position); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) UpdateCrew(ctx context.Context, c domain.Crew) error {
	const op = "postgres.CatalogRepo.UpdateCrew"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE crew SET first_name = $2, last_name = $3, position = $4
		 WHERE id = $1`,
		c.ID, c.FirstName, c.LastName, c.Position,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}

func (r *CatalogRepo) DeleteCrew(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteCrew"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM crew WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}
