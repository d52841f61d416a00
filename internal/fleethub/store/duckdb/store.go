// Package duckdb persists fleet state in an embedded DuckDB database file.
package duckdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	duckdb "github.com/marcboeker/go-duckdb/v2"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS vehicles (
	id            VARCHAR PRIMARY KEY,
	name          VARCHAR NOT NULL,
	license_plate VARCHAR NOT NULL UNIQUE,
	model         VARCHAR,
	status        VARCHAR NOT NULL,
	ignition      VARCHAR NOT NULL,
	current_speed DOUBLE NOT NULL,
	speed_limit   DOUBLE NOT NULL,
	heading       DOUBLE NOT NULL,
	latitude      DOUBLE NOT NULL,
	longitude     DOUBLE NOT NULL,
	accuracy      DOUBLE NOT NULL,
	battery_level DOUBLE,
	last_update   TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS geofences (
	id          VARCHAR PRIMARY KEY,
	name        VARCHAR NOT NULL,
	description VARCHAR,
	type        VARCHAR NOT NULL,
	active      BOOLEAN NOT NULL,
	geometry    VARCHAR NOT NULL,
	rules       VARCHAR NOT NULL,
	vehicle_ids VARCHAR NOT NULL,
	color       VARCHAR,
	last_triggered TIMESTAMP
);`

// Store implements the persistence ports on top of an embedded DuckDB file.
type Store struct {
	db        *sql.DB
	opTimeout time.Duration
}

// Options configures the DuckDB store.
type Options struct {
	// Path is the database file location. An empty path opens an
	// in-memory database.
	Path string

	// OpTimeout bounds each statement.
	OpTimeout time.Duration
}

// New opens (creating if needed) the database file and ensures the schema.
func New(opts Options) (*Store, error) {
	connector, err := duckdb.NewConnector(opts.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create duckdb connector: %w", err)
	}

	db := sql.OpenDB(connector)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	timeout := opts.OpTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{db: db, opTimeout: timeout}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Vehicle returns the vehicle repository port.
func (s *Store) Vehicle() core.VehicleRepository { return &vehicleRepo{s} }

// Geofence returns the geofence repository port.
func (s *Store) Geofence() core.GeofenceRepository { return &geofenceRepo{s} }

func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// classify maps driver errors onto the store error taxonomy at the adapter
// boundary, so no caller ever matches on error strings.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return core.NewStoreError(core.KindNotFound, op, nil)
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, io.EOF),
		isNetError(err):
		return core.NewStoreError(core.KindUnavailable, op, err)
	default:
		return core.NewStoreError(core.KindFault, op, err)
	}
}

func isNetError(err error) bool {
	var ne net.Error
	return errors.As(err, &ne)
}

type vehicleRepo struct{ s *Store }

const vehicleColumns = `id, name, license_plate, model, status, ignition,
	current_speed, speed_limit, heading, latitude, longitude, accuracy,
	battery_level, last_update`

func scanVehicle(row interface{ Scan(...any) error }) (*model.Vehicle, error) {
	var (
		v       model.Vehicle
		vmodel  sql.NullString
		battery sql.NullFloat64
	)
	err := row.Scan(&v.ID, &v.Name, &v.LicensePlate, &vmodel, &v.Status,
		&v.Ignition, &v.CurrentSpeed, &v.SpeedLimit, &v.Heading,
		&v.Latitude, &v.Longitude, &v.Accuracy, &battery, &v.LastUpdate)
	if err != nil {
		return nil, err
	}
	v.Model = vmodel.String
	if battery.Valid {
		v.BatteryLevel = &battery.Float64
	}
	return &v, nil
}

func (r *vehicleRepo) GetAll(ctx context.Context) ([]model.Vehicle, error) {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	rows, err := r.s.db.QueryContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY name`)
	if err != nil {
		return nil, classify("vehicle.get_all", err)
	}
	defer rows.Close()

	var out []model.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, classify("vehicle.get_all", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("vehicle.get_all", err)
	}
	return out, nil
}

func (r *vehicleRepo) Get(ctx context.Context, id string) (*model.Vehicle, error) {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	v, err := scanVehicle(r.s.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id))
	if err != nil {
		return nil, classify("vehicle.get", err)
	}
	return v, nil
}

func (r *vehicleRepo) GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	v, err := scanVehicle(r.s.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE license_plate = ?`, plate))
	if err != nil {
		return nil, classify("vehicle.get_by_plate", err)
	}
	return v, nil
}

func (r *vehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	_, err := r.s.db.ExecContext(ctx, `
		INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.LicensePlate, nullString(v.Model), string(v.Status),
		string(v.Ignition), v.CurrentSpeed, v.SpeedLimit, v.Heading,
		v.Latitude, v.Longitude, v.Accuracy, nullFloat(v.BatteryLevel),
		v.LastUpdate)
	if err != nil {
		return classify("vehicle.create", err)
	}
	return nil
}

func (r *vehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	res, err := r.s.db.ExecContext(ctx, `
		UPDATE vehicles SET name = ?, license_plate = ?, model = ?,
		       status = ?, ignition = ?, current_speed = ?, speed_limit = ?,
		       heading = ?, latitude = ?, longitude = ?, accuracy = ?,
		       battery_level = ?, last_update = ?
		WHERE id = ?`,
		v.Name, v.LicensePlate, nullString(v.Model), string(v.Status),
		string(v.Ignition), v.CurrentSpeed, v.SpeedLimit, v.Heading,
		v.Latitude, v.Longitude, v.Accuracy, nullFloat(v.BatteryLevel),
		v.LastUpdate, v.ID)
	if err != nil {
		return classify("vehicle.update", err)
	}
	return requireRow(res, "vehicle.update")
}

func (r *vehicleRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	res, err := r.s.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return classify("vehicle.delete", err)
	}
	return requireRow(res, "vehicle.delete")
}

// geometry is the JSON shape stored in the geofences.geometry column.
type geometry struct {
	Center *model.LatLng  `json:"center,omitempty"`
	Radius *float64       `json:"radius,omitempty"`
	Points []model.LatLng `json:"points,omitempty"`
}

type geofenceRepo struct{ s *Store }

const geofenceColumns = `id, name, description, type, active, geometry,
	rules, vehicle_ids, color, last_triggered`

func scanGeofence(row interface{ Scan(...any) error }) (*model.Geofence, error) {
	var (
		f            model.Geofence
		desc, color  sql.NullString
		geomJSON     string
		rulesJSON    string
		vehiclesJSON string
		triggered    sql.NullTime
	)
	err := row.Scan(&f.ID, &f.Name, &desc, &f.Type, &f.Active, &geomJSON,
		&rulesJSON, &vehiclesJSON, &color, &triggered)
	if err != nil {
		return nil, err
	}
	f.Description = desc.String
	f.Color = color.String
	if triggered.Valid {
		t := triggered.Time
		f.LastTriggered = &t
	}

	var geom geometry
	if err := json.Unmarshal([]byte(geomJSON), &geom); err != nil {
		return nil, fmt.Errorf("corrupt geometry for geofence %q: %w", f.ID, err)
	}
	f.Center, f.Radius, f.Points = geom.Center, geom.Radius, geom.Points

	if err := json.Unmarshal([]byte(rulesJSON), &f.Rules); err != nil {
		return nil, fmt.Errorf("corrupt rules for geofence %q: %w", f.ID, err)
	}
	if err := json.Unmarshal([]byte(vehiclesJSON), &f.VehicleIDs); err != nil {
		return nil, fmt.Errorf("corrupt vehicle list for geofence %q: %w", f.ID, err)
	}
	return &f, nil
}

func encodeGeofence(f *model.Geofence) (geomJSON, rulesJSON, vehiclesJSON string, err error) {
	g, err := json.Marshal(geometry{Center: f.Center, Radius: f.Radius, Points: f.Points})
	if err != nil {
		return "", "", "", err
	}
	rules := f.Rules
	if rules == nil {
		rules = []model.GeofenceRule{}
	}
	r, err := json.Marshal(rules)
	if err != nil {
		return "", "", "", err
	}
	ids := f.VehicleIDs
	if ids == nil {
		ids = []string{}
	}
	v, err := json.Marshal(ids)
	if err != nil {
		return "", "", "", err
	}
	return string(g), string(r), string(v), nil
}

func (r *geofenceRepo) GetAll(ctx context.Context) ([]model.Geofence, error) {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	rows, err := r.s.db.QueryContext(ctx, `SELECT `+geofenceColumns+` FROM geofences ORDER BY name`)
	if err != nil {
		return nil, classify("geofence.get_all", err)
	}
	defer rows.Close()

	var out []model.Geofence
	for rows.Next() {
		f, err := scanGeofence(rows)
		if err != nil {
			return nil, classify("geofence.get_all", err)
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("geofence.get_all", err)
	}
	return out, nil
}

func (r *geofenceRepo) Get(ctx context.Context, id string) (*model.Geofence, error) {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	f, err := scanGeofence(r.s.db.QueryRowContext(ctx,
		`SELECT `+geofenceColumns+` FROM geofences WHERE id = ?`, id))
	if err != nil {
		return nil, classify("geofence.get", err)
	}
	return f, nil
}

func (r *geofenceRepo) Create(ctx context.Context, f *model.Geofence) error {
	geom, rules, vehicles, err := encodeGeofence(f)
	if err != nil {
		return classify("geofence.create", err)
	}

	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	_, err = r.s.db.ExecContext(ctx, `
		INSERT INTO geofences (`+geofenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Name, nullString(f.Description), string(f.Type), f.Active,
		geom, rules, vehicles, nullString(f.Color), nullTime(f.LastTriggered))
	if err != nil {
		return classify("geofence.create", err)
	}
	return nil
}

func (r *geofenceRepo) Update(ctx context.Context, f *model.Geofence) error {
	geom, rules, vehicles, err := encodeGeofence(f)
	if err != nil {
		return classify("geofence.update", err)
	}

	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	res, err := r.s.db.ExecContext(ctx, `
		UPDATE geofences SET name = ?, description = ?, type = ?, active = ?,
		       geometry = ?, rules = ?, vehicle_ids = ?, color = ?,
		       last_triggered = ?
		WHERE id = ?`,
		f.Name, nullString(f.Description), string(f.Type), f.Active,
		geom, rules, vehicles, nullString(f.Color), nullTime(f.LastTriggered),
		f.ID)
	if err != nil {
		return classify("geofence.update", err)
	}
	return requireRow(res, "geofence.update")
}

func (r *geofenceRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	res, err := r.s.db.ExecContext(ctx, `DELETE FROM geofences WHERE id = ?`, id)
	if err != nil {
		return classify("geofence.delete", err)
	}
	return requireRow(res, "geofence.delete")
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return classify(op, err)
	}
	if n == 0 {
		return core.NewStoreError(core.KindNotFound, op, nil)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
