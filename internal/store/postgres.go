// Package store persists generated shield layers to Postgres. It is an
// optional sink: the pipeline runs entirely in memory and file outputs do
// not depend on it.
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/tilecraft/shieldgen/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS shield_points (
	id          BIGSERIAL PRIMARY KEY,
	run_id      TEXT NOT NULL,
	layer       TEXT NOT NULL,
	zoom        INTEGER NOT NULL,
	label       TEXT NOT NULL,
	shield_type TEXT NOT NULL,
	region      TEXT NOT NULL,
	processed   TEXT NOT NULL,
	x           DOUBLE PRECISION NOT NULL,
	y           DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS shield_points_layer_idx ON shield_points (layer, label);
`

type pointRow struct {
	RunID      string  `db:"run_id"`
	Layer      string  `db:"layer"`
	Zoom       int     `db:"zoom"`
	Label      string  `db:"label"`
	ShieldType string  `db:"shield_type"`
	Region     string  `db:"region"`
	Processed  string  `db:"processed"`
	X          float64 `db:"x"`
	Y          float64 `db:"y"`
}

// PointRepository writes point layers into the shield_points table.
type PointRepository struct {
	db *sqlx.DB
}

// NewPointRepository connects and bootstraps the schema.
func NewPointRepository(dsn string) (*PointRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap shield_points schema: %w", err)
	}
	return &PointRepository{db: db}, nil
}

// SaveLayer replaces the named layer's rows with the given point set, in one
// transaction so readers never observe a half-written layer.
func (r *PointRepository) SaveLayer(ctx context.Context, runID, layer string, zoom int, points model.PointSet) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save of layer %q: %w", layer, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shield_points WHERE layer = $1`, layer); err != nil {
		return fmt.Errorf("clear layer %q: %w", layer, err)
	}

	const insert = `
		INSERT INTO shield_points (run_id, layer, zoom, label, shield_type, region, processed, x, y)
		VALUES (:run_id, :layer, :zoom, :label, :shield_type, :region, :processed, :x, :y)`
	for _, p := range points {
		row := pointRow{
			RunID:      runID,
			Layer:      layer,
			Zoom:       zoom,
			Label:      p.Label,
			ShieldType: p.ShieldType,
			Region:     string(p.Region),
			Processed:  p.Processed,
			X:          p.Coord[0],
			Y:          p.Coord[1],
		}
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("insert into layer %q: %w", layer, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit layer %q: %w", layer, err)
	}
	return nil
}

// CountByLayer returns the number of stored points in a layer.
func (r *PointRepository) CountByLayer(ctx context.Context, layer string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM shield_points WHERE layer = $1`, layer)
	if err != nil {
		return 0, fmt.Errorf("count layer %q: %w", layer, err)
	}
	return count, nil
}

// Close releases the underlying connection pool.
func (r *PointRepository) Close() error {
	return r.db.Close()
}
