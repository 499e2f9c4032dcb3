// Package store persists composite research records.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/jpdehyl/BSA-demo/internal/model"
)

// ErrNotFound is returned by Get for an unknown record id.
var ErrNotFound = eris.New("store: record not found")

// Filter specifies criteria for listing records.
type Filter struct {
	Company  string              `json:"company,omitempty"`
	Priority model.PriorityLevel `json:"priority,omitempty"`
	Limit    int                 `json:"limit,omitempty"`
	Offset   int                 `json:"offset,omitempty"`
}

const defaultLimit = 100

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return defaultLimit
	}
	return f.Limit
}

// Store defines the persistence interface for research records.
type Store interface {
	// Save inserts rec, or replaces the stored record with the same id.
	Save(ctx context.Context, rec *model.CompositeResearchRecord) error
	Get(ctx context.Context, id string) (*model.CompositeResearchRecord, error)
	// List returns records newest first.
	List(ctx context.Context, f Filter) ([]model.CompositeResearchRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the Store for driver. An empty sqlite dsn defaults to
// research.db in the working directory.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		if dsn == "" {
			dsn = "research.db"
		}
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unsupported driver %q", driver)
	}
}

// row is the column projection shared by both backends.
type row struct {
	id        string
	contact   string
	company   string
	fitScore  int
	priority  string
	record    []byte
	createdAt time.Time
}

func toRow(rec *model.CompositeResearchRecord) (row, error) {
	if rec == nil || rec.ID == "" {
		return row{}, eris.New("store: record id is required")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return row{}, eris.Wrap(err, "store: marshal record")
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return row{
		id:        rec.ID,
		contact:   rec.Subject.ContactName,
		company:   rec.Subject.CompanyName,
		fitScore:  rec.Score.Final,
		priority:  string(rec.Score.Priority),
		record:    data,
		createdAt: created.UTC(),
	}, nil
}

func decodeRecord(data []byte) (*model.CompositeResearchRecord, error) {
	var rec model.CompositeResearchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal record")
	}
	return &rec, nil
}
