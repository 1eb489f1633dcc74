package eventlog

import (
	"time"

	"github.com/pkg/errors"

	"github.com/Norgate-AV/wintrack/internal/winevent"
)

// Repository handles all database operations for event records
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts records in one transaction
func (r *Repository) Create(records ...*Record) error {
	if len(records) == 0 {
		return nil
	}

	if result := r.db.Create(records); result.Error != nil {
		return errors.Wrapf(result.Error, "failed to insert %d event records", len(records))
	}

	return nil
}

// Recent returns up to limit records, newest first. An empty kind matches all kinds.
func (r *Repository) Recent(limit int, kind winevent.Kind) ([]*Record, error) {
	var records []*Record

	q := r.db.Order("timestamp DESC").Order("id DESC")
	if kind != "" {
		q = q.Where("type = ?", kind)
	}

	if limit > 0 {
		q = q.Limit(limit)
	}

	if result := q.Find(&records); result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query event records")
	}

	return records, nil
}

// CountByType returns the number of records per kind since the given time
func (r *Repository) CountByType(since time.Time) ([]KindCount, error) {
	var counts []KindCount

	result := r.db.Model(&Record{}).
		Select("type, COUNT(*) as count").
		Where("timestamp >= ?", since).
		Group("type").
		Order("count DESC").
		Scan(&counts)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to count event records")
	}

	return counts, nil
}
