package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/hoanghai1803/mealcraft/internal/models"
)

// preferenceRow stores list fields as JSON text so the same schema works on
// SQLite and PostgreSQL. An empty meal_times means the field was not sent.
type preferenceRow struct {
	bun.BaseModel `bun:"table:preference_sets,alias:p"`

	ID           string    `bun:"id,pk"`
	Dietary      string    `bun:"dietary,notnull"`
	Equipment    string    `bun:"equipment,notnull"`
	Budget       float64   `bun:"budget,notnull"`
	CookingHours float64   `bun:"cooking_hours,notnull"`
	MealTimes    string    `bun:"meal_times,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

func (r *preferenceRow) toModel() (*models.PreferenceSet, error) {
	p := &models.PreferenceSet{
		ID:           r.ID,
		Budget:       r.Budget,
		CookingHours: r.CookingHours,
		CreatedAt:    r.CreatedAt,
	}
	if err := json.Unmarshal([]byte(r.Dietary), &p.Dietary); err != nil {
		return nil, fmt.Errorf("decoding dietary: %w", err)
	}
	if err := json.Unmarshal([]byte(r.Equipment), &p.Equipment); err != nil {
		return nil, fmt.Errorf("decoding equipment: %w", err)
	}
	if r.MealTimes != "" {
		p.MealTimes = json.RawMessage(r.MealTimes)
	}
	return p, nil
}

// CreatePreferenceSet appends a new preference set. Existing sets are never
// modified; the most recent one is what recipe generation reads.
func (s *Store) CreatePreferenceSet(ctx context.Context, p *models.PreferenceSet) (*models.PreferenceSet, error) {
	dietary, err := json.Marshal(nonNil(p.Dietary))
	if err != nil {
		return nil, fmt.Errorf("encoding dietary: %w", err)
	}
	equipment, err := json.Marshal(nonNil(p.Equipment))
	if err != nil {
		return nil, fmt.Errorf("encoding equipment: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating preference set id: %w", err)
	}
	row := &preferenceRow{
		ID:           id.String(),
		Dietary:      string(dietary),
		Equipment:    string(equipment),
		Budget:       p.Budget,
		CookingHours: p.CookingHours,
		MealTimes:    string(p.MealTimes),
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, fmt.Errorf("inserting preference set: %w", err)
	}
	return row.toModel()
}

// LatestPreferenceSet returns the most recently created preference set. IDs
// are UUIDv7, so ties on created_at resolve to the later insert. Returns
// ErrNotFound if none has been saved yet.
func (s *Store) LatestPreferenceSet(ctx context.Context) (*models.PreferenceSet, error) {
	row := new(preferenceRow)
	err := s.db.NewSelect().
		Model(row).
		OrderExpr("created_at DESC, id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting latest preference set: %w", err)
	}
	return row.toModel()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
