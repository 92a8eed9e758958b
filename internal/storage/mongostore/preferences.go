package mongostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/hoanghai1803/mealcraft/internal/models"
	"github.com/hoanghai1803/mealcraft/internal/storage"
)

// preferenceDoc keeps mealTimes as its raw JSON text; it is free-form and only
// ever rendered back into a prompt.
type preferenceDoc struct {
	ID           string    `bson:"_id"`
	Dietary      []string  `bson:"dietary"`
	Equipment    []string  `bson:"equipment"`
	Budget       float64   `bson:"budget"`
	CookingHours float64   `bson:"cookingHours"`
	MealTimes    string    `bson:"mealTimes,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
}

func (d *preferenceDoc) toModel() *models.PreferenceSet {
	p := &models.PreferenceSet{
		ID:           d.ID,
		Dietary:      nonNil(d.Dietary),
		Equipment:    nonNil(d.Equipment),
		Budget:       d.Budget,
		CookingHours: d.CookingHours,
		CreatedAt:    d.CreatedAt,
	}
	if d.MealTimes != "" {
		p.MealTimes = json.RawMessage(d.MealTimes)
	}
	return p
}

// CreatePreferenceSet appends a preference set document.
func (s *Store) CreatePreferenceSet(ctx context.Context, p *models.PreferenceSet) (*models.PreferenceSet, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating preference set id: %w", err)
	}
	doc := &preferenceDoc{
		ID:           id.String(),
		Dietary:      nonNil(p.Dietary),
		Equipment:    nonNil(p.Equipment),
		Budget:       p.Budget,
		CookingHours: p.CookingHours,
		MealTimes:    string(p.MealTimes),
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.preferences.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("inserting preference set: %w", err)
	}
	return doc.toModel(), nil
}

// LatestPreferenceSet returns the newest preference set by createdAt. IDs
// are UUIDv7, so sets saved within the same millisecond fall back to
// insertion order. Returns storage.ErrNotFound if the collection is empty.
func (s *Store) LatestPreferenceSet(ctx context.Context) (*models.PreferenceSet, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})

	var doc preferenceDoc
	if err := s.preferences.FindOne(ctx, bson.D{}, opts).Decode(&doc); err != nil {
		if err := translate(err); errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("getting latest preference set: %w", err)
	}
	return doc.toModel(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
