package database

import (
	"context"
	"fmt"

	"github.com/sahilchouksey/edupath-api/catalog"
)

// Seeder handles database seeding operations
type Seeder struct {
	store *GORMStore
}

// NewSeeder creates a new seeder instance
func NewSeeder(store *GORMStore) *Seeder {
	return &Seeder{store: store}
}

// SeedAll seeds the catalog tables with the built-in records when they are empty
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.store.log.Info("starting database seeding")

	colleges, courses, err := s.store.CountCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to count catalog: %w", err)
	}

	if colleges > 0 || courses > 0 {
		s.store.log.Info("catalog already seeded, skipping", "colleges", colleges, "courses", courses)
		return nil
	}

	if err := s.store.SeedCatalog(ctx, catalog.MockColleges(), catalog.MockCourses()); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	s.store.log.Info("database seeding completed")
	return nil
}
