package database

import (
	"context"
	"fmt"

	"github.com/sahilchouksey/edupath-api/catalog"
	"github.com/sahilchouksey/edupath-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollegeRow is the persisted form of model.College
type CollegeRow struct {
	ID              string  `gorm:"primaryKey;size:64"`
	Position        int     `gorm:"not null;index"`
	Name            string  `gorm:"not null"`
	Location        string  `gorm:"not null"`
	Type            string  `gorm:"size:16;not null"`
	Website         string
	Fees            float64 `gorm:"not null;check:fees >= 0"`
	Rating          float64 `gorm:"not null;check:rating >= 0 AND rating <= 5"`
	HasHostel       bool
	Medium          datatypes.JSONSlice[string]
	Coordinates     datatypes.JSONType[model.Coordinates]
	Image           string
	Description     string
	EstablishedYear int
	Accreditation   datatypes.JSONSlice[string]
}

func (CollegeRow) TableName() string { return "colleges" }

// CourseRow is the persisted form of model.Course
type CourseRow struct {
	ID            string `gorm:"primaryKey;size:64"`
	Position      int    `gorm:"not null;index"`
	Name          string `gorm:"not null"`
	Duration      string
	Eligibility   string
	CareerPaths   datatypes.JSONSlice[string]
	AverageSalary float64 `gorm:"not null;check:average_salary >= 0"`
	Stream        string  `gorm:"index"`
	Website       string
	Description   string
	Subjects      datatypes.JSONSlice[string]
	Colleges      datatypes.JSONSlice[string]
}

func (CourseRow) TableName() string { return "courses" }

func collegeToRow(c model.College, pos int) CollegeRow {
	return CollegeRow{
		ID:              c.ID,
		Position:        pos,
		Name:            c.Name,
		Location:        c.Location,
		Type:            string(c.Type),
		Website:         c.Website,
		Fees:            c.Fees,
		Rating:          c.Rating,
		HasHostel:       c.HasHostel,
		Medium:          datatypes.NewJSONSlice(c.Medium),
		Coordinates:     datatypes.NewJSONType(c.Coordinates),
		Image:           c.Image,
		Description:     c.Description,
		EstablishedYear: c.EstablishedYear,
		Accreditation:   datatypes.NewJSONSlice(c.Accreditation),
	}
}

func (r CollegeRow) toModel() model.College {
	return model.College{
		ID:              r.ID,
		Name:            r.Name,
		Location:        r.Location,
		Type:            model.CollegeType(r.Type),
		Website:         r.Website,
		Fees:            r.Fees,
		Rating:          r.Rating,
		HasHostel:       r.HasHostel,
		Medium:          []string(r.Medium),
		Coordinates:     r.Coordinates.Data(),
		Image:           r.Image,
		Description:     r.Description,
		EstablishedYear: r.EstablishedYear,
		Accreditation:   []string(r.Accreditation),
	}
}

func courseToRow(c model.Course, pos int) CourseRow {
	return CourseRow{
		ID:            c.ID,
		Position:      pos,
		Name:          c.Name,
		Duration:      c.Duration,
		Eligibility:   c.Eligibility,
		CareerPaths:   datatypes.NewJSONSlice(c.CareerPaths),
		AverageSalary: c.AverageSalary,
		Stream:        c.Stream,
		Website:       c.Website,
		Description:   c.Description,
		Subjects:      datatypes.NewJSONSlice(c.Subjects),
		Colleges:      datatypes.NewJSONSlice(c.Colleges),
	}
}

func (r CourseRow) toModel() model.Course {
	return model.Course{
		ID:            r.ID,
		Name:          r.Name,
		Duration:      r.Duration,
		Eligibility:   r.Eligibility,
		CareerPaths:   []string(r.CareerPaths),
		AverageSalary: r.AverageSalary,
		Stream:        r.Stream,
		Website:       r.Website,
		Description:   r.Description,
		Subjects:      []string(r.Subjects),
		Colleges:      []string(r.Colleges),
	}
}

// SeedCatalog upserts the given records, keeping their order in Position
func (s *GORMStore) SeedCatalog(ctx context.Context, colleges []model.College, courses []model.Course) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{UpdateAll: true}

		if len(colleges) > 0 {
			rows := make([]CollegeRow, 0, len(colleges))
			for i, c := range colleges {
				rows = append(rows, collegeToRow(c, i))
			}
			if err := tx.Clauses(upsert).Create(&rows).Error; err != nil {
				return fmt.Errorf("seed colleges: %w", err)
			}
		}

		if len(courses) > 0 {
			rows := make([]CourseRow, 0, len(courses))
			for i, c := range courses {
				rows = append(rows, courseToRow(c, i))
			}
			if err := tx.Clauses(upsert).Create(&rows).Error; err != nil {
				return fmt.Errorf("seed courses: %w", err)
			}
		}
		return nil
	})
}

// LoadCatalog reads every record and builds a validated catalog.Store
func (s *GORMStore) LoadCatalog(ctx context.Context) (*catalog.Store, error) {
	var collegeRows []CollegeRow
	if err := s.db.WithContext(ctx).Order("position, id").Find(&collegeRows).Error; err != nil {
		return nil, fmt.Errorf("load colleges: %w", err)
	}

	var courseRows []CourseRow
	if err := s.db.WithContext(ctx).Order("position, id").Find(&courseRows).Error; err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}

	colleges := make([]model.College, 0, len(collegeRows))
	for _, r := range collegeRows {
		colleges = append(colleges, r.toModel())
	}
	courses := make([]model.Course, 0, len(courseRows))
	for _, r := range courseRows {
		courses = append(courses, r.toModel())
	}

	s.log.Info("catalog loaded from database", "colleges", len(colleges), "courses", len(courses))
	return catalog.NewStore(colleges, courses)
}

// CountCatalog reports how many colleges and courses are stored
func (s *GORMStore) CountCatalog(ctx context.Context) (colleges, courses int64, err error) {
	if err = s.db.WithContext(ctx).Model(&CollegeRow{}).Count(&colleges).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.WithContext(ctx).Model(&CourseRow{}).Count(&courses).Error; err != nil {
		return 0, 0, err
	}
	return colleges, courses, nil
}
