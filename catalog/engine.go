package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/sahilchouksey/edupath-api/model"
)

const (
	// DefaultPage and DefaultLimit are reported in every search envelope.
	// They do not slice the result set.
	DefaultPage  = 1
	DefaultLimit = 20

	// DefaultSearchLatency and DefaultLookupLatency emulate a network round trip
	DefaultSearchLatency = 500 * time.Millisecond
	DefaultLookupLatency = 300 * time.Millisecond
)

// SearchResult is the envelope returned by catalog searches
type SearchResult[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func newSearchResult[T any](data []T) SearchResult[T] {
	return SearchResult[T]{
		Data:  data,
		Total: len(data),
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}
}

// CollegeFilters narrows a college search. Zero values impose no constraint.
type CollegeFilters struct {
	Type      model.CollegeType `json:"type,omitempty"`
	MinRating *float64          `json:"min_rating,omitempty"`
	MaxFees   *float64          `json:"max_fees,omitempty"`
}

// CourseFilters narrows a course search. Zero values impose no constraint.
type CourseFilters struct {
	Stream    string   `json:"stream,omitempty"`
	MinSalary *float64 `json:"min_salary,omitempty"`
}

// Searcher is the query surface consumed by the HTTP handlers
type Searcher interface {
	SearchColleges(ctx context.Context, query string, filters CollegeFilters) (SearchResult[model.College], error)
	SearchCourses(ctx context.Context, query string, filters CourseFilters) (SearchResult[model.Course], error)
	GetCollegeByID(ctx context.Context, id string) (*model.College, error)
	GetCourseByID(ctx context.Context, id string) (*model.Course, error)
	GetCollegesByCourse(ctx context.Context, courseID string) ([]model.College, error)
}

// Engine answers search and lookup queries over a Store
type Engine struct {
	store         *Store
	searchLatency time.Duration
	lookupLatency time.Duration
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithLatency sets the artificial delay applied to searches and lookups
func WithLatency(search, lookup time.Duration) EngineOption {
	return func(e *Engine) {
		e.searchLatency = search
		e.lookupLatency = lookup
	}
}

// NewEngine creates an engine over store. Without options no latency is added.
func NewEngine(store *Store, opts ...EngineOption) *Engine {
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SearchColleges matches query against name, location and description and applies filters.
// Results keep catalog order.
func (e *Engine) SearchColleges(ctx context.Context, query string, filters CollegeFilters) (SearchResult[model.College], error) {
	if err := wait(ctx, e.searchLatency); err != nil {
		return SearchResult[model.College]{}, err
	}

	preds := collegePredicates(query, filters)
	data := []model.College{}
	for _, c := range e.store.Colleges() {
		if matchAll(c, preds) {
			data = append(data, c)
		}
	}
	return newSearchResult(data), nil
}

// SearchCourses matches query against name, description and every subject and applies filters.
// Results keep catalog order.
func (e *Engine) SearchCourses(ctx context.Context, query string, filters CourseFilters) (SearchResult[model.Course], error) {
	if err := wait(ctx, e.searchLatency); err != nil {
		return SearchResult[model.Course]{}, err
	}

	preds := coursePredicates(query, filters)
	data := []model.Course{}
	for _, c := range e.store.Courses() {
		if matchAll(c, preds) {
			data = append(data, c)
		}
	}
	return newSearchResult(data), nil
}

// GetCollegeByID returns nil when no college has the id
func (e *Engine) GetCollegeByID(ctx context.Context, id string) (*model.College, error) {
	if err := wait(ctx, e.lookupLatency); err != nil {
		return nil, err
	}
	c, ok := e.store.CollegeByID(id)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetCourseByID returns nil when no course has the id
func (e *Engine) GetCourseByID(ctx context.Context, id string) (*model.Course, error) {
	if err := wait(ctx, e.lookupLatency); err != nil {
		return nil, err
	}
	c, ok := e.store.CourseByID(id)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetCollegesByCourse returns an empty slice for an unknown course
func (e *Engine) GetCollegesByCourse(ctx context.Context, courseID string) ([]model.College, error) {
	if err := wait(ctx, e.lookupLatency); err != nil {
		return nil, err
	}
	return e.store.CollegesByCourse(courseID), nil
}

type predicate[T any] func(T) bool

func matchAll[T any](v T, preds []predicate[T]) bool {
	for _, p := range preds {
		if !p(v) {
			return false
		}
	}
	return true
}

func collegePredicates(query string, f CollegeFilters) []predicate[model.College] {
	var preds []predicate[model.College]

	if q := normalizeQuery(query); q != "" {
		preds = append(preds, func(c model.College) bool {
			return containsFold(c.Name, q) || containsFold(c.Location, q) || containsFold(c.Description, q)
		})
	}
	if f.Type != "" {
		preds = append(preds, func(c model.College) bool { return c.Type == f.Type })
	}
	if floor, ok := bound(f.MinRating); ok {
		preds = append(preds, func(c model.College) bool { return c.Rating >= floor })
	}
	if ceiling, ok := bound(f.MaxFees); ok {
		preds = append(preds, func(c model.College) bool { return c.Fees <= ceiling })
	}
	return preds
}

func coursePredicates(query string, f CourseFilters) []predicate[model.Course] {
	var preds []predicate[model.Course]

	if q := normalizeQuery(query); q != "" {
		preds = append(preds, func(c model.Course) bool {
			if containsFold(c.Name, q) || containsFold(c.Description, q) {
				return true
			}
			for _, s := range c.Subjects {
				if containsFold(s, q) {
					return true
				}
			}
			return false
		})
	}
	if f.Stream != "" {
		preds = append(preds, func(c model.Course) bool { return c.Stream == f.Stream })
	}
	if floor, ok := bound(f.MinSalary); ok {
		preds = append(preds, func(c model.Course) bool { return c.AverageSalary >= floor })
	}
	return preds
}

// bound reports a numeric filter. Nil and zero both mean no constraint.
func bound(v *float64) (float64, bool) {
	if v == nil || *v == 0 {
		return 0, false
	}
	return *v, true
}

// normalizeQuery lowercases the query. A whitespace-only query counts as empty.
func normalizeQuery(q string) string {
	if strings.TrimSpace(q) == "" {
		return ""
	}
	return strings.ToLower(q)
}

// containsFold reports whether lowered query q occurs in s, ignoring case
func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
