package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sahilchouksey/edupath-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func collegeIDs(cs []model.College) []string {
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	return ids
}

func courseNames(cs []model.Course) []string {
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		names = append(names, c.Name)
	}
	return names
}

func TestSearchCollegesByText(t *testing.T) {
	e := newTestEngine(NewMockStore())

	res, err := e.SearchColleges(context.Background(), "delhi", CollegeFilters{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Data))
	for _, c := range res.Data {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Indian Institute of Technology Delhi", "Delhi University"}, names)
	assert.Equal(t, 2, res.Total)
}

func TestSearchCollegesIsCaseInsensitive(t *testing.T) {
	e := newTestEngine(NewMockStore())

	lower, err := e.SearchColleges(context.Background(), "pune", CollegeFilters{})
	require.NoError(t, err)
	upper, err := e.SearchColleges(context.Background(), "PUNE", CollegeFilters{})
	require.NoError(t, err)

	assert.Equal(t, []string{"3"}, collegeIDs(lower.Data))
	assert.Equal(t, lower, upper)
}

func TestSearchCollegesMatchesDescription(t *testing.T) {
	e := newTestEngine(NewMockStore())

	res, err := e.SearchColleges(context.Background(), "research institute", CollegeFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, collegeIDs(res.Data))
}

func TestSearchCoursesByStream(t *testing.T) {
	e := newTestEngine(NewMockStore())

	res, err := e.SearchCourses(context.Background(), "", CourseFilters{Stream: "Science"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B.Tech Computer Science", "M.Tech Artificial Intelligence"}, courseNames(res.Data))
	assert.Equal(t, 2, res.Total)
}

func TestSearchCoursesMatchesSubjects(t *testing.T) {
	e := newTestEngine(NewMockStore())

	res, err := e.SearchCourses(context.Background(), "machine learning", CourseFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B.Tech Computer Science", "M.Tech Artificial Intelligence"}, courseNames(res.Data))

	res, err = e.SearchCourses(context.Background(), "finance", CourseFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"BBA (Bachelor of Business Administration)"}, courseNames(res.Data))
}

func TestSearchCoursesMinSalaryIsInclusive(t *testing.T) {
	e := newTestEngine(NewMockStore())

	res, err := e.SearchCourses(context.Background(), "", CourseFilters{MinSalary: f64(800000)})
	require.NoError(t, err)
	assert.Equal(t, []string{"B.Tech Computer Science", "M.Tech Artificial Intelligence"}, courseNames(res.Data))
}

func TestSearchCollegeBoundsAreInclusive(t *testing.T) {
	e := newTestEngine(NewMockStore())

	res, err := e.SearchColleges(context.Background(), "", CollegeFilters{MinRating: f64(4.8)})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, collegeIDs(res.Data))

	res, err = e.SearchColleges(context.Background(), "", CollegeFilters{MaxFees: f64(150000)})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, collegeIDs(res.Data))
}

func TestSearchZeroBoundIsNoConstraint(t *testing.T) {
	e := newTestEngine(NewMockStore())

	res, err := e.SearchColleges(context.Background(), "", CollegeFilters{MaxFees: f64(0), MinRating: f64(0)})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, collegeIDs(res.Data))

	courses, err := e.SearchCourses(context.Background(), "", CourseFilters{MinSalary: f64(0)})
	require.NoError(t, err)
	assert.Len(t, courses.Data, len(MockCourses()))
}

func TestSearchEnvelopeDoesNotPaginate(t *testing.T) {
	colleges := make([]model.College, 0, 30)
	for i := 0; i < 30; i++ {
		colleges = append(colleges, model.College{ID: fmt.Sprint(i), Name: "College", Type: model.CollegeTypePrivate})
	}
	store, err := NewStore(colleges, nil)
	require.NoError(t, err)

	res, err := newTestEngine(store).SearchColleges(context.Background(), "", CollegeFilters{})
	require.NoError(t, err)

	// page and limit are reported but never applied
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 20, res.Limit)
	assert.Len(t, res.Data, 30)
	assert.Equal(t, len(res.Data), res.Total)
}

func TestSearchReturnsEmptyNotNil(t *testing.T) {
	e := newTestEngine(NewMockStore())

	res, err := e.SearchColleges(context.Background(), "atlantis", CollegeFilters{})
	require.NoError(t, err)
	assert.NotNil(t, res.Data)
	assert.Equal(t, 0, res.Total)
}

// Every filter combination yields exactly the AND-subset in catalog order.
func TestSearchCollegesFilterIntersection(t *testing.T) {
	e := newTestEngine(NewMockStore())
	all := MockColleges()

	queries := []string{"", "delhi", "institute", "INDIA", "zzz"}
	types := []model.CollegeType{"", model.CollegeTypeGovernment, model.CollegeTypePrivate, model.CollegeTypeDeemed}
	ratings := []*float64{nil, f64(0), f64(4.4), f64(4.8), f64(5)}
	fees := []*float64{nil, f64(0), f64(50000), f64(150000), f64(1e7)}

	for _, q := range queries {
		for _, typ := range types {
			for _, r := range ratings {
				for _, fee := range fees {
					filters := CollegeFilters{Type: typ, MinRating: r, MaxFees: fee}

					var want []string
					for _, c := range all {
						text := q == "" ||
							strings.Contains(strings.ToLower(c.Name), strings.ToLower(q)) ||
							strings.Contains(strings.ToLower(c.Location), strings.ToLower(q)) ||
							strings.Contains(strings.ToLower(c.Description), strings.ToLower(q))
						if !text {
							continue
						}
						if typ != "" && c.Type != typ {
							continue
						}
						if r != nil && c.Rating < *r {
							continue
						}
						if fee != nil && *fee != 0 && c.Fees > *fee {
							continue
						}
						want = append(want, c.ID)
					}

					res, err := e.SearchColleges(context.Background(), q, filters)
					require.NoError(t, err)
					got := collegeIDs(res.Data)
					if len(want) == 0 {
						assert.Empty(t, got, "query=%q filters=%+v", q, filters)
					} else {
						assert.Equal(t, want, got, "query=%q filters=%+v", q, filters)
					}
					assert.Equal(t, len(res.Data), res.Total)
				}
			}
		}
	}
}

func TestLookupsThroughEngine(t *testing.T) {
	e := newTestEngine(NewMockStore())
	ctx := context.Background()

	c, err := e.GetCollegeByID(ctx, "3")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Symbiosis International University", c.Name)

	missing, err := e.GetCollegeByID(ctx, "42")
	require.NoError(t, err)
	assert.Nil(t, missing)

	course, err := e.GetCourseByID(ctx, "42")
	require.NoError(t, err)
	assert.Nil(t, course)

	offered, err := e.GetCollegesByCourse(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, collegeIDs(offered))

	none, err := e.GetCollegesByCourse(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLatencyHonoursCancellation(t *testing.T) {
	e := NewEngine(NewMockStore(), WithLatency(time.Hour, time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.SearchColleges(ctx, "", CollegeFilters{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = e.GetCourseByID(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLatencyIsApplied(t *testing.T) {
	e := NewEngine(NewMockStore(), WithLatency(20*time.Millisecond, 0))

	start := time.Now()
	_, err := e.SearchCourses(context.Background(), "", CourseFilters{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func newTestEngine(s *Store) *Engine {
	return NewEngine(s, WithLatency(0, 0))
}
