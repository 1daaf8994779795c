package catalog

import (
	"errors"
	"fmt"

	"github.com/sahilchouksey/edupath-api/model"
)

var (
	ErrDuplicateCollege  = errors.New("duplicate college id")
	ErrDuplicateCourse   = errors.New("duplicate course id")
	ErrUnknownCollegeRef = errors.New("course references unknown college")
)

// Store holds the immutable college and course collections.
// It is built once at startup and shared by reference; it needs no locking.
type Store struct {
	colleges   []model.College
	courses    []model.Course
	collegeIdx map[string]int
	courseIdx  map[string]int
}

// NewStore validates and indexes the given collections
func NewStore(colleges []model.College, courses []model.Course) (*Store, error) {
	s := &Store{
		colleges:   make([]model.College, 0, len(colleges)),
		courses:    make([]model.Course, 0, len(courses)),
		collegeIdx: make(map[string]int, len(colleges)),
		courseIdx:  make(map[string]int, len(courses)),
	}

	for _, c := range colleges {
		if _, exists := s.collegeIdx[c.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCollege, c.ID)
		}
		s.collegeIdx[c.ID] = len(s.colleges)
		s.colleges = append(s.colleges, cloneCollege(c))
	}

	for _, c := range courses {
		if _, exists := s.courseIdx[c.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCourse, c.ID)
		}
		for _, ref := range c.Colleges {
			if _, ok := s.collegeIdx[ref]; !ok {
				return nil, fmt.Errorf("%w: course %q -> college %q", ErrUnknownCollegeRef, c.ID, ref)
			}
		}
		s.courseIdx[c.ID] = len(s.courses)
		s.courses = append(s.courses, cloneCourse(c))
	}

	return s, nil
}

// NewMockStore returns a store seeded with the built-in demo catalog
func NewMockStore() *Store {
	s, err := NewStore(MockColleges(), MockCourses())
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid mock data: %v", err))
	}
	return s
}

// Colleges returns every college in catalog order
func (s *Store) Colleges() []model.College {
	out := make([]model.College, len(s.colleges))
	for i, c := range s.colleges {
		out[i] = cloneCollege(c)
	}
	return out
}

// Courses returns every course in catalog order
func (s *Store) Courses() []model.Course {
	out := make([]model.Course, len(s.courses))
	for i, c := range s.courses {
		out[i] = cloneCourse(c)
	}
	return out
}

// CollegeByID looks up a college. The boolean is false when the id is unknown.
func (s *Store) CollegeByID(id string) (model.College, bool) {
	i, ok := s.collegeIdx[id]
	if !ok {
		return model.College{}, false
	}
	return cloneCollege(s.colleges[i]), true
}

// CourseByID looks up a course. The boolean is false when the id is unknown.
func (s *Store) CourseByID(id string) (model.Course, bool) {
	i, ok := s.courseIdx[id]
	if !ok {
		return model.Course{}, false
	}
	return cloneCourse(s.courses[i]), true
}

// CollegesByCourse returns the colleges offering a course, in college catalog order.
// An unknown course yields an empty slice.
func (s *Store) CollegesByCourse(courseID string) []model.College {
	out := []model.College{}
	i, ok := s.courseIdx[courseID]
	if !ok {
		return out
	}

	offered := make(map[string]struct{}, len(s.courses[i].Colleges))
	for _, id := range s.courses[i].Colleges {
		offered[id] = struct{}{}
	}
	for _, c := range s.colleges {
		if _, ok := offered[c.ID]; ok {
			out = append(out, cloneCollege(c))
		}
	}
	return out
}

func cloneCollege(c model.College) model.College {
	c.Medium = cloneStrings(c.Medium)
	c.Accreditation = cloneStrings(c.Accreditation)
	return c
}

func cloneCourse(c model.Course) model.Course {
	c.CareerPaths = cloneStrings(c.CareerPaths)
	c.Subjects = cloneStrings(c.Subjects)
	c.Colleges = cloneStrings(c.Colleges)
	return c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
