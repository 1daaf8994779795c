package course

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/catalog"
	"github.com/sahilchouksey/edupath-api/utils/response"
)

// CourseHandler handles course search and lookup
type CourseHandler struct {
	searcher catalog.Searcher
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(searcher catalog.Searcher) *CourseHandler {
	return &CourseHandler{searcher: searcher}
}

// ListCourses handles GET /api/v1/courses
// Query: search, stream, min_salary. Other keys are ignored.
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	filters := catalog.CourseFilters{
		Stream: strings.TrimSpace(c.Query("stream")),
	}

	if raw := strings.TrimSpace(c.Query("min_salary")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return response.BadRequest(c, "min_salary must be a finite number")
		}
		filters.MinSalary = &v
	}

	result, err := h.searcher.SearchCourses(c.UserContext(), c.Query("search"), filters)
	if err != nil {
		return response.InternalServerError(c, "Failed to search courses")
	}

	return response.Success(c, result)
}

// GetCourse handles GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	course, err := h.searcher.GetCourseByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch course")
	}
	if course == nil {
		return response.NotFound(c, "Course not found")
	}

	return response.Success(c, course)
}

// GetCourseColleges handles GET /api/v1/courses/:id/colleges
// An unknown course yields an empty list, not a 404.
func (h *CourseHandler) GetCourseColleges(c *fiber.Ctx) error {
	colleges, err := h.searcher.GetCollegesByCourse(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch colleges for course")
	}

	return response.Success(c, colleges)
}
