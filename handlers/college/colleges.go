package college

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/catalog"
	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/utils/response"
)

// CollegeHandler handles college search and lookup
type CollegeHandler struct {
	searcher catalog.Searcher
}

// NewCollegeHandler creates a new college handler
func NewCollegeHandler(searcher catalog.Searcher) *CollegeHandler {
	return &CollegeHandler{searcher: searcher}
}

// ListColleges handles GET /api/v1/colleges
// Query: search, type, min_rating, max_fees. Other keys are ignored.
func (h *CollegeHandler) ListColleges(c *fiber.Ctx) error {
	var filters catalog.CollegeFilters

	if t := strings.TrimSpace(c.Query("type")); t != "" {
		filters.Type = model.CollegeType(t)
	}

	minRating, err := optionalFloat(c, "min_rating")
	if err != nil {
		return response.BadRequest(c, "min_rating must be a finite number")
	}
	filters.MinRating = minRating

	maxFees, err := optionalFloat(c, "max_fees")
	if err != nil {
		return response.BadRequest(c, "max_fees must be a finite number")
	}
	filters.MaxFees = maxFees

	result, err := h.searcher.SearchColleges(c.UserContext(), c.Query("search"), filters)
	if err != nil {
		return response.InternalServerError(c, "Failed to search colleges")
	}

	return response.Success(c, result)
}

// GetCollege handles GET /api/v1/colleges/:id
func (h *CollegeHandler) GetCollege(c *fiber.Ctx) error {
	college, err := h.searcher.GetCollegeByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch college")
	}
	if college == nil {
		return response.NotFound(c, "College not found")
	}

	return response.Success(c, college)
}

func optionalFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.New("not a finite number")
	}
	return &v, nil
}
