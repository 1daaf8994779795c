package course

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/catalog"
	"github.com/sahilchouksey/edupath-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func newApp() *fiber.App {
	h := NewCourseHandler(catalog.NewEngine(catalog.NewMockStore()))
	app := fiber.New()
	app.Get("/courses", h.ListCourses)
	app.Get("/courses/:id", h.GetCourse)
	app.Get("/courses/:id/colleges", h.GetCourseColleges)
	return app
}

func do(t *testing.T, app *fiber.App, target string) (int, envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return resp.StatusCode, env
}

func TestListCourses(t *testing.T) {
	app := newApp()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filters", "/courses", []string{"1", "2", "3", "4"}},
		{"stream", "/courses?stream=Science", []string{"1", "4"}},
		{"min salary inclusive", "/courses?min_salary=800000", []string{"1", "4"}},
		{"stream and salary", "/courses?stream=Science&min_salary=1000000", []string{"4"}},
		{"search by name", "/courses?search=psychology", []string{"3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, tt.query)
			require.Equal(t, http.StatusOK, status)

			var result catalog.SearchResult[model.Course]
			require.NoError(t, json.Unmarshal(env.Data, &result))
			got := make([]string, 0, len(result.Data))
			for _, c := range result.Data {
				got = append(got, c.ID)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), result.Total)
		})
	}

	for _, target := range []string{"/courses?min_salary=lots", "/courses?min_salary=NaN", "/courses?min_salary=+Inf"} {
		status, _ := do(t, app, target)
		assert.Equal(t, http.StatusBadRequest, status, target)
	}
}

func TestGetCourse(t *testing.T) {
	app := newApp()

	status, env := do(t, app, "/courses/2")
	require.Equal(t, http.StatusOK, status)
	var course model.Course
	require.NoError(t, json.Unmarshal(env.Data, &course))
	assert.Equal(t, "Commerce", course.Stream)

	status, _ = do(t, app, "/courses/42")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetCourseColleges(t *testing.T) {
	app := newApp()

	status, env := do(t, app, "/courses/4/colleges")
	require.Equal(t, http.StatusOK, status)
	var colleges []model.College
	require.NoError(t, json.Unmarshal(env.Data, &colleges))
	require.Len(t, colleges, 2)
	assert.Equal(t, "1", colleges[0].ID)
	assert.Equal(t, "4", colleges[1].ID)

	status, env = do(t, app, "/courses/42/colleges")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}
