package model

// CollegeType is the ownership category of a college
type CollegeType string

const (
	CollegeTypeGovernment CollegeType = "Government"
	CollegeTypePrivate    CollegeType = "Private"
	CollegeTypeDeemed     CollegeType = "Deemed"
)

// Valid reports whether t is one of the known college types
func (t CollegeType) Valid() bool {
	switch t {
	case CollegeTypeGovernment, CollegeTypePrivate, CollegeTypeDeemed:
		return true
	}
	return false
}

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// College represents an institution in the catalog
type College struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Location        string      `json:"location"`
	Type            CollegeType `json:"type"`
	Website         string      `json:"website"`
	Fees            float64     `json:"fees"`
	Rating          float64     `json:"rating"` // 0-5
	HasHostel       bool        `json:"has_hostel"`
	Medium          []string    `json:"medium"` // languages of instruction
	Coordinates     Coordinates `json:"coordinates"`
	Image           string      `json:"image"`
	Description     string      `json:"description"`
	EstablishedYear int         `json:"established_year"`
	Accreditation   []string    `json:"accreditation"`
}

// Course represents an academic program offered by one or more colleges
type Course struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Duration      string   `json:"duration"`
	Eligibility   string   `json:"eligibility"`
	CareerPaths   []string `json:"career_paths"`
	AverageSalary float64  `json:"average_salary"`
	Stream        string   `json:"stream"`
	Website       string   `json:"website"`
	Description   string   `json:"description"`
	Subjects      []string `json:"subjects"`
	Colleges      []string `json:"colleges"` // College IDs
}
