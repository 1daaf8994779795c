package catalog

import "github.com/sahilchouksey/edupath-api/model"

// MockColleges returns the demo college catalog
func MockColleges() []model.College {
	return []model.College{
		{
			ID:              "1",
			Name:            "Indian Institute of Technology Delhi",
			Location:        "New Delhi, Delhi",
			Type:            model.CollegeTypeGovernment,
			Website:         "https://www.iitd.ac.in",
			Fees:            200000,
			Rating:          4.8,
			HasHostel:       true,
			Medium:          []string{"English"},
			Coordinates:     model.Coordinates{Lat: 28.5449, Lng: 77.1928},
			Image:           "https://images.pexels.com/photos/1454360/pexels-photo-1454360.jpeg",
			Description:     "Premier engineering institute offering world-class education in technology and research.",
			EstablishedYear: 1961,
			Accreditation:   []string{"NAAC A++", "NIRF Rank 1"},
		},
		{
			ID:              "2",
			Name:            "Delhi University",
			Location:        "New Delhi, Delhi",
			Type:            model.CollegeTypeGovernment,
			Website:         "https://www.du.ac.in",
			Fees:            50000,
			Rating:          4.5,
			HasHostel:       true,
			Medium:          []string{"English", "Hindi"},
			Coordinates:     model.Coordinates{Lat: 28.6857, Lng: 77.2167},
			Image:           "https://images.pexels.com/photos/256490/pexels-photo-256490.jpeg",
			Description:     "One of India's largest and most prestigious universities with diverse academic programs.",
			EstablishedYear: 1922,
			Accreditation:   []string{"NAAC A++", "NIRF Rank 11"},
		},
		{
			ID:              "3",
			Name:            "Symbiosis International University",
			Location:        "Pune, Maharashtra",
			Type:            model.CollegeTypePrivate,
			Website:         "https://www.siu.edu.in",
			Fees:            300000,
			Rating:          4.3,
			HasHostel:       true,
			Medium:          []string{"English"},
			Coordinates:     model.Coordinates{Lat: 18.5596, Lng: 73.8131},
			Image:           "https://images.pexels.com/photos/1438081/pexels-photo-1438081.jpeg",
			Description:     "Leading private university known for its innovative programs and industry partnerships.",
			EstablishedYear: 1971,
			Accreditation:   []string{"NAAC A++", "NIRF Rank 45"},
		},
		{
			ID:              "4",
			Name:            "Indian Institute of Science Bangalore",
			Location:        "Bangalore, Karnataka",
			Type:            model.CollegeTypeGovernment,
			Website:         "https://www.iisc.ac.in",
			Fees:            150000,
			Rating:          4.9,
			HasHostel:       true,
			Medium:          []string{"English"},
			Coordinates:     model.Coordinates{Lat: 12.9716, Lng: 77.5946},
			Image:           "https://images.pexels.com/photos/267885/pexels-photo-267885.jpeg",
			Description:     "Premier research institute for science and technology education.",
			EstablishedYear: 1909,
			Accreditation:   []string{"NAAC A++", "NIRF Rank 2"},
		},
	}
}

// MockCourses returns the demo course catalog
func MockCourses() []model.Course {
	return []model.Course{
		{
			ID:            "1",
			Name:          "B.Tech Computer Science",
			Duration:      "4 years",
			Eligibility:   "12th with PCM (75%+)",
			CareerPaths:   []string{"Software Engineer", "Data Scientist", "AI Specialist", "Product Manager"},
			AverageSalary: 800000,
			Stream:        "Science",
			Website:       "https://www.iitd.ac.in/academics/departments/computer-science",
			Description:   "Comprehensive computer science program covering programming, algorithms, and software engineering.",
			Subjects:      []string{"Programming", "Data Structures", "Algorithms", "Database Systems", "Machine Learning"},
			Colleges:      []string{"1", "2", "4"},
		},
		{
			ID:            "2",
			Name:          "BBA (Bachelor of Business Administration)",
			Duration:      "3 years",
			Eligibility:   "12th (50%+)",
			CareerPaths:   []string{"Business Analyst", "Marketing Manager", "Operations Manager", "Entrepreneur"},
			AverageSalary: 500000,
			Stream:        "Commerce",
			Website:       "https://www.du.ac.in/academics/bba",
			Description:   "Business administration program focusing on management and entrepreneurship.",
			Subjects:      []string{"Management", "Marketing", "Finance", "Operations", "Human Resources"},
			Colleges:      []string{"2", "3"},
		},
		{
			ID:            "3",
			Name:          "B.A. Psychology",
			Duration:      "3 years",
			Eligibility:   "12th (45%+)",
			CareerPaths:   []string{"Clinical Psychologist", "Counselor", "HR Specialist", "Researcher"},
			AverageSalary: 400000,
			Stream:        "Arts",
			Website:       "https://www.du.ac.in/academics/psychology",
			Description:   "Psychology program covering human behavior and mental processes.",
			Subjects:      []string{"General Psychology", "Abnormal Psychology", "Social Psychology", "Research Methods"},
			Colleges:      []string{"2", "3"},
		},
		{
			ID:            "4",
			Name:          "M.Tech Artificial Intelligence",
			Duration:      "2 years",
			Eligibility:   "B.Tech/B.E. (60%+)",
			CareerPaths:   []string{"AI Engineer", "Machine Learning Engineer", "Research Scientist", "AI Consultant"},
			AverageSalary: 1200000,
			Stream:        "Science",
			Website:       "https://www.iisc.ac.in/academics/ai",
			Description:   "Advanced program in artificial intelligence and machine learning.",
			Subjects:      []string{"Machine Learning", "Deep Learning", "Neural Networks", "Natural Language Processing"},
			Colleges:      []string{"1", "4"},
		},
	}
}
