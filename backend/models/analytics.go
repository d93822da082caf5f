package models

import "time"

// Analytics is a single platform-wide snapshot, recomputed on demand from the
// entity stores and carried inside backups.
type Analytics struct {
	TotalUsers       int       `json:"totalUsers"`
	ActiveUsers      int       `json:"activeUsers"`
	TotalCourses     int       `json:"totalCourses"`
	PublishedCourses int       `json:"publishedCourses"`
	TotalModules     int       `json:"totalModules"`
	TotalLectures    int       `json:"totalLectures"`
	TotalQuizzes     int       `json:"totalQuizzes"`
	TotalEnrollments int       `json:"totalEnrollments"`
	TotalRevenue     float64   `json:"totalRevenue"`
	AverageRating    float64   `json:"averageRating"`
	GeneratedAt      time.Time `json:"generatedAt"`
}
