package store

import (
	"time"

	"coursepanel/backend/models"
)

// AnalyticsStore holds one platform-wide analytics snapshot. The numbers
// are informational; Recompute rebuilds them from the entity stores.
type AnalyticsStore struct {
	reg     *Registry
	current models.Analytics
}

func (s *AnalyticsStore) Get() models.Analytics {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.current
}

// Recompute rebuilds the snapshot from the live stores and persists it.
func (s *AnalyticsStore) Recompute() models.Analytics {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	a := models.Analytics{GeneratedAt: time.Now()}

	a.TotalUsers = len(s.reg.Users.items)
	for i := range s.reg.Users.items {
		if s.reg.Users.items[i].IsActive {
			a.ActiveUsers++
		}
	}

	var ratingSum float64
	rated := 0
	a.TotalCourses = len(s.reg.Courses.items)
	for i := range s.reg.Courses.items {
		course := &s.reg.Courses.items[i]
		if course.IsPublished {
			a.PublishedCourses++
		}
		a.TotalEnrollments += course.EnrollmentCount
		a.TotalRevenue += course.Revenue
		if course.Rating > 0 {
			ratingSum += course.Rating
			rated++
		}
	}
	if rated > 0 {
		a.AverageRating = ratingSum / float64(rated)
	}

	a.TotalModules = len(s.reg.Modules.items)
	a.TotalLectures = len(s.reg.Lectures.items)
	a.TotalQuizzes = len(s.reg.Quizzes.items)

	s.current = a
	s.reg.persist("analytics", s.current)
	return a
}
