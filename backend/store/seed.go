package store

import (
	"time"

	"coursepanel/backend/models"
)

// SeedData is the built-in sample catalog loaded by Registry.Initialize
// when a store has no persisted state yet.
type SeedData struct {
	Courses  []models.Course
	Modules  []models.Module
	Lectures []models.Lecture
	Quizzes  []models.Quiz
	Users    []models.User
}

// StaticRoles is the reference list of available roles.
func StaticRoles() []models.Role {
	return []models.Role{
		{ID: "1", Name: "admin", Permissions: []string{"courses:write", "users:write", "backups:write", "integrity:run"}},
		{ID: "2", Name: "instructor", Permissions: []string{"courses:write"}},
		{ID: "3", Name: "student", Permissions: []string{"courses:read"}},
	}
}

// StaticPermissions is the reference list of permission codes.
func StaticPermissions() []models.Permission {
	return []models.Permission{
		{Code: "courses:read", Description: "Browse the course catalog"},
		{Code: "courses:write", Description: "Create and edit courses, modules and lectures"},
		{Code: "users:write", Description: "Manage user accounts"},
		{Code: "backups:write", Description: "Create, import and restore backups"},
		{Code: "integrity:run", Description: "Run integrity validation and repair"},
	}
}

// DefaultSeed returns a small consistent catalog: counts and durations in
// the seed match the actual children.
func DefaultSeed() SeedData {
	now := time.Now()

	return SeedData{
		Users: []models.User{
			{
				ID: "1", Email: "elena.petrova@coursepanel.local", Name: "Elena Petrova",
				Username: "elena", RoleID: "2", RoleName: "instructor", IsActive: true,
				EnrolledCourses: []string{}, CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "2", Email: "marco.silva@coursepanel.local", Name: "Marco Silva",
				Username: "marco", RoleID: "3", RoleName: "student", IsActive: true,
				EnrolledCourses: []string{"1"}, CoursesEnrolled: 1,
				CreatedAt: now, UpdatedAt: now,
			},
		},
		Courses: []models.Course{
			{
				ID: "1", Title: "Go for Backend Developers",
				Description: "From net/http basics to production services.",
				Price:       49, Category: "Programming", Level: "intermediate",
				InstructorID: "1", InstructorName: "Elena Petrova",
				Tags:    []string{"go", "backend"},
				Modules: []string{"1", "2"}, ModuleCount: 2, LectureCount: 3, Duration: 85,
				IsPublished: true, EnrollmentCount: 1, Rating: 4.6, Revenue: 49,
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "2", Title: "SQL Fundamentals",
				Description: "Queries, joins and schema design for beginners.",
				Price:       29, Category: "Databases", Level: "beginner",
				InstructorID: "1", InstructorName: "Elena Petrova",
				Tags:    []string{"sql", "databases"},
				Modules: []string{}, ModuleCount: 0, LectureCount: 0, Duration: 0,
				IsPublished: false,
				CreatedAt:   now, UpdatedAt: now,
			},
		},
		Modules: []models.Module{
			{
				ID: "1", Title: "Getting Started", Description: "Tooling and first programs.",
				CourseID: "1", Lectures: []string{"1", "2"}, LectureCount: 2, Duration: 55,
				Order: 0, IsPublished: true, IsPreview: true,
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "2", Title: "HTTP Services", Description: "Routing, middleware, JSON APIs.",
				CourseID: "1", Lectures: []string{"3"}, LectureCount: 1, Duration: 30,
				Order: 1, IsPublished: true,
				CreatedAt: now, UpdatedAt: now,
			},
		},
		Lectures: []models.Lecture{
			{
				ID: "1", Title: "Installing the Toolchain", ModuleID: "1", CourseID: "1",
				Order: 0, VideoURL: "https://cdn.coursepanel.local/videos/1.mp4",
				VideoDuration: 25, VideoQualities: []string{"720p", "1080p"},
				Resources: []models.LectureResource{
					{Title: "Setup checklist", URL: "https://cdn.coursepanel.local/docs/setup.pdf", Type: "pdf"},
				},
				IsFree: true, IsPublished: true, ViewCount: 310, CompletionRate: 92.5,
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "2", Title: "Your First Program", ModuleID: "1", CourseID: "1",
				Order: 1, VideoURL: "https://cdn.coursepanel.local/videos/2.mp4",
				VideoDuration: 30, VideoQualities: []string{"720p", "1080p"},
				Resources:   []models.LectureResource{},
				IsPublished: true, ViewCount: 244, CompletionRate: 81.0,
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "3", Title: "Writing an HTTP Handler", ModuleID: "2", CourseID: "1",
				Order: 0, VideoURL: "https://cdn.coursepanel.local/videos/3.mp4",
				VideoDuration: 30, VideoQualities: []string{"720p"},
				Resources:   []models.LectureResource{},
				IsPublished: true, ViewCount: 187, CompletionRate: 74.2,
				CreatedAt: now, UpdatedAt: now,
			},
		},
		Quizzes: []models.Quiz{
			{
				ID: "1", Title: "Getting Started Check", Description: "Quick knowledge check.",
				ModuleID: "1", TimeLimit: 10, PassingScore: 60, IsPublished: true,
				Questions: []models.QuizQuestion{
					{
						ID: "1", Question: "Which command compiles and runs a Go program?",
						Type: "single", Points: 5, Order: 0,
						Options: []models.QuizOption{
							{Text: "go run main.go", Correct: true},
							{Text: "go exec main.go"},
							{Text: "gcc main.go"},
						},
					},
				},
				CreatedAt: now, UpdatedAt: now,
			},
		},
	}
}
