package models

import "time"

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
	// PasswordHash must survive snapshot and backup serialization, so it
	// cannot be json:"-". API handlers return Public() copies instead.
	PasswordHash string `json:"passwordHash,omitempty"`
	RoleID       string `json:"roleId"`
	RoleName     string `json:"roleName"`
	IsActive     bool   `json:"isActive"`
	// EnrolledCourses is the source of truth; CoursesEnrolled is the
	// denormalized count shown in lists and can drift.
	EnrolledCourses []string `json:"enrolledCourses"`
	CoursesEnrolled int      `json:"coursesEnrolled"`
	// Learning progress aggregates, informational only.
	LecturesCompleted int       `json:"lecturesCompleted"`
	HoursSpent        float64   `json:"hoursSpent"`
	LastLogin         time.Time `json:"lastLogin"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Public returns a copy safe to serialize in API responses: the password
// hash is cleared and drops out of the JSON via omitempty.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// Role and Permission are static reference data, rarely mutated.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type Permission struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
