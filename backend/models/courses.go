package models

import "time"

type Course struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Category       string   `json:"category"`
	Level          string   `json:"level"` // beginner, intermediate, advanced
	InstructorID   string   `json:"instructorId"`
	InstructorName string   `json:"instructorName"`
	Thumbnail      string   `json:"thumbnail"`
	Tags           []string `json:"tags"`
	Modules        []string `json:"modules"` // ordered child module IDs
	ModuleCount    int      `json:"moduleCount"`
	LectureCount   int      `json:"lectureCount"`
	Duration       int      `json:"duration"` // minutes, sum of lecture durations
	IsPublished    bool     `json:"isPublished"`
	// Informational analytics; only the integrity repair routine ever
	// recomputes anything here.
	EnrollmentCount int       `json:"enrollmentCount"`
	Rating          float64   `json:"rating"`
	Revenue         float64   `json:"revenue"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Module struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CourseID     string    `json:"courseId"`
	Lectures     []string  `json:"lectures"` // ordered child lecture IDs
	LectureCount int       `json:"lectureCount"`
	Duration     int       `json:"duration"`
	Order        int       `json:"order"` // position within the course
	IsPublished  bool      `json:"isPublished"`
	IsPreview    bool      `json:"isPreview"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Lecture struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	ModuleID       string            `json:"moduleId"`
	CourseID       string            `json:"courseId"` // denormalized, always the module's course
	Order          int               `json:"order"`
	VideoURL       string            `json:"videoUrl"`
	VideoDuration  int               `json:"videoDuration"` // minutes
	VideoQualities []string          `json:"videoQualities"`
	Resources      []LectureResource `json:"resources"`
	IsFree         bool              `json:"isFree"`
	IsPublished    bool              `json:"isPublished"`
	ViewCount      int               `json:"viewCount"`
	CompletionRate float64           `json:"completionRate"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type LectureResource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"` // pdf, link, archive
}
