package controllers

import (
	"coursepanel/backend/config"
	"coursepanel/backend/models"
	"coursepanel/backend/services"
	"coursepanel/backend/store"

	"github.com/gofiber/fiber/v2"
)

type CoursesController struct {
	Stores    *store.Registry
	Integrity *services.IntegrityService
	Cfg       *config.Config
}

func NewCoursesController(stores *store.Registry, integrity *services.IntegrityService, cfg *config.Config) *CoursesController {
	return &CoursesController{Stores: stores, Integrity: integrity, Cfg: cfg}
}

func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	courses := cc.Stores.Courses.FetchAll()

	result := []fiber.Map{}
	for _, course := range courses {
		result = append(result, fiber.Map{
			"id":           course.ID,
			"title":        course.Title,
			"category":     course.Category,
			"level":        course.Level,
			"price":        course.Price,
			"instructor":   course.InstructorName,
			"moduleCount":  course.ModuleCount,
			"lectureCount": course.LectureCount,
			"duration":     course.Duration,
			"isPublished":  course.IsPublished,
			"enrollments":  course.EnrollmentCount,
			"rating":       course.Rating,
		})
	}

	return c.JSON(result)
}

func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Params("id")

	course, ok := cc.Stores.Courses.FetchByID(courseID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	modules := cc.Stores.Modules.FetchByCourseID(courseID)
	moduleViews := []fiber.Map{}
	for _, module := range modules {
		moduleViews = append(moduleViews, fiber.Map{
			"module":   module,
			"lectures": cc.Stores.Lectures.FetchByModuleID(module.ID),
			"quizzes":  cc.Stores.Quizzes.FetchByModuleID(module.ID),
		})
	}

	return c.JSON(fiber.Map{
		"course":  course,
		"modules": moduleViews,
	})
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var course models.Course
	if err := c.BodyParser(&course); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if course.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	if course.InstructorID != "" {
		instructor, ok := cc.Stores.Users.FetchByID(course.InstructorID)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Instructor not found",
			})
		}
		course.InstructorName = instructor.Name
	}

	id := cc.Stores.Courses.Add(course)
	created, _ := cc.Stores.Courses.FetchByID(id)

	return c.JSON(fiber.Map{
		"message": "Course created",
		"course":  created,
	})
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Params("id")

	var input struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		Category     string   `json:"category"`
		Level        string   `json:"level"`
		InstructorID string   `json:"instructorId"`
		Thumbnail    string   `json:"thumbnail"`
		Tags         []string `json:"tags"`
		Price        *float64 `json:"price"`
		IsPublished  *bool    `json:"isPublished"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var instructorName string
	if input.InstructorID != "" {
		instructor, ok := cc.Stores.Users.FetchByID(input.InstructorID)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Instructor not found",
			})
		}
		instructorName = instructor.Name
	}

	ok := cc.Stores.Courses.Update(courseID, func(course *models.Course) {
		if input.Title != "" {
			course.Title = input.Title
		}
		if input.Description != "" {
			course.Description = input.Description
		}
		if input.Category != "" {
			course.Category = input.Category
		}
		if input.Level != "" {
			course.Level = input.Level
		}
		if input.InstructorID != "" {
			course.InstructorID = input.InstructorID
			course.InstructorName = instructorName
		}
		if input.Thumbnail != "" {
			course.Thumbnail = input.Thumbnail
		}
		if input.Tags != nil {
			course.Tags = input.Tags
		}
		if input.Price != nil {
			course.Price = *input.Price
		}
		if input.IsPublished != nil {
			course.IsPublished = *input.IsPublished
		}
	})
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	updated, _ := cc.Stores.Courses.FetchByID(courseID)
	return c.JSON(fiber.Map{
		"message": "Course updated",
		"course":  updated,
	})
}

// DeleteCourse cascades: the course, its modules, their lectures and
// quizzes, and any user enrollments all go.
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Params("id")

	if !cc.Integrity.DeleteCourseWithCascade(courseID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course and all its content deleted",
	})
}

func (cc *CoursesController) AddModule(c *fiber.Ctx) error {
	courseID := c.Params("id")

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		IsPreview   bool   `json:"isPreview"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	id, ok := cc.Stores.AddModule(courseID, models.Module{
		Title:       input.Title,
		Description: input.Description,
		IsPreview:   input.IsPreview,
	})
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	module, _ := cc.Stores.Modules.FetchByID(id)
	return c.JSON(fiber.Map{
		"message": "Module added",
		"module":  module,
	})
}

func (cc *CoursesController) UpdateModule(c *fiber.Ctx) error {
	moduleID := c.Params("moduleId")

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		IsPublished *bool  `json:"isPublished"`
		IsPreview   *bool  `json:"isPreview"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	ok := cc.Stores.Modules.Update(moduleID, func(module *models.Module) {
		if input.Title != "" {
			module.Title = input.Title
		}
		if input.Description != "" {
			module.Description = input.Description
		}
		if input.IsPublished != nil {
			module.IsPublished = *input.IsPublished
		}
		if input.IsPreview != nil {
			module.IsPreview = *input.IsPreview
		}
	})
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Module not found",
		})
	}

	module, _ := cc.Stores.Modules.FetchByID(moduleID)
	return c.JSON(fiber.Map{
		"message": "Module updated",
		"module":  module,
	})
}

// DeleteModule cascades to the module's lectures and quizzes and removes
// it from the parent course.
func (cc *CoursesController) DeleteModule(c *fiber.Ctx) error {
	moduleID := c.Params("moduleId")

	if !cc.Integrity.DeleteModuleWithCascade(moduleID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Module not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Module and all its content deleted",
	})
}

// ReorderModules serves drag-and-drop reordering: the body carries the
// complete module ID list in its new order.
func (cc *CoursesController) ReorderModules(c *fiber.Ctx) error {
	courseID := c.Params("id")

	var input struct {
		ModuleIDs []string `json:"moduleIds"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if !cc.Stores.ReorderModules(courseID, input.ModuleIDs) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Modules reordered",
		"modules": cc.Stores.Modules.FetchByCourseID(courseID),
	})
}

func (cc *CoursesController) AddLecture(c *fiber.Ctx) error {
	moduleID := c.Params("moduleId")

	var input struct {
		Title          string                   `json:"title"`
		Description    string                   `json:"description"`
		VideoURL       string                   `json:"videoUrl"`
		VideoDuration  int                      `json:"videoDuration"`
		VideoQualities []string                 `json:"videoQualities"`
		Resources      []models.LectureResource `json:"resources"`
		IsFree         bool                     `json:"isFree"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	id, ok := cc.Stores.AddLecture(moduleID, models.Lecture{
		Title:          input.Title,
		Description:    input.Description,
		VideoURL:       input.VideoURL,
		VideoDuration:  input.VideoDuration,
		VideoQualities: input.VideoQualities,
		Resources:      input.Resources,
		IsFree:         input.IsFree,
	})
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Module not found",
		})
	}

	lecture, _ := cc.Stores.Lectures.FetchByID(id)
	return c.JSON(fiber.Map{
		"message": "Lecture added",
		"lecture": lecture,
	})
}

func (cc *CoursesController) UpdateLecture(c *fiber.Ctx) error {
	lectureID := c.Params("lectureId")

	var input struct {
		Title          string                   `json:"title"`
		Description    string                   `json:"description"`
		VideoURL       string                   `json:"videoUrl"`
		VideoDuration  *int                     `json:"videoDuration"`
		VideoQualities []string                 `json:"videoQualities"`
		Resources      []models.LectureResource `json:"resources"`
		IsFree         *bool                    `json:"isFree"`
		IsPublished    *bool                    `json:"isPublished"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	ok := cc.Stores.Lectures.Update(lectureID, func(lecture *models.Lecture) {
		if input.Title != "" {
			lecture.Title = input.Title
		}
		if input.Description != "" {
			lecture.Description = input.Description
		}
		if input.VideoURL != "" {
			lecture.VideoURL = input.VideoURL
		}
		if input.VideoDuration != nil {
			lecture.VideoDuration = *input.VideoDuration
		}
		if input.VideoQualities != nil {
			lecture.VideoQualities = input.VideoQualities
		}
		if input.Resources != nil {
			lecture.Resources = input.Resources
		}
		if input.IsFree != nil {
			lecture.IsFree = *input.IsFree
		}
		if input.IsPublished != nil {
			lecture.IsPublished = *input.IsPublished
		}
	})
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lecture not found",
		})
	}

	lecture, _ := cc.Stores.Lectures.FetchByID(lectureID)
	return c.JSON(fiber.Map{
		"message": "Lecture updated",
		"lecture": lecture,
	})
}

// DeleteLecture is a plain delete. The parent module's lecture list and
// counts go stale until an integrity repair runs; the integrity page
// surfaces the drift.
func (cc *CoursesController) DeleteLecture(c *fiber.Ctx) error {
	lectureID := c.Params("lectureId")

	if !cc.Stores.Lectures.Delete(lectureID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lecture not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lecture deleted",
	})
}

func (cc *CoursesController) ReorderLectures(c *fiber.Ctx) error {
	moduleID := c.Params("moduleId")

	var input struct {
		LectureIDs []string `json:"lectureIds"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if !cc.Stores.ReorderLectures(moduleID, input.LectureIDs) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Module not found",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Lectures reordered",
		"lectures": cc.Stores.Lectures.FetchByModuleID(moduleID),
	})
}
