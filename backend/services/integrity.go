package services

import (
	"fmt"

	"coursepanel/backend/models"
	"coursepanel/backend/store"
)

// ValidationResult is the outcome of validating one entity. Errors are
// broken references; warnings are denormalized counts out of sync.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// EntityFinding is a per-entity entry in the full validation report.
type EntityFinding struct {
	EntityType string   `json:"entityType"`
	EntityID   string   `json:"entityId"`
	Title      string   `json:"title"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
}

// IntegrityReport aggregates a full validation pass over every store.
type IntegrityReport struct {
	CoursesChecked  int             `json:"coursesChecked"`
	ModulesChecked  int             `json:"modulesChecked"`
	LecturesChecked int             `json:"lecturesChecked"`
	TotalErrors     int             `json:"totalErrors"`
	TotalWarnings   int             `json:"totalWarnings"`
	Details         []EntityFinding `json:"details"`
}

// IntegrityService validates and repairs the cross-store invariants the
// normal mutation paths do not reliably maintain.
type IntegrityService struct {
	stores *store.Registry
}

func NewIntegrityService(stores *store.Registry) *IntegrityService {
	return &IntegrityService{stores: stores}
}

func newResult() ValidationResult {
	return ValidationResult{IsValid: true, Errors: []string{}, Warnings: []string{}}
}

func (r *ValidationResult) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.IsValid = false
}

func (r *ValidationResult) addWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateCourseIntegrity checks one course: module references, the
// denormalized counts and duration, and the instructor link.
func (s *IntegrityService) ValidateCourseIntegrity(courseID string) ValidationResult {
	result := newResult()

	course, ok := s.stores.Courses.FetchByID(courseID)
	if !ok {
		result.addError("course %s does not exist", courseID)
		return result
	}

	for _, moduleID := range course.Modules {
		module, ok := s.stores.Modules.FetchByID(moduleID)
		if !ok {
			result.addError("course %s references missing module %s", courseID, moduleID)
			continue
		}
		if module.CourseID != courseID {
			result.addError("module %s is listed on course %s but belongs to course %s",
				moduleID, courseID, module.CourseID)
		}
	}

	modules := s.stores.Modules.FetchByCourseID(courseID)
	if course.ModuleCount != len(modules) {
		result.addWarning("course %s moduleCount is %d but %d modules reference it",
			courseID, course.ModuleCount, len(modules))
	}

	lectures := s.stores.Lectures.FetchByCourseID(courseID)
	if course.LectureCount != len(lectures) {
		result.addWarning("course %s lectureCount is %d but %d lectures reference it",
			courseID, course.LectureCount, len(lectures))
	}

	duration := 0
	for _, lecture := range lectures {
		duration += lecture.VideoDuration
	}
	if course.Duration != duration {
		result.addWarning("course %s duration is %d but its lectures total %d",
			courseID, course.Duration, duration)
	}

	if course.InstructorID == "" {
		result.addWarning("course %s has no instructor assigned", courseID)
	} else if _, ok := s.stores.Users.FetchByID(course.InstructorID); !ok {
		result.addError("course %s references missing instructor %s", courseID, course.InstructorID)
	}

	return result
}

// ValidateModuleIntegrity checks one module: its course back-reference,
// lecture references, and its denormalized count and duration.
func (s *IntegrityService) ValidateModuleIntegrity(moduleID string) ValidationResult {
	result := newResult()

	module, ok := s.stores.Modules.FetchByID(moduleID)
	if !ok {
		result.addError("module %s does not exist", moduleID)
		return result
	}

	if module.CourseID == "" {
		result.addError("module %s has no course reference", moduleID)
	} else if _, ok := s.stores.Courses.FetchByID(module.CourseID); !ok {
		result.addError("module %s references missing course %s", moduleID, module.CourseID)
	}

	for _, lectureID := range module.Lectures {
		lecture, ok := s.stores.Lectures.FetchByID(lectureID)
		if !ok {
			result.addError("module %s references missing lecture %s", moduleID, lectureID)
			continue
		}
		if lecture.ModuleID != moduleID {
			result.addError("lecture %s is listed on module %s but belongs to module %s",
				lectureID, moduleID, lecture.ModuleID)
		}
	}

	lectures := s.stores.Lectures.FetchByModuleID(moduleID)
	if module.LectureCount != len(lectures) {
		result.addWarning("module %s lectureCount is %d but %d lectures reference it",
			moduleID, module.LectureCount, len(lectures))
	}

	duration := 0
	for _, lecture := range lectures {
		duration += lecture.VideoDuration
	}
	if module.Duration != duration {
		result.addWarning("module %s duration is %d but its lectures total %d",
			moduleID, module.Duration, duration)
	}

	return result
}

// ValidateLectureIntegrity checks one lecture's back-references and that
// its parent module actually lists it.
func (s *IntegrityService) ValidateLectureIntegrity(lectureID string) ValidationResult {
	result := newResult()

	lecture, ok := s.stores.Lectures.FetchByID(lectureID)
	if !ok {
		result.addError("lecture %s does not exist", lectureID)
		return result
	}

	module, moduleOK := s.stores.Modules.FetchByID(lecture.ModuleID)
	if !moduleOK {
		result.addError("lecture %s references missing module %s", lectureID, lecture.ModuleID)
	}

	if _, ok := s.stores.Courses.FetchByID(lecture.CourseID); !ok {
		result.addError("lecture %s references missing course %s", lectureID, lecture.CourseID)
	}

	if moduleOK {
		listed := false
		for _, id := range module.Lectures {
			if id == lectureID {
				listed = true
				break
			}
		}
		if !listed {
			result.addWarning("lecture %s is not listed on its module %s", lectureID, lecture.ModuleID)
		}
		if module.CourseID != lecture.CourseID {
			result.addWarning("lecture %s courseId %s disagrees with its module's course %s",
				lectureID, lecture.CourseID, module.CourseID)
		}
	}

	return result
}

// ValidateAllData runs every validator over every record. It is a pure
// read; nothing is mutated.
func (s *IntegrityService) ValidateAllData() IntegrityReport {
	report := IntegrityReport{Details: []EntityFinding{}}

	record := func(entityType, id, title string, result ValidationResult) {
		report.TotalErrors += len(result.Errors)
		report.TotalWarnings += len(result.Warnings)
		if len(result.Errors) > 0 || len(result.Warnings) > 0 {
			report.Details = append(report.Details, EntityFinding{
				EntityType: entityType,
				EntityID:   id,
				Title:      title,
				Errors:     result.Errors,
				Warnings:   result.Warnings,
			})
		}
	}

	for _, course := range s.stores.Courses.FetchAll() {
		report.CoursesChecked++
		record("course", course.ID, course.Title, s.ValidateCourseIntegrity(course.ID))
	}
	for _, module := range s.stores.Modules.FetchAll() {
		report.ModulesChecked++
		record("module", module.ID, module.Title, s.ValidateModuleIntegrity(module.ID))
	}
	for _, lecture := range s.stores.Lectures.FetchAll() {
		report.LecturesChecked++
		record("lecture", lecture.ID, lecture.Title, s.ValidateLectureIntegrity(lecture.ID))
	}

	return report
}

// RepairDataIntegrity recomputes the denormalized counts and durations for
// every module and course from the live children, writing changes back
// through the stores' own update methods. It also recounts user
// enrollments. Broken references are not touched here. Returns the repair
// actions taken.
func (s *IntegrityService) RepairDataIntegrity() []string {
	actions := []string{}

	for _, module := range s.stores.Modules.FetchAll() {
		lectures := s.stores.Lectures.FetchByModuleID(module.ID)
		duration := 0
		for _, lecture := range lectures {
			duration += lecture.VideoDuration
		}

		if module.LectureCount != len(lectures) || module.Duration != duration {
			count := len(lectures)
			s.stores.Modules.Update(module.ID, func(m *models.Module) {
				m.LectureCount = count
				m.Duration = duration
			})
			actions = append(actions, fmt.Sprintf(
				"module %s: lectureCount %d -> %d, duration %d -> %d",
				module.ID, module.LectureCount, count, module.Duration, duration))
		}
	}

	for _, course := range s.stores.Courses.FetchAll() {
		modules := s.stores.Modules.FetchByCourseID(course.ID)
		lectures := s.stores.Lectures.FetchByCourseID(course.ID)
		duration := 0
		for _, lecture := range lectures {
			duration += lecture.VideoDuration
		}

		if course.ModuleCount != len(modules) || course.LectureCount != len(lectures) || course.Duration != duration {
			moduleCount := len(modules)
			lectureCount := len(lectures)
			s.stores.Courses.Update(course.ID, func(c *models.Course) {
				c.ModuleCount = moduleCount
				c.LectureCount = lectureCount
				c.Duration = duration
			})
			actions = append(actions, fmt.Sprintf(
				"course %s: moduleCount %d -> %d, lectureCount %d -> %d, duration %d -> %d",
				course.ID, course.ModuleCount, moduleCount,
				course.LectureCount, lectureCount, course.Duration, duration))
		}
	}

	for _, user := range s.stores.Users.FetchAll() {
		if user.CoursesEnrolled != len(user.EnrolledCourses) {
			count := len(user.EnrolledCourses)
			s.stores.Users.Update(user.ID, func(u *models.User) {
				u.CoursesEnrolled = count
			})
			actions = append(actions, fmt.Sprintf(
				"user %s: coursesEnrolled %d -> %d", user.ID, user.CoursesEnrolled, count))
		}
	}

	return actions
}

// CleanupInvalidCourses deletes courses with a missing or placeholder
// title or no instructor. Destructive; only ever runs on explicit operator
// request.
func (s *IntegrityService) CleanupInvalidCourses() (int, []string) {
	reasons := []string{}
	cleaned := 0

	for _, course := range s.stores.Courses.FetchAll() {
		reason := ""
		switch {
		case course.Title == "" || course.Title == "Untitled Course":
			reason = fmt.Sprintf("course %s has no usable title", course.ID)
		case course.InstructorID == "":
			reason = fmt.Sprintf("course %s has no instructor", course.ID)
		}
		if reason == "" {
			continue
		}
		if s.stores.Courses.Delete(course.ID) {
			cleaned++
			reasons = append(reasons, reason)
		}
	}

	return cleaned, reasons
}

// DeleteCourseWithCascade removes every descendant lecture, every child
// module (with their quizzes), then the course itself, then drops the
// course from user enrollments, so nothing anywhere still references the
// deleted ID. This is the deletion path the admin routes use.
func (s *IntegrityService) DeleteCourseWithCascade(courseID string) bool {
	if _, ok := s.stores.Courses.FetchByID(courseID); !ok {
		return false
	}

	for _, lecture := range s.stores.Lectures.FetchByCourseID(courseID) {
		s.stores.Lectures.Delete(lecture.ID)
	}
	for _, module := range s.stores.Modules.FetchByCourseID(courseID) {
		for _, quiz := range s.stores.Quizzes.FetchByModuleID(module.ID) {
			s.stores.Quizzes.Delete(quiz.ID)
		}
		s.stores.Modules.Delete(module.ID)
	}
	s.stores.Courses.Delete(courseID)

	for _, user := range s.stores.Users.FetchAll() {
		enrolled := false
		for _, id := range user.EnrolledCourses {
			if id == courseID {
				enrolled = true
				break
			}
		}
		if enrolled {
			s.stores.UnenrollUser(user.ID, courseID)
		}
	}

	return true
}

// DeleteModuleWithCascade removes the module's lectures and quizzes, the
// module itself, and its entry on the parent course.
func (s *IntegrityService) DeleteModuleWithCascade(moduleID string) bool {
	module, ok := s.stores.Modules.FetchByID(moduleID)
	if !ok {
		return false
	}

	for _, lecture := range s.stores.Lectures.FetchByModuleID(moduleID) {
		s.stores.Lectures.Delete(lecture.ID)
	}
	for _, quiz := range s.stores.Quizzes.FetchByModuleID(moduleID) {
		s.stores.Quizzes.Delete(quiz.ID)
	}
	s.stores.Modules.Delete(moduleID)

	s.stores.Courses.Update(module.CourseID, func(c *models.Course) {
		kept := c.Modules[:0]
		for _, id := range c.Modules {
			if id != moduleID {
				kept = append(kept, id)
			}
		}
		c.Modules = kept
		c.ModuleCount = len(kept)
	})

	return true
}
