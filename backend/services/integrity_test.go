package services

import (
	"io"
	"log"
	"testing"

	"coursepanel/backend/models"
	"coursepanel/backend/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStores(t *testing.T) *store.Registry {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	reg, err := store.NewRegistry(db, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return reg
}

func TestValidateModuleWithMissingCourse(t *testing.T) {
	stores := newTestStores(t)
	integrity := NewIntegrityService(stores)

	courseID := stores.Courses.Add(models.Course{Title: "Doomed"})
	moduleID, _ := stores.AddModule(courseID, models.Module{Title: "Orphan"})

	// Plain delete leaves the module dangling.
	require.True(t, stores.Courses.Delete(courseID))

	result := integrity.ValidateModuleIntegrity(moduleID)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "missing course "+courseID)
	assert.Empty(t, result.Warnings)
}

func TestValidateCourseCountsDrift(t *testing.T) {
	stores := newTestStores(t)
	integrity := NewIntegrityService(stores)

	instructorID := stores.Users.Add(models.User{Email: "i@example.com", Username: "i", Name: "Instructor"})
	courseID := stores.Courses.Add(models.Course{Title: "C", InstructorID: instructorID})
	moduleID, _ := stores.AddModule(courseID, models.Module{Title: "M"})
	stores.AddLecture(moduleID, models.Lecture{Title: "L", VideoDuration: 20})

	// lectureCount and duration on the course are stale by design.
	result := integrity.ValidateCourseIntegrity(courseID)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Warnings, 2)
}

func TestValidateCourseInstructor(t *testing.T) {
	stores := newTestStores(t)
	integrity := NewIntegrityService(stores)

	noInstructor := stores.Courses.Add(models.Course{Title: "A"})
	result := integrity.ValidateCourseIntegrity(noInstructor)
	assert.True(t, result.IsValid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no instructor")

	dangling := stores.Courses.Add(models.Course{Title: "B", InstructorID: "404"})
	result = integrity.ValidateCourseIntegrity(dangling)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "missing instructor 404")
}

func TestValidateAllDataIsPureRead(t *testing.T) {
	stores := newTestStores(t)
	stores.Initialize(store.DefaultSeed())
	integrity := NewIntegrityService(stores)

	before := stores.Courses.FetchAll()
	report := integrity.ValidateAllData()
	after := stores.Courses.FetchAll()

	assert.Equal(t, before, after)
	assert.Equal(t, len(before), report.CoursesChecked)
	assert.Equal(t, stores.Modules.Count(), report.ModulesChecked)
	assert.Equal(t, stores.Lectures.Count(), report.LecturesChecked)

	// The built-in seed is consistent.
	assert.Zero(t, report.TotalErrors)
	assert.Zero(t, report.TotalWarnings)
}

func TestRepairDataIntegrity(t *testing.T) {
	stores := newTestStores(t)
	integrity := NewIntegrityService(stores)

	courseID := stores.Courses.Add(models.Course{Title: "C1"})
	moduleID, _ := stores.AddModule(courseID, models.Module{Title: "M1"})
	stores.AddLecture(moduleID, models.Lecture{Title: "L1", VideoDuration: 45})

	course, _ := stores.Courses.FetchByID(courseID)
	require.Equal(t, 0, course.LectureCount)

	actions := integrity.RepairDataIntegrity()
	assert.NotEmpty(t, actions)

	course, _ = stores.Courses.FetchByID(courseID)
	assert.Equal(t, 1, course.ModuleCount)
	assert.Equal(t, 1, course.LectureCount)
	assert.Equal(t, 45, course.Duration)

	module, _ := stores.Modules.FetchByID(moduleID)
	assert.Equal(t, 1, module.LectureCount)
	assert.Equal(t, 45, module.Duration)

	// A second pass finds nothing left to repair.
	assert.Empty(t, integrity.RepairDataIntegrity())
}

func TestRepairRecountsUserEnrollments(t *testing.T) {
	stores := newTestStores(t)
	integrity := NewIntegrityService(stores)

	userID := stores.Users.Add(models.User{Email: "u@example.com", Username: "u"})
	stores.Users.Update(userID, func(u *models.User) {
		u.EnrolledCourses = []string{"1", "2"}
		u.CoursesEnrolled = 7 // drifted
	})

	actions := integrity.RepairDataIntegrity()
	assert.Len(t, actions, 1)

	user, _ := stores.Users.FetchByID(userID)
	assert.Equal(t, 2, user.CoursesEnrolled)
}

func TestCleanupInvalidCourses(t *testing.T) {
	stores := newTestStores(t)
	integrity := NewIntegrityService(stores)

	instructorID := stores.Users.Add(models.User{Email: "i@example.com", Username: "i"})
	keep := stores.Courses.Add(models.Course{Title: "Valid", InstructorID: instructorID})
	stores.Courses.Add(models.Course{Title: ""})
	stores.Courses.Add(models.Course{Title: "Untitled Course", InstructorID: instructorID})
	stores.Courses.Add(models.Course{Title: "No Instructor"})

	cleaned, reasons := integrity.CleanupInvalidCourses()
	assert.Equal(t, 3, cleaned)
	assert.Len(t, reasons, 3)

	assert.Equal(t, 1, stores.Courses.Count())
	_, ok := stores.Courses.FetchByID(keep)
	assert.True(t, ok)
}

func TestDeleteCourseWithCascade(t *testing.T) {
	stores := newTestStores(t)
	integrity := NewIntegrityService(stores)

	courseID := stores.Courses.Add(models.Course{Title: "C1"})
	m1, _ := stores.AddModule(courseID, models.Module{Title: "M1"})
	m2, _ := stores.AddModule(courseID, models.Module{Title: "M2"})
	stores.AddLecture(m1, models.Lecture{Title: "L1"})
	stores.AddLecture(m2, models.Lecture{Title: "L2"})
	stores.Quizzes.Add(models.Quiz{Title: "Q1", ModuleID: m1})

	userID := stores.Users.Add(models.User{Email: "u@example.com", Username: "u"})
	require.True(t, stores.EnrollUser(userID, courseID))

	require.True(t, integrity.DeleteCourseWithCascade(courseID))

	// No store holds any record referencing the deleted course.
	_, ok := stores.Courses.FetchByID(courseID)
	assert.False(t, ok)
	assert.Empty(t, stores.Modules.FetchByCourseID(courseID))
	assert.Empty(t, stores.Lectures.FetchByCourseID(courseID))
	assert.Empty(t, stores.Quizzes.FetchByModuleID(m1))
	assert.Zero(t, stores.Modules.Count())
	assert.Zero(t, stores.Lectures.Count())
	assert.Zero(t, stores.Quizzes.Count())

	user, _ := stores.Users.FetchByID(userID)
	assert.NotContains(t, user.EnrolledCourses, courseID)
	assert.Equal(t, 0, user.CoursesEnrolled)
}

func TestDeleteCourseWithCascadeUnknownID(t *testing.T) {
	stores := newTestStores(t)
	integrity := NewIntegrityService(stores)

	assert.False(t, integrity.DeleteCourseWithCascade("99"))
}

func TestDeleteModuleWithCascade(t *testing.T) {
	stores := newTestStores(t)
	integrity := NewIntegrityService(stores)

	courseID := stores.Courses.Add(models.Course{Title: "C1"})
	m1, _ := stores.AddModule(courseID, models.Module{Title: "M1"})
	m2, _ := stores.AddModule(courseID, models.Module{Title: "M2"})
	stores.AddLecture(m1, models.Lecture{Title: "L1"})
	stores.Quizzes.Add(models.Quiz{Title: "Q1", ModuleID: m1})

	require.True(t, integrity.DeleteModuleWithCascade(m1))

	_, ok := stores.Modules.FetchByID(m1)
	assert.False(t, ok)
	assert.Zero(t, stores.Lectures.Count())
	assert.Zero(t, stores.Quizzes.Count())

	course, _ := stores.Courses.FetchByID(courseID)
	assert.Equal(t, []string{m2}, course.Modules)
	assert.Equal(t, 1, course.ModuleCount)
}
