package store

import (
	"bytes"
	"io"
	"log"
	"sync"
	"testing"

	"coursepanel/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	reg, err := NewRegistry(db, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return reg
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	reg := newTestRegistry(t)

	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, reg.Courses.Add(models.Course{Title: "Course"}))
	}

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids)
}

func TestNextIDSkipsGapsAfterDeletion(t *testing.T) {
	reg := newTestRegistry(t)

	reg.Courses.Add(models.Course{Title: "A"})
	id2 := reg.Courses.Add(models.Course{Title: "B"})
	reg.Courses.Delete("1")

	id3 := reg.Courses.Add(models.Course{Title: "C"})

	// Max numeric ID plus one, not first free slot.
	assert.Equal(t, "2", id2)
	assert.Equal(t, "3", id3)
}

func TestInitializeSeedsOnlyWhenEmpty(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Initialize(DefaultSeed())

	assert.NotZero(t, reg.Courses.Count())

	// Operator edit, then a second Initialize must not clobber it.
	ok := reg.Courses.Update("1", func(c *models.Course) { c.Title = "Edited" })
	require.True(t, ok)

	reg.Initialize(DefaultSeed())

	course, ok := reg.Courses.FetchByID("1")
	require.True(t, ok)
	assert.Equal(t, "Edited", course.Title)
}

func TestUpdateUnknownIDReturnsFalse(t *testing.T) {
	reg := newTestRegistry(t)

	assert.False(t, reg.Courses.Update("99", func(c *models.Course) { c.Title = "x" }))
	assert.False(t, reg.Courses.Delete("99"))
	assert.False(t, reg.Modules.Update("99", func(m *models.Module) {}))
	assert.False(t, reg.Lectures.Delete("99"))
}

func TestUpdateRefreshesUpdatedAt(t *testing.T) {
	reg := newTestRegistry(t)

	id := reg.Courses.Add(models.Course{Title: "Course"})
	before, _ := reg.Courses.FetchByID(id)

	ok := reg.Courses.Update(id, func(c *models.Course) { c.Price = 10 })
	require.True(t, ok)

	after, _ := reg.Courses.FetchByID(id)
	assert.Equal(t, 10.0, after.Price)
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))
}

func TestAddModuleUpdatesParentAtomically(t *testing.T) {
	reg := newTestRegistry(t)

	courseID := reg.Courses.Add(models.Course{Title: "C1"})
	moduleID, ok := reg.AddModule(courseID, models.Module{Title: "M1"})
	require.True(t, ok)

	course, _ := reg.Courses.FetchByID(courseID)
	assert.Equal(t, 1, course.ModuleCount)
	assert.Equal(t, []string{moduleID}, course.Modules)

	module, ok := reg.Modules.FetchByID(moduleID)
	require.True(t, ok)
	assert.Equal(t, courseID, module.CourseID)
}

func TestAddModuleUnknownCourse(t *testing.T) {
	reg := newTestRegistry(t)

	_, ok := reg.AddModule("99", models.Module{Title: "M"})
	assert.False(t, ok)
	assert.Zero(t, reg.Modules.Count())
}

func TestAddLectureLeavesCourseCountsStale(t *testing.T) {
	reg := newTestRegistry(t)

	courseID := reg.Courses.Add(models.Course{Title: "C1"})
	moduleID, _ := reg.AddModule(courseID, models.Module{Title: "M1"})

	lectureID, ok := reg.AddLecture(moduleID, models.Lecture{Title: "L1", VideoDuration: 30})
	require.True(t, ok)

	module, _ := reg.Modules.FetchByID(moduleID)
	assert.Equal(t, 1, module.LectureCount)
	assert.Equal(t, []string{lectureID}, module.Lectures)
	assert.Equal(t, 30, module.Duration)

	lecture, _ := reg.Lectures.FetchByID(lectureID)
	assert.Equal(t, moduleID, lecture.ModuleID)
	assert.Equal(t, courseID, lecture.CourseID)

	// The grandparent course is deliberately not kept in sync here.
	course, _ := reg.Courses.FetchByID(courseID)
	assert.Equal(t, 0, course.LectureCount)
	assert.Equal(t, 0, course.Duration)
}

func TestReorderModules(t *testing.T) {
	reg := newTestRegistry(t)

	courseID := reg.Courses.Add(models.Course{Title: "C1"})
	a, _ := reg.AddModule(courseID, models.Module{Title: "A"})
	b, _ := reg.AddModule(courseID, models.Module{Title: "B"})
	c, _ := reg.AddModule(courseID, models.Module{Title: "C"})

	require.True(t, reg.ReorderModules(courseID, []string{c, a, b}))

	modules := reg.Modules.FetchByCourseID(courseID)
	titles := []string{modules[0].Title, modules[1].Title, modules[2].Title}
	assert.Equal(t, []string{"C", "A", "B"}, titles)

	course, _ := reg.Courses.FetchByID(courseID)
	assert.Equal(t, []string{c, a, b}, course.Modules)
}

func TestReorderLectures(t *testing.T) {
	reg := newTestRegistry(t)

	courseID := reg.Courses.Add(models.Course{Title: "C1"})
	moduleID, _ := reg.AddModule(courseID, models.Module{Title: "M1"})
	a, _ := reg.AddLecture(moduleID, models.Lecture{Title: "A"})
	b, _ := reg.AddLecture(moduleID, models.Lecture{Title: "B"})

	require.True(t, reg.ReorderLectures(moduleID, []string{b, a}))

	lectures := reg.Lectures.FetchByModuleID(moduleID)
	assert.Equal(t, "B", lectures[0].Title)
	assert.Equal(t, "A", lectures[1].Title)
}

func TestEnrollAndUnenroll(t *testing.T) {
	reg := newTestRegistry(t)

	courseID := reg.Courses.Add(models.Course{Title: "C1", Price: 25})
	userID := reg.Users.Add(models.User{Email: "u@example.com", Username: "u"})

	require.True(t, reg.EnrollUser(userID, courseID))

	user, _ := reg.Users.FetchByID(userID)
	assert.Equal(t, []string{courseID}, user.EnrolledCourses)
	assert.Equal(t, 1, user.CoursesEnrolled)

	course, _ := reg.Courses.FetchByID(courseID)
	assert.Equal(t, 1, course.EnrollmentCount)
	assert.Equal(t, 25.0, course.Revenue)

	// Enrolling twice is a no-op.
	require.True(t, reg.EnrollUser(userID, courseID))
	user, _ = reg.Users.FetchByID(userID)
	assert.Equal(t, 1, user.CoursesEnrolled)

	require.True(t, reg.UnenrollUser(userID, courseID))
	user, _ = reg.Users.FetchByID(userID)
	assert.Empty(t, user.EnrolledCourses)
	assert.Equal(t, 0, user.CoursesEnrolled)

	course, _ = reg.Courses.FetchByID(courseID)
	assert.Equal(t, 0, course.EnrollmentCount)
}

func TestSnapshotPersistenceRoundTrip(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	reg, err := NewRegistry(db, log.New(io.Discard, "", 0))
	require.NoError(t, err)

	courseID := reg.Courses.Add(models.Course{Title: "Persisted"})
	moduleID, _ := reg.AddModule(courseID, models.Module{Title: "M"})
	reg.AddLecture(moduleID, models.Lecture{Title: "L", VideoDuration: 15})

	// A second registry over the same database sees the same state.
	reloaded, err := NewRegistry(db, log.New(io.Discard, "", 0))
	require.NoError(t, err)

	course, ok := reloaded.Courses.FetchByID(courseID)
	require.True(t, ok)
	assert.Equal(t, "Persisted", course.Title)
	assert.Equal(t, []string{moduleID}, course.Modules)
	assert.Equal(t, 1, reloaded.Lectures.Count())
}

func TestRestoreAllSwapsStateAtomically(t *testing.T) {
	reg := newTestRegistry(t)

	// Two full states whose course title and user name carry the same tag.
	// A reader must never see the tags disagree mid-restore.
	tagged := func(tag string) State {
		return State{
			Courses: []models.Course{{ID: "1", Title: tag}},
			Users:   []models.User{{ID: "1", Name: tag}},
		}
	}
	reg.RestoreAll(tagged("alpha"))

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if i%2 == 0 {
				reg.RestoreAll(tagged("alpha"))
			} else {
				reg.RestoreAll(tagged("beta"))
			}
		}
	}()

	for i := 0; i < 200; i++ {
		state := reg.SnapshotAll()
		require.Len(t, state.Courses, 1)
		require.Len(t, state.Users, 1)
		assert.Equal(t, state.Courses[0].Title, state.Users[0].Name)
	}

	close(done)
	wg.Wait()
}

func TestReplaceAllSwapsCollection(t *testing.T) {
	reg := newTestRegistry(t)

	reg.Courses.Add(models.Course{Title: "Old"})
	reg.Courses.ReplaceAll([]models.Course{
		{ID: "7", Title: "New A"},
		{ID: "8", Title: "New B"},
	})

	assert.Equal(t, 2, reg.Courses.Count())
	_, ok := reg.Courses.FetchByID("1")
	assert.False(t, ok)
	course, ok := reg.Courses.FetchByID("8")
	require.True(t, ok)
	assert.Equal(t, "New B", course.Title)
}

func TestPersistFailureIsLogged(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	reg, err := NewRegistry(db, log.New(&buf, "", 0))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// The write still lands in memory; the failed snapshot must be logged.
	id := reg.Courses.Add(models.Course{Title: "Unsaved"})
	_, ok := reg.Courses.FetchByID(id)
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "snapshot persist failed")
}

func TestQuizQuestionLifecycle(t *testing.T) {
	reg := newTestRegistry(t)

	quizID := reg.Quizzes.Add(models.Quiz{Title: "Q1", ModuleID: "1"})

	q1, ok := reg.Quizzes.AddQuestion(quizID, models.QuizQuestion{
		Question: "2+2?",
		Type:     "single",
		Options:  []models.QuizOption{{Text: "4", Correct: true}, {Text: "5"}},
	})
	require.True(t, ok)
	q2, _ := reg.Quizzes.AddQuestion(quizID, models.QuizQuestion{Question: "3+3?"})

	assert.Equal(t, "1", q1)
	assert.Equal(t, "2", q2)

	quiz, _ := reg.Quizzes.FetchByID(quizID)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, 0, quiz.Questions[0].Order)
	assert.Equal(t, 1, quiz.Questions[1].Order)
	assert.True(t, quiz.Questions[0].Options[0].Correct)
}
