package store

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"coursepanel/backend/models"

	"gorm.io/gorm"
)

// SnapshotVersion is the schema version written into every persisted
// snapshot envelope. Bump it when a record shape changes incompatibly.
const SnapshotVersion = "1.0.0"

// Snapshot is one persisted store state, a single row per store. The
// payload is the JSON envelope {state, version}.
type Snapshot struct {
	Key       string `gorm:"primaryKey"`
	Payload   string
	UpdatedAt time.Time
}

type snapshotEnvelope struct {
	State   json.RawMessage `json:"state"`
	Version string          `json:"version"`
}

// Registry holds every entity store behind one mutex so each operation,
// including the parent/child dual-writes, is atomic with respect to every
// other operation. All edits happen in memory and are written through to
// the snapshot table on every mutation.
type Registry struct {
	mu     sync.Mutex
	db     *gorm.DB
	logger *log.Logger

	Courses   *CourseStore
	Modules   *ModuleStore
	Lectures  *LectureStore
	Quizzes   *QuizStore
	Users     *UserStore
	Analytics *AnalyticsStore
}

func NewRegistry(db *gorm.DB, logger *log.Logger) (*Registry, error) {
	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	r := &Registry{db: db, logger: logger}
	r.Courses = &CourseStore{reg: r}
	r.Modules = &ModuleStore{reg: r}
	r.Lectures = &LectureStore{reg: r}
	r.Quizzes = &QuizStore{reg: r}
	r.Users = &UserStore{reg: r}
	r.Analytics = &AnalyticsStore{reg: r}

	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) load() error {
	if err := r.loadSnapshot("courses", &r.Courses.items); err != nil {
		return err
	}
	if err := r.loadSnapshot("modules", &r.Modules.items); err != nil {
		return err
	}
	if err := r.loadSnapshot("lectures", &r.Lectures.items); err != nil {
		return err
	}
	if err := r.loadSnapshot("quizzes", &r.Quizzes.items); err != nil {
		return err
	}
	if err := r.loadSnapshot("users", &r.Users.items); err != nil {
		return err
	}
	return r.loadSnapshot("analytics", &r.Analytics.current)
}

func (r *Registry) loadSnapshot(key string, out interface{}) error {
	var snap Snapshot
	err := r.db.Where("key = ?", key).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // nothing persisted yet
	}
	if err != nil {
		return err
	}

	var envelope snapshotEnvelope
	if err := json.Unmarshal([]byte(snap.Payload), &envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.State, out)
}

// persist is called with the registry lock held. A failed write leaves the
// in-memory state authoritative and the durable snapshot stale, so every
// failure is logged.
func (r *Registry) persist(key string, state interface{}) {
	raw, err := json.Marshal(state)
	if err != nil {
		r.logger.Printf("snapshot marshal failed for %s: %v", key, err)
		return
	}
	payload, err := json.Marshal(snapshotEnvelope{State: raw, Version: SnapshotVersion})
	if err != nil {
		r.logger.Printf("snapshot marshal failed for %s: %v", key, err)
		return
	}
	if err := r.db.Save(&Snapshot{Key: key, Payload: string(payload), UpdatedAt: time.Now()}).Error; err != nil {
		r.logger.Printf("snapshot persist failed for %s: %v", key, err)
	}
}

// Initialize seeds every store that is still empty. Stores that already
// hold persisted data are left alone, so repeated startups never clobber
// operator edits.
func (r *Registry) Initialize(seed SeedData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Courses.items) == 0 && len(seed.Courses) > 0 {
		r.Courses.items = seed.Courses
		r.persist("courses", r.Courses.items)
	}
	if len(r.Modules.items) == 0 && len(seed.Modules) > 0 {
		r.Modules.items = seed.Modules
		r.persist("modules", r.Modules.items)
	}
	if len(r.Lectures.items) == 0 && len(seed.Lectures) > 0 {
		r.Lectures.items = seed.Lectures
		r.persist("lectures", r.Lectures.items)
	}
	if len(r.Quizzes.items) == 0 && len(seed.Quizzes) > 0 {
		r.Quizzes.items = seed.Quizzes
		r.persist("quizzes", r.Quizzes.items)
	}
	if len(r.Users.items) == 0 && len(seed.Users) > 0 {
		r.Users.items = seed.Users
		r.persist("users", r.Users.items)
	}
}

// State is a full copy of every store's contents, taken and applied as one
// unit by SnapshotAll and RestoreAll.
type State struct {
	Courses   []models.Course
	Modules   []models.Module
	Lectures  []models.Lecture
	Quizzes   []models.Quiz
	Users     []models.User
	Analytics models.Analytics
}

// SnapshotAll copies every store's state in one locked read, so the result
// is consistent even while other requests mutate the registry.
func (r *Registry) SnapshotAll() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return State{
		Courses:   append([]models.Course{}, r.Courses.items...),
		Modules:   append([]models.Module{}, r.Modules.items...),
		Lectures:  append([]models.Lecture{}, r.Lectures.items...),
		Quizzes:   append([]models.Quiz{}, r.Quizzes.items...),
		Users:     append([]models.User{}, r.Users.items...),
		Analytics: r.Analytics.current,
	}
}

// RestoreAll replaces every store's state in one locked update and persists
// each snapshot. No reader ever observes a mix of old and new state.
func (r *Registry) RestoreAll(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Courses.items = append([]models.Course{}, s.Courses...)
	r.persist("courses", r.Courses.items)
	r.Modules.items = append([]models.Module{}, s.Modules...)
	r.persist("modules", r.Modules.items)
	r.Lectures.items = append([]models.Lecture{}, s.Lectures...)
	r.persist("lectures", r.Lectures.items)
	r.Quizzes.items = append([]models.Quiz{}, s.Quizzes...)
	r.persist("quizzes", r.Quizzes.items)
	r.Users.items = append([]models.User{}, s.Users...)
	r.persist("users", r.Users.items)
	r.Analytics.current = s.Analytics
	r.persist("analytics", r.Analytics.current)
}

// AddModule creates the module and updates its parent course (ordered ID
// list plus moduleCount) in one locked state update. Reports false when the
// course does not exist.
func (r *Registry) AddModule(courseID string, module models.Module) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	course := r.Courses.find(courseID)
	if course == nil {
		return "", false
	}

	module.CourseID = courseID
	module.Order = len(course.Modules)
	id := r.Modules.add(module)

	course.Modules = append(course.Modules, id)
	course.ModuleCount = len(course.Modules)
	course.UpdatedAt = time.Now()
	r.persist("courses", r.Courses.items)

	return id, true
}

// AddLecture creates the lecture and updates its parent module. The
// grandparent course's lectureCount and duration are intentionally left
// stale; the integrity repair routine recomputes them.
func (r *Registry) AddLecture(moduleID string, lecture models.Lecture) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	module := r.Modules.find(moduleID)
	if module == nil {
		return "", false
	}

	lecture.ModuleID = moduleID
	lecture.CourseID = module.CourseID
	lecture.Order = len(module.Lectures)
	id := r.Lectures.add(lecture)

	module.Lectures = append(module.Lectures, id)
	module.LectureCount = len(module.Lectures)
	module.Duration += lecture.VideoDuration
	module.UpdatedAt = time.Now()
	r.persist("modules", r.Modules.items)

	return id, true
}

// ReorderModules rewrites the course's ordered module list and reassigns
// each module's order field to its index in orderedIDs.
func (r *Registry) ReorderModules(courseID string, orderedIDs []string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	course := r.Courses.find(courseID)
	if course == nil {
		return false
	}

	for i, id := range orderedIDs {
		if module := r.Modules.find(id); module != nil && module.CourseID == courseID {
			module.Order = i
			module.UpdatedAt = time.Now()
		}
	}
	course.Modules = append([]string{}, orderedIDs...)
	course.UpdatedAt = time.Now()

	r.persist("modules", r.Modules.items)
	r.persist("courses", r.Courses.items)
	return true
}

// ReorderLectures is the lecture counterpart of ReorderModules.
func (r *Registry) ReorderLectures(moduleID string, orderedIDs []string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	module := r.Modules.find(moduleID)
	if module == nil {
		return false
	}

	for i, id := range orderedIDs {
		if lecture := r.Lectures.find(id); lecture != nil && lecture.ModuleID == moduleID {
			lecture.Order = i
			lecture.UpdatedAt = time.Now()
		}
	}
	module.Lectures = append([]string{}, orderedIDs...)
	module.UpdatedAt = time.Now()

	r.persist("lectures", r.Lectures.items)
	r.persist("modules", r.Modules.items)
	return true
}

// EnrollUser adds the course to the user's enrollments and bumps the
// course's enrollment analytics in the same locked update.
func (r *Registry) EnrollUser(userID, courseID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.Users.find(userID)
	course := r.Courses.find(courseID)
	if user == nil || course == nil {
		return false
	}

	for _, id := range user.EnrolledCourses {
		if id == courseID {
			return true // already enrolled
		}
	}

	user.EnrolledCourses = append(user.EnrolledCourses, courseID)
	user.CoursesEnrolled = len(user.EnrolledCourses)
	user.UpdatedAt = time.Now()

	course.EnrollmentCount++
	course.Revenue += course.Price
	course.UpdatedAt = time.Now()

	r.persist("users", r.Users.items)
	r.persist("courses", r.Courses.items)
	return true
}

// UnenrollUser removes the enrollment. The course's revenue is not
// refunded, only the enrollment count drops.
func (r *Registry) UnenrollUser(userID, courseID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.Users.find(userID)
	if user == nil {
		return false
	}

	kept := user.EnrolledCourses[:0]
	removed := false
	for _, id := range user.EnrolledCourses {
		if id == courseID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		return false
	}

	user.EnrolledCourses = kept
	user.CoursesEnrolled = len(user.EnrolledCourses)
	user.UpdatedAt = time.Now()
	r.persist("users", r.Users.items)

	if course := r.Courses.find(courseID); course != nil && course.EnrollmentCount > 0 {
		course.EnrollmentCount--
		course.UpdatedAt = time.Now()
		r.persist("courses", r.Courses.items)
	}
	return true
}

// nextID assigns decimal string IDs: max numeric ID in use plus one, or 1
// for an empty collection. Non-numeric IDs are ignored.
func nextID(ids []string) string {
	max := 0
	for _, id := range ids {
		if n, err := strconv.Atoi(id); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}
