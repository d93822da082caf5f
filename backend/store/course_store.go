package store

import (
	"time"

	"coursepanel/backend/models"
)

// CourseStore holds the in-memory course collection.
type CourseStore struct {
	reg   *Registry
	items []models.Course
}

func (s *CourseStore) FetchAll() []models.Course {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return append([]models.Course{}, s.items...)
}

func (s *CourseStore) FetchByID(id string) (models.Course, bool) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	if course := s.find(id); course != nil {
		return *course, true
	}
	return models.Course{}, false
}

// Add assigns the next ID, stamps timestamps, zeroes the denormalized
// fields and persists. Returns the new ID.
func (s *CourseStore) Add(course models.Course) string {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.add(course)
}

func (s *CourseStore) add(course models.Course) string {
	course.ID = nextID(s.ids())
	course.Modules = []string{}
	course.ModuleCount = 0
	course.LectureCount = 0
	course.Duration = 0
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt

	s.items = append(s.items, course)
	s.reg.persist("courses", s.items)
	return course.ID
}

// Update applies mutate to the matching record in one locked state update
// and refreshes updatedAt. Reports false when the ID is unknown.
func (s *CourseStore) Update(id string, mutate func(*models.Course)) bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	course := s.find(id)
	if course == nil {
		return false
	}
	mutate(course)
	course.UpdatedAt = time.Now()
	s.reg.persist("courses", s.items)
	return true
}

// Delete removes the record only. It does not touch child modules or
// lectures; cascading deletion lives in the integrity service.
func (s *CourseStore) Delete(id string) bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.reg.persist("courses", s.items)
			return true
		}
	}
	return false
}

// ReplaceAll swaps the entire collection, used by backup restoration.
func (s *CourseStore) ReplaceAll(items []models.Course) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	s.items = append([]models.Course{}, items...)
	s.reg.persist("courses", s.items)
}

func (s *CourseStore) Count() int {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return len(s.items)
}

// find is called with the registry lock held.
func (s *CourseStore) find(id string) *models.Course {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i]
		}
	}
	return nil
}

func (s *CourseStore) ids() []string {
	ids := make([]string, len(s.items))
	for i := range s.items {
		ids[i] = s.items[i].ID
	}
	return ids
}
