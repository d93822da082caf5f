package store

import (
	"sort"
	"time"

	"coursepanel/backend/models"
)

// LectureStore holds the in-memory lecture collection. Lectures are
// normally created through Registry.AddLecture.
type LectureStore struct {
	reg   *Registry
	items []models.Lecture
}

func (s *LectureStore) FetchAll() []models.Lecture {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return append([]models.Lecture{}, s.items...)
}

func (s *LectureStore) FetchByID(id string) (models.Lecture, bool) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	if lecture := s.find(id); lecture != nil {
		return *lecture, true
	}
	return models.Lecture{}, false
}

// FetchByModuleID returns the module's lectures sorted by order.
func (s *LectureStore) FetchByModuleID(moduleID string) []models.Lecture {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	var lectures []models.Lecture
	for i := range s.items {
		if s.items[i].ModuleID == moduleID {
			lectures = append(lectures, s.items[i])
		}
	}
	sort.Slice(lectures, func(i, j int) bool { return lectures[i].Order < lectures[j].Order })
	return lectures
}

// FetchByCourseID uses the denormalized course back-reference, mainly for
// cascade deletion and integrity checks.
func (s *LectureStore) FetchByCourseID(courseID string) []models.Lecture {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	var lectures []models.Lecture
	for i := range s.items {
		if s.items[i].CourseID == courseID {
			lectures = append(lectures, s.items[i])
		}
	}
	return lectures
}

func (s *LectureStore) Add(lecture models.Lecture) string {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.add(lecture)
}

func (s *LectureStore) add(lecture models.Lecture) string {
	lecture.ID = nextID(s.ids())
	if lecture.Resources == nil {
		lecture.Resources = []models.LectureResource{}
	}
	lecture.CreatedAt = time.Now()
	lecture.UpdatedAt = lecture.CreatedAt

	s.items = append(s.items, lecture)
	s.reg.persist("lectures", s.items)
	return lecture.ID
}

func (s *LectureStore) Update(id string, mutate func(*models.Lecture)) bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	lecture := s.find(id)
	if lecture == nil {
		return false
	}
	mutate(lecture)
	lecture.UpdatedAt = time.Now()
	s.reg.persist("lectures", s.items)
	return true
}

func (s *LectureStore) Delete(id string) bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.reg.persist("lectures", s.items)
			return true
		}
	}
	return false
}

func (s *LectureStore) ReplaceAll(items []models.Lecture) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	s.items = append([]models.Lecture{}, items...)
	s.reg.persist("lectures", s.items)
}

func (s *LectureStore) Count() int {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return len(s.items)
}

func (s *LectureStore) find(id string) *models.Lecture {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i]
		}
	}
	return nil
}

func (s *LectureStore) ids() []string {
	ids := make([]string, len(s.items))
	for i := range s.items {
		ids[i] = s.items[i].ID
	}
	return ids
}
