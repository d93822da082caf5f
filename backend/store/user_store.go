package store

import (
	"time"

	"coursepanel/backend/models"
)

// UserStore holds the in-memory user collection. Enrollment changes go
// through Registry.EnrollUser/UnenrollUser so the course analytics move in
// the same update.
type UserStore struct {
	reg   *Registry
	items []models.User
}

func (s *UserStore) FetchAll() []models.User {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return append([]models.User{}, s.items...)
}

func (s *UserStore) FetchByID(id string) (models.User, bool) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	if user := s.find(id); user != nil {
		return *user, true
	}
	return models.User{}, false
}

func (s *UserStore) FetchByUsername(username string) (models.User, bool) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for i := range s.items {
		if s.items[i].Username == username {
			return s.items[i], true
		}
	}
	return models.User{}, false
}

func (s *UserStore) FetchByEmail(email string) (models.User, bool) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for i := range s.items {
		if s.items[i].Email == email {
			return s.items[i], true
		}
	}
	return models.User{}, false
}

func (s *UserStore) Add(user models.User) string {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	user.ID = nextID(s.ids())
	if user.EnrolledCourses == nil {
		user.EnrolledCourses = []string{}
	}
	user.CoursesEnrolled = len(user.EnrolledCourses)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	s.items = append(s.items, user)
	s.reg.persist("users", s.items)
	return user.ID
}

func (s *UserStore) Update(id string, mutate func(*models.User)) bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	user := s.find(id)
	if user == nil {
		return false
	}
	mutate(user)
	user.UpdatedAt = time.Now()
	s.reg.persist("users", s.items)
	return true
}

func (s *UserStore) Delete(id string) bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.reg.persist("users", s.items)
			return true
		}
	}
	return false
}

func (s *UserStore) ReplaceAll(items []models.User) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	s.items = append([]models.User{}, items...)
	s.reg.persist("users", s.items)
}

func (s *UserStore) Count() int {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return len(s.items)
}

func (s *UserStore) find(id string) *models.User {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i]
		}
	}
	return nil
}

func (s *UserStore) ids() []string {
	ids := make([]string, len(s.items))
	for i := range s.items {
		ids[i] = s.items[i].ID
	}
	return ids
}
