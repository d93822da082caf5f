package store

import (
	"sort"
	"time"

	"coursepanel/backend/models"
)

// ModuleStore holds the in-memory module collection. Modules are normally
// created through Registry.AddModule so the parent course stays in sync.
type ModuleStore struct {
	reg   *Registry
	items []models.Module
}

func (s *ModuleStore) FetchAll() []models.Module {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return append([]models.Module{}, s.items...)
}

func (s *ModuleStore) FetchByID(id string) (models.Module, bool) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	if module := s.find(id); module != nil {
		return *module, true
	}
	return models.Module{}, false
}

// FetchByCourseID returns the course's modules sorted by their order field.
func (s *ModuleStore) FetchByCourseID(courseID string) []models.Module {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	var modules []models.Module
	for i := range s.items {
		if s.items[i].CourseID == courseID {
			modules = append(modules, s.items[i])
		}
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Order < modules[j].Order })
	return modules
}

func (s *ModuleStore) Add(module models.Module) string {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.add(module)
}

func (s *ModuleStore) add(module models.Module) string {
	module.ID = nextID(s.ids())
	module.Lectures = []string{}
	module.LectureCount = 0
	module.Duration = 0
	module.CreatedAt = time.Now()
	module.UpdatedAt = module.CreatedAt

	s.items = append(s.items, module)
	s.reg.persist("modules", s.items)
	return module.ID
}

func (s *ModuleStore) Update(id string, mutate func(*models.Module)) bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	module := s.find(id)
	if module == nil {
		return false
	}
	mutate(module)
	module.UpdatedAt = time.Now()
	s.reg.persist("modules", s.items)
	return true
}

// Delete removes the record only; the parent course's module list is not
// touched here (see the integrity service cascade helpers).
func (s *ModuleStore) Delete(id string) bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.reg.persist("modules", s.items)
			return true
		}
	}
	return false
}

func (s *ModuleStore) ReplaceAll(items []models.Module) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	s.items = append([]models.Module{}, items...)
	s.reg.persist("modules", s.items)
}

func (s *ModuleStore) Count() int {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return len(s.items)
}

func (s *ModuleStore) find(id string) *models.Module {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i]
		}
	}
	return nil
}

func (s *ModuleStore) ids() []string {
	ids := make([]string, len(s.items))
	for i := range s.items {
		ids[i] = s.items[i].ID
	}
	return ids
}
