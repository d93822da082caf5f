package store

import (
	"time"

	"coursepanel/backend/models"
)

// QuizStore holds the in-memory quiz collection. Questions are embedded in
// their quiz and edited through Update.
type QuizStore struct {
	reg   *Registry
	items []models.Quiz
}

func (s *QuizStore) FetchAll() []models.Quiz {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return append([]models.Quiz{}, s.items...)
}

func (s *QuizStore) FetchByID(id string) (models.Quiz, bool) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	if quiz := s.find(id); quiz != nil {
		return *quiz, true
	}
	return models.Quiz{}, false
}

func (s *QuizStore) FetchByModuleID(moduleID string) []models.Quiz {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	var quizzes []models.Quiz
	for i := range s.items {
		if s.items[i].ModuleID == moduleID {
			quizzes = append(quizzes, s.items[i])
		}
	}
	return quizzes
}

func (s *QuizStore) Add(quiz models.Quiz) string {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	quiz.ID = nextID(s.ids())
	if quiz.Questions == nil {
		quiz.Questions = []models.QuizQuestion{}
	}
	quiz.CreatedAt = time.Now()
	quiz.UpdatedAt = quiz.CreatedAt

	s.items = append(s.items, quiz)
	s.reg.persist("quizzes", s.items)
	return quiz.ID
}

func (s *QuizStore) Update(id string, mutate func(*models.Quiz)) bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	quiz := s.find(id)
	if quiz == nil {
		return false
	}
	mutate(quiz)
	quiz.UpdatedAt = time.Now()
	s.reg.persist("quizzes", s.items)
	return true
}

// AddQuestion appends a question to the quiz, assigning it the next
// question ID within that quiz.
func (s *QuizStore) AddQuestion(quizID string, question models.QuizQuestion) (string, bool) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	quiz := s.find(quizID)
	if quiz == nil {
		return "", false
	}

	ids := make([]string, len(quiz.Questions))
	for i := range quiz.Questions {
		ids[i] = quiz.Questions[i].ID
	}
	question.ID = nextID(ids)
	question.Order = len(quiz.Questions)

	quiz.Questions = append(quiz.Questions, question)
	quiz.UpdatedAt = time.Now()
	s.reg.persist("quizzes", s.items)
	return question.ID, true
}

func (s *QuizStore) Delete(id string) bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.reg.persist("quizzes", s.items)
			return true
		}
	}
	return false
}

func (s *QuizStore) ReplaceAll(items []models.Quiz) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	s.items = append([]models.Quiz{}, items...)
	s.reg.persist("quizzes", s.items)
}

func (s *QuizStore) Count() int {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return len(s.items)
}

func (s *QuizStore) find(id string) *models.Quiz {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i]
		}
	}
	return nil
}

func (s *QuizStore) ids() []string {
	ids := make([]string, len(s.items))
	for i := range s.items {
		ids[i] = s.items[i].ID
	}
	return ids
}
