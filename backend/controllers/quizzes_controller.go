package controllers

import (
	"strconv"

	"coursepanel/backend/config"
	"coursepanel/backend/models"
	"coursepanel/backend/store"

	"github.com/gofiber/fiber/v2"
)

type QuizzesController struct {
	Stores *store.Registry
	Cfg    *config.Config
}

func NewQuizzesController(stores *store.Registry, cfg *config.Config) *QuizzesController {
	return &QuizzesController{Stores: stores, Cfg: cfg}
}

func (qc *QuizzesController) GetQuizzes(c *fiber.Ctx) error {
	moduleID := c.Query("moduleId")

	var quizzes []models.Quiz
	if moduleID != "" {
		quizzes = qc.Stores.Quizzes.FetchByModuleID(moduleID)
	} else {
		quizzes = qc.Stores.Quizzes.FetchAll()
	}

	result := []fiber.Map{}
	for _, quiz := range quizzes {
		result = append(result, fiber.Map{
			"id":           quiz.ID,
			"title":        quiz.Title,
			"module_id":    quiz.ModuleID,
			"questions":    len(quiz.Questions),
			"timeLimit":    quiz.TimeLimit,
			"passingScore": quiz.PassingScore,
			"isPublished":  quiz.IsPublished,
		})
	}

	return c.JSON(result)
}

func (qc *QuizzesController) GetQuizDetails(c *fiber.Ctx) error {
	quiz, ok := qc.Stores.Quizzes.FetchByID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Quiz not found",
		})
	}
	return c.JSON(fiber.Map{"quiz": quiz})
}

func (qc *QuizzesController) CreateQuiz(c *fiber.Ctx) error {
	var quiz models.Quiz
	if err := c.BodyParser(&quiz); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if quiz.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}
	if quiz.ModuleID != "" {
		if _, ok := qc.Stores.Modules.FetchByID(quiz.ModuleID); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Module not found",
			})
		}
	}
	for i := range quiz.Questions {
		quiz.Questions[i].ID = strconv.Itoa(i + 1)
		quiz.Questions[i].Order = i
	}

	id := qc.Stores.Quizzes.Add(quiz)
	created, _ := qc.Stores.Quizzes.FetchByID(id)

	return c.JSON(fiber.Map{
		"message": "Quiz created",
		"quiz":    created,
	})
}

func (qc *QuizzesController) UpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Params("id")

	var input struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		TimeLimit    *int   `json:"timeLimit"`
		PassingScore *int   `json:"passingScore"`
		IsPublished  *bool  `json:"isPublished"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	ok := qc.Stores.Quizzes.Update(quizID, func(quiz *models.Quiz) {
		if input.Title != "" {
			quiz.Title = input.Title
		}
		if input.Description != "" {
			quiz.Description = input.Description
		}
		if input.TimeLimit != nil {
			quiz.TimeLimit = *input.TimeLimit
		}
		if input.PassingScore != nil {
			quiz.PassingScore = *input.PassingScore
		}
		if input.IsPublished != nil {
			quiz.IsPublished = *input.IsPublished
		}
	})
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Quiz not found",
		})
	}

	quiz, _ := qc.Stores.Quizzes.FetchByID(quizID)
	return c.JSON(fiber.Map{
		"message": "Quiz updated",
		"quiz":    quiz,
	})
}

func (qc *QuizzesController) DeleteQuiz(c *fiber.Ctx) error {
	if !qc.Stores.Quizzes.Delete(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Quiz not found",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Quiz deleted",
	})
}

func (qc *QuizzesController) AddQuestion(c *fiber.Ctx) error {
	quizID := c.Params("id")

	var question models.QuizQuestion
	if err := c.BodyParser(&question); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if question.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question text is required",
		})
	}

	id, ok := qc.Stores.Quizzes.AddQuestion(quizID, question)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Quiz not found",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "Question added",
		"questionId": id,
	})
}

func (qc *QuizzesController) UpdateQuestion(c *fiber.Ctx) error {
	quizID := c.Params("id")
	questionID := c.Params("questionId")

	var input struct {
		Question string              `json:"question"`
		Type     string              `json:"type"`
		Options  []models.QuizOption `json:"options"`
		Points   *int                `json:"points"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	// Locate the question before mutating, so a miss does not refresh the
	// quiz's updatedAt or rewrite its snapshot.
	existing, ok := qc.Stores.Quizzes.FetchByID(quizID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Quiz not found",
		})
	}
	if !hasQuestion(existing, questionID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Question not found",
		})
	}

	qc.Stores.Quizzes.Update(quizID, func(quiz *models.Quiz) {
		for i := range quiz.Questions {
			if quiz.Questions[i].ID != questionID {
				continue
			}
			if input.Question != "" {
				quiz.Questions[i].Question = input.Question
			}
			if input.Type != "" {
				quiz.Questions[i].Type = input.Type
			}
			if input.Options != nil {
				quiz.Questions[i].Options = input.Options
			}
			if input.Points != nil {
				quiz.Questions[i].Points = *input.Points
			}
			return
		}
	})

	quiz, _ := qc.Stores.Quizzes.FetchByID(quizID)
	return c.JSON(fiber.Map{
		"message": "Question updated",
		"quiz":    quiz,
	})
}

func (qc *QuizzesController) DeleteQuestion(c *fiber.Ctx) error {
	quizID := c.Params("id")
	questionID := c.Params("questionId")

	existing, ok := qc.Stores.Quizzes.FetchByID(quizID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Quiz not found",
		})
	}
	if !hasQuestion(existing, questionID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Question not found",
		})
	}

	qc.Stores.Quizzes.Update(quizID, func(quiz *models.Quiz) {
		for i := range quiz.Questions {
			if quiz.Questions[i].ID == questionID {
				quiz.Questions = append(quiz.Questions[:i], quiz.Questions[i+1:]...)
				return
			}
		}
	})

	return c.JSON(fiber.Map{
		"message": "Question deleted",
	})
}

func hasQuestion(quiz models.Quiz, questionID string) bool {
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == questionID {
			return true
		}
	}
	return false
}
