package routes

import (
	"coursepanel/backend/config"
	"coursepanel/backend/controllers"
	"coursepanel/backend/middleware"
	"coursepanel/backend/services"
	"coursepanel/backend/store"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, stores *store.Registry, integrity *services.IntegrityService,
	backups *services.BackupService, search *services.SearchService, cfg *config.Config) {

	// Auth routes
	authController := controllers.NewAuthController(stores, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(cfg, stores.Users)

	app.Get("/api/user/profile", authMiddleware, authController.GetProfile)

	// Course catalog
	coursesController := controllers.NewCoursesController(stores, integrity, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)

	// Admin routes for courses, modules and lectures
	adminCourses := app.Group("/api/admin/courses", authMiddleware, adminMiddleware)
	adminCourses.Post("/", coursesController.CreateCourse)
	adminCourses.Put("/:id", coursesController.UpdateCourse)
	adminCourses.Delete("/:id", coursesController.DeleteCourse)
	adminCourses.Post("/:id/modules", coursesController.AddModule)
	adminCourses.Put("/:id/modules/reorder", coursesController.ReorderModules)
	adminCourses.Put("/:id/modules/:moduleId", coursesController.UpdateModule)
	adminCourses.Delete("/:id/modules/:moduleId", coursesController.DeleteModule)
	adminCourses.Post("/:id/modules/:moduleId/lectures", coursesController.AddLecture)
	adminCourses.Put("/:id/modules/:moduleId/lectures/reorder", coursesController.ReorderLectures)
	adminCourses.Put("/:id/modules/:moduleId/lectures/:lectureId", coursesController.UpdateLecture)
	adminCourses.Delete("/:id/modules/:moduleId/lectures/:lectureId", coursesController.DeleteLecture)

	// Quizzes
	quizzesController := controllers.NewQuizzesController(stores, cfg)
	quizzes := app.Group("/api/quizzes", authMiddleware)
	quizzes.Get("/", quizzesController.GetQuizzes)
	quizzes.Get("/:id", quizzesController.GetQuizDetails)

	adminQuizzes := app.Group("/api/admin/quizzes", authMiddleware, adminMiddleware)
	adminQuizzes.Post("/", quizzesController.CreateQuiz)
	adminQuizzes.Put("/:id", quizzesController.UpdateQuiz)
	adminQuizzes.Delete("/:id", quizzesController.DeleteQuiz)
	adminQuizzes.Post("/:id/questions", quizzesController.AddQuestion)
	adminQuizzes.Put("/:id/questions/:questionId", quizzesController.UpdateQuestion)
	adminQuizzes.Delete("/:id/questions/:questionId", quizzesController.DeleteQuestion)

	// Users
	usersController := controllers.NewUsersController(stores, cfg)
	adminUsers := app.Group("/api/admin/users", authMiddleware, adminMiddleware)
	adminUsers.Get("/", usersController.GetUsers)
	adminUsers.Get("/roles", usersController.GetRoles)
	adminUsers.Get("/:id", usersController.GetUserDetails)
	adminUsers.Post("/", usersController.CreateUser)
	adminUsers.Put("/:id", usersController.UpdateUser)
	adminUsers.Delete("/:id", usersController.DeleteUser)
	adminUsers.Post("/:id/enrollments", usersController.EnrollUser)
	adminUsers.Delete("/:id/enrollments/:courseId", usersController.UnenrollUser)

	app.Get("/api/admin/analytics", authMiddleware, adminMiddleware, usersController.GetAnalytics)

	// Integrity
	integrityController := controllers.NewIntegrityController(integrity, cfg)
	adminIntegrity := app.Group("/api/admin/integrity", authMiddleware, adminMiddleware)
	adminIntegrity.Get("/validate", integrityController.ValidateAll)
	adminIntegrity.Get("/validate/courses/:id", integrityController.ValidateCourse)
	adminIntegrity.Get("/validate/modules/:id", integrityController.ValidateModule)
	adminIntegrity.Get("/validate/lectures/:id", integrityController.ValidateLecture)
	adminIntegrity.Post("/repair", integrityController.Repair)
	adminIntegrity.Post("/cleanup", integrityController.Cleanup)

	// Backups
	backupController := controllers.NewBackupController(backups, cfg)
	adminBackups := app.Group("/api/admin/backups", authMiddleware, adminMiddleware)
	adminBackups.Get("/", backupController.ListBackups)
	adminBackups.Post("/", backupController.CreateBackup)
	adminBackups.Get("/export", backupController.Export)
	adminBackups.Post("/import", backupController.Import)
	adminBackups.Post("/:id/restore", backupController.Restore)

	// Search
	searchController := controllers.NewSearchController(search, cfg)
	app.Get("/api/search", authMiddleware, searchController.Query)
	app.Get("/api/search/export", authMiddleware, searchController.ExportCSV)
}
