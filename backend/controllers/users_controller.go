package controllers

import (
	"coursepanel/backend/config"
	"coursepanel/backend/models"
	"coursepanel/backend/store"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type UsersController struct {
	Stores *store.Registry
	Cfg    *config.Config
}

func NewUsersController(stores *store.Registry, cfg *config.Config) *UsersController {
	return &UsersController{Stores: stores, Cfg: cfg}
}

func (uc *UsersController) GetUsers(c *fiber.Ctx) error {
	users := uc.Stores.Users.FetchAll()

	result := []fiber.Map{}
	for _, user := range users {
		result = append(result, fiber.Map{
			"id":              user.ID,
			"email":           user.Email,
			"name":            user.Name,
			"username":        user.Username,
			"role":            user.RoleName,
			"isActive":        user.IsActive,
			"coursesEnrolled": user.CoursesEnrolled,
			"lastLogin":       user.LastLogin,
		})
	}

	return c.JSON(result)
}

func (uc *UsersController) GetUserDetails(c *fiber.Ctx) error {
	user, ok := uc.Stores.Users.FetchByID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	courses := []fiber.Map{}
	for _, courseID := range user.EnrolledCourses {
		if course, ok := uc.Stores.Courses.FetchByID(courseID); ok {
			courses = append(courses, fiber.Map{
				"id":    course.ID,
				"title": course.Title,
			})
		}
	}

	return c.JSON(fiber.Map{
		"user":            user.Public(),
		"enrolledCourses": courses,
	})
}

func (uc *UsersController) CreateUser(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Username string `json:"username"`
		Password string `json:"password"`
		RoleID   string `json:"roleId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Email == "" || input.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and username are required",
		})
	}
	if _, exists := uc.Stores.Users.FetchByUsername(input.Username); exists {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username already taken",
		})
	}

	roleID := input.RoleID
	roleName := ""
	for _, role := range store.StaticRoles() {
		if role.ID == roleID {
			roleName = role.Name
		}
	}
	if roleName == "" {
		roleID, roleName = "3", "student"
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not hash password",
		})
	}

	id := uc.Stores.Users.Add(models.User{
		Email:        input.Email,
		Name:         input.Name,
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
		RoleID:       roleID,
		RoleName:     roleName,
		IsActive:     true,
	})

	user, _ := uc.Stores.Users.FetchByID(id)
	return c.JSON(fiber.Map{
		"message": "User created",
		"user":    user.Public(),
	})
}

func (uc *UsersController) UpdateUser(c *fiber.Ctx) error {
	userID := c.Params("id")

	var input struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Username string `json:"username"`
		RoleID   string `json:"roleId"`
		IsActive *bool  `json:"isActive"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	roleName := ""
	if input.RoleID != "" {
		for _, role := range store.StaticRoles() {
			if role.ID == input.RoleID {
				roleName = role.Name
			}
		}
		if roleName == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown role",
			})
		}
	}

	ok := uc.Stores.Users.Update(userID, func(user *models.User) {
		if input.Email != "" {
			user.Email = input.Email
		}
		if input.Name != "" {
			user.Name = input.Name
		}
		if input.Username != "" {
			user.Username = input.Username
		}
		if input.RoleID != "" {
			user.RoleID = input.RoleID
			user.RoleName = roleName
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
		}
	})
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	user, _ := uc.Stores.Users.FetchByID(userID)
	return c.JSON(fiber.Map{
		"message": "User updated",
		"user":    user.Public(),
	})
}

func (uc *UsersController) DeleteUser(c *fiber.Ctx) error {
	if !uc.Stores.Users.Delete(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	return c.JSON(fiber.Map{
		"message": "User deleted",
	})
}

func (uc *UsersController) EnrollUser(c *fiber.Ctx) error {
	userID := c.Params("id")

	var input struct {
		CourseID string `json:"courseId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if !uc.Stores.EnrollUser(userID, input.CourseID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User or course not found",
		})
	}

	user, _ := uc.Stores.Users.FetchByID(userID)
	return c.JSON(fiber.Map{
		"message": "User enrolled",
		"user":    user.Public(),
	})
}

func (uc *UsersController) UnenrollUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	courseID := c.Params("courseId")

	if !uc.Stores.UnenrollUser(userID, courseID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	user, _ := uc.Stores.Users.FetchByID(userID)
	return c.JSON(fiber.Map{
		"message": "User unenrolled",
		"user":    user.Public(),
	})
}

func (uc *UsersController) GetRoles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"roles":       store.StaticRoles(),
		"permissions": store.StaticPermissions(),
	})
}

func (uc *UsersController) GetAnalytics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"analytics": uc.Stores.Analytics.Recompute(),
	})
}
