package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"testing"

	"coursepanel/backend/config"
	"coursepanel/backend/models"
	"coursepanel/backend/routes"
	"coursepanel/backend/services"
	"coursepanel/backend/store"
	"coursepanel/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	app      *fiber.App
	stores   *store.Registry
	cfg      *config.Config
	jwtToken string
)

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	os.Exit(code)
}

func setup() {
	cfg = &config.Config{
		DBPath:      ":memory:",
		JWTSecret:   "testsecret",
		ServerPort:  "8080",
		BackupLimit: 5,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	stores, err = store.NewRegistry(db, log.New(io.Discard, "", 0))
	if err != nil {
		panic(err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	adminID := stores.Users.Add(models.User{
		Email: "admin@test.local", Name: "Admin", Username: "admin",
		PasswordHash: string(hashed), RoleID: "1", RoleName: "admin", IsActive: true,
	})

	jwtToken, err = utils.GenerateJWTToken(adminID, cfg)
	if err != nil {
		panic(err)
	}

	integrity := services.NewIntegrityService(stores)
	search := services.NewSearchService(stores)
	backups, err := services.NewBackupService(stores, db, cfg.BackupLimit)
	if err != nil {
		panic(err)
	}

	app = fiber.New()
	routes.SetupRoutes(app, stores, integrity, backups, search, cfg)
}

func request(t *testing.T, method, path string, body interface{}) map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestLoginAndProfile(t *testing.T) {
	result := request(t, "POST", "/api/auth/login", map[string]interface{}{
		"username": "admin",
		"password": "admin",
	})
	assert.NotEmpty(t, result["token"])

	profile := request(t, "GET", "/api/user/profile", nil)
	user := profile["user"].(map[string]interface{})
	assert.Equal(t, "admin@test.local", user["email"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{
		"username": "admin",
		"password": "wrong",
	})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCourseLifecycleOverAPI(t *testing.T) {
	created := request(t, "POST", "/api/admin/courses", map[string]interface{}{
		"title":    "API Course",
		"category": "Programming",
		"level":    "beginner",
		"price":    15,
	})
	assert.Equal(t, "Course created", created["message"])
	course := created["course"].(map[string]interface{})
	courseID := course["id"].(string)

	added := request(t, "POST", "/api/admin/courses/"+courseID+"/modules", map[string]interface{}{
		"title": "First Module",
	})
	module := added["module"].(map[string]interface{})
	moduleID := module["id"].(string)
	assert.Equal(t, courseID, module["courseId"])

	lectureResp := request(t, "POST", "/api/admin/courses/"+courseID+"/modules/"+moduleID+"/lectures",
		map[string]interface{}{
			"title":         "First Lecture",
			"videoDuration": 12,
		})
	lecture := lectureResp["lecture"].(map[string]interface{})
	assert.Equal(t, moduleID, lecture["moduleId"])

	details := request(t, "GET", "/api/courses/"+courseID, nil)
	courseView := details["course"].(map[string]interface{})
	assert.Equal(t, float64(1), courseView["moduleCount"])

	// Cascade delete through the API removes everything.
	request(t, "DELETE", "/api/admin/courses/"+courseID, nil)
	req := httptest.NewRequest("GET", "/api/courses/"+courseID, nil)
	req.Header.Set("Authorization", jwtToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	assert.Empty(t, stores.Modules.FetchByCourseID(courseID))
	assert.Empty(t, stores.Lectures.FetchByCourseID(courseID))
}

func TestModuleReorderOverAPI(t *testing.T) {
	created := request(t, "POST", "/api/admin/courses", map[string]interface{}{
		"title": "Reorder Course",
	})
	courseID := created["course"].(map[string]interface{})["id"].(string)

	var moduleIDs []string
	for _, title := range []string{"A", "B", "C"} {
		resp := request(t, "POST", "/api/admin/courses/"+courseID+"/modules",
			map[string]interface{}{"title": title})
		moduleIDs = append(moduleIDs, resp["module"].(map[string]interface{})["id"].(string))
	}

	reordered := []string{moduleIDs[2], moduleIDs[0], moduleIDs[1]}
	request(t, "PUT", "/api/admin/courses/"+courseID+"/modules/reorder",
		map[string]interface{}{"moduleIds": reordered})

	modules := stores.Modules.FetchByCourseID(courseID)
	require.Len(t, modules, 3)
	assert.Equal(t, "C", modules[0].Title)
	assert.Equal(t, "A", modules[1].Title)
	assert.Equal(t, "B", modules[2].Title)
}

func TestQuizQuestionsOverAPI(t *testing.T) {
	created := request(t, "POST", "/api/admin/quizzes", map[string]interface{}{
		"title": "API Quiz",
		"questions": []map[string]interface{}{
			{
				"question": "Is Go statically typed?",
				"type":     "boolean",
				"options": []map[string]interface{}{
					{"text": "Yes", "correct": true},
					{"text": "No"},
				},
			},
		},
	})
	quiz := created["quiz"].(map[string]interface{})
	quizID := quiz["id"].(string)

	questionResp := request(t, "POST", "/api/admin/quizzes/"+quizID+"/questions",
		map[string]interface{}{
			"question": "Does Go have generics?",
			"type":     "boolean",
			"options": []map[string]interface{}{
				{"text": "Yes", "correct": true},
				{"text": "No"},
			},
		})
	assert.Equal(t, "Question added", questionResp["message"])

	details := request(t, "GET", "/api/quizzes/"+quizID, nil)
	questions := details["quiz"].(map[string]interface{})["questions"].([]interface{})
	assert.Len(t, questions, 2)
}

func TestUnknownQuestionLeavesQuizUntouched(t *testing.T) {
	created := request(t, "POST", "/api/admin/quizzes", map[string]interface{}{
		"title": "Untouched Quiz",
		"questions": []map[string]interface{}{
			{"question": "Only question", "type": "boolean"},
		},
	})
	quizID := created["quiz"].(map[string]interface{})["id"].(string)

	before, ok := stores.Quizzes.FetchByID(quizID)
	require.True(t, ok)

	body, _ := json.Marshal(map[string]interface{}{"question": "edited"})
	req := httptest.NewRequest("PUT", "/api/admin/quizzes/"+quizID+"/questions/99", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", jwtToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	req = httptest.NewRequest("DELETE", "/api/admin/quizzes/"+quizID+"/questions/99", nil)
	req.Header.Set("Authorization", jwtToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	after, ok := stores.Quizzes.FetchByID(quizID)
	require.True(t, ok)
	assert.Len(t, after.Questions, 1)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestIntegrityEndpoints(t *testing.T) {
	created := request(t, "POST", "/api/admin/courses", map[string]interface{}{
		"title": "Integrity Course",
	})
	courseID := created["course"].(map[string]interface{})["id"].(string)
	moduleResp := request(t, "POST", "/api/admin/courses/"+courseID+"/modules",
		map[string]interface{}{"title": "M"})
	moduleID := moduleResp["module"].(map[string]interface{})["id"].(string)
	request(t, "POST", "/api/admin/courses/"+courseID+"/modules/"+moduleID+"/lectures",
		map[string]interface{}{"title": "L", "videoDuration": 30})

	repair := request(t, "POST", "/api/admin/integrity/repair", nil)
	data := repair["data"].(map[string]interface{})
	assert.NotZero(t, data["repaired"])

	course, ok := stores.Courses.FetchByID(courseID)
	require.True(t, ok)
	assert.Equal(t, 1, course.LectureCount)
	assert.Equal(t, 30, course.Duration)

	validate := request(t, "GET", "/api/admin/integrity/validate", nil)
	report := validate["data"].(map[string]interface{})
	assert.NotZero(t, report["coursesChecked"])
}

func TestSearchEndpoint(t *testing.T) {
	request(t, "POST", "/api/admin/courses", map[string]interface{}{
		"title":    "Searchable Kubernetes Course",
		"category": "DevOps",
	})

	result := request(t, "GET", "/api/search?q=kubernetes", nil)
	data := result["data"].(map[string]interface{})
	assert.NotZero(t, data["total"])

	req := httptest.NewRequest("GET", "/api/search/export?q=kubernetes", nil)
	req.Header.Set("Authorization", jwtToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "search_results_")
}

func TestBackupEndpoints(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{
		"name":        "api-test",
		"description": "created from the API tests",
	})
	req := httptest.NewRequest("POST", "/api/admin/backups", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	data := created["data"].(map[string]interface{})
	assert.NotEmpty(t, data["id"])

	list := request(t, "GET", "/api/admin/backups", nil)
	saved := list["data"].([]interface{})
	assert.NotEmpty(t, saved)

	req = httptest.NewRequest("GET", "/api/admin/backups/export", nil)
	req.Header.Set("Authorization", jwtToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "backup_")

	var backup map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&backup))
	assert.Equal(t, services.BackupVersion, backup["version"])
}
