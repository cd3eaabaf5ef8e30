package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"trivia/config"
	"trivia/handlers"
	"trivia/middleware"
	"trivia/models"
	"trivia/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T, auth *services.AuthService, healthCheck HealthCheck) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "trivia.db")), config.GormConfig("test"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	logger := zap.NewNop()
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := config.SeedCategories(db, logger); err != nil {
		t.Fatalf("seed: %v", err)
	}

	categoryService := services.NewCategoryService(db, logger)
	questionService := services.NewQuestionService(db, logger)
	quizService := services.NewQuizService(db, logger).WithRandom(func(int) int { return 0 })

	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Recovery(logger))
	SetupRoutes(router,
		handlers.NewCategoryHandler(categoryService, questionService, logger),
		handlers.NewQuestionHandler(questionService, categoryService, nil, logger),
		handlers.NewQuizHandler(quizService, logger),
		handlers.NewAuthHandler(auth, logger),
		nil,
		auth,
		healthCheck,
	)
	return &testServer{router: router, db: db}
}

func (s *testServer) seedQuestions(t *testing.T, n int, category uint) {
	t.Helper()
	questions := make([]models.Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, models.Question{
			Question:   fmt.Sprintf("Category %d question %d", category, i),
			Answer:     "answer",
			Category:   category,
			Difficulty: 2,
		})
	}
	if err := s.db.Create(&questions).Error; err != nil {
		t.Fatalf("seed questions: %v", err)
	}
}

func (s *testServer) do(t *testing.T, method, path, body string, header http.Header) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("%s %s: invalid JSON %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, decoded
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
}

func TestSeededCategories(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w, body := s.do(t, http.MethodGet, "/categories", "", nil)
	expectStatus(t, w, http.StatusOK)
	categories := body["categories"].(map[string]interface{})
	if len(categories) != len(config.DefaultCategories) {
		t.Fatalf("got %d categories, want %d", len(categories), len(config.DefaultCategories))
	}
	for i, name := range config.DefaultCategories {
		if categories[fmt.Sprint(i+1)] != name {
			t.Fatalf("category %d = %v, want %s", i+1, categories[fmt.Sprint(i+1)], name)
		}
	}
}

func TestQuestionLifecycle(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.seedQuestions(t, 11, 1)

	w, body := s.do(t, http.MethodGet, "/questions?page=2", "", nil)
	expectStatus(t, w, http.StatusOK)
	if len(body["questions"].([]interface{})) != 1 || body["total_questions"] != float64(11) {
		t.Fatalf("unexpected page 2: %v", body)
	}

	w, _ = s.do(t, http.MethodGet, "/questions?page=1000", "", nil)
	expectStatus(t, w, http.StatusNotFound)

	w, body = s.do(t, http.MethodPost, "/questions",
		`{"question":"Which Tool song is about a bird?","answer":"Parabola","category":2,"difficulty":3}`, nil)
	expectStatus(t, w, http.StatusOK)
	created := body["created"].(float64)
	if body["total_questions"] != float64(12) {
		t.Fatalf("total after create = %v, want 12", body["total_questions"])
	}

	w, body = s.do(t, http.MethodGet, "/categories/2/questions", "", nil)
	expectStatus(t, w, http.StatusOK)
	if body["current_category"] != "Art" || body["total_questions"] != float64(1) {
		t.Fatalf("unexpected category page: %v", body)
	}
	first := body["questions"].([]interface{})[0].(map[string]interface{})
	if first["id"] != created || first["answer"] != "Parabola" {
		t.Fatalf("unexpected question: %v", first)
	}

	w, body = s.do(t, http.MethodPost, "/questions", `{"searchTerm":"tool song"}`, nil)
	expectStatus(t, w, http.StatusOK)
	if body["total_questions"] != float64(1) {
		t.Fatalf("search total = %v, want 1", body["total_questions"])
	}
	w, body = s.do(t, http.MethodPost, "/questions", `{"searchTerm":"Nothing matches this"}`, nil)
	expectStatus(t, w, http.StatusOK)
	if body["total_questions"] != float64(0) || len(body["questions"].([]interface{})) != 0 {
		t.Fatalf("unexpected empty search: %v", body)
	}

	path := fmt.Sprintf("/questions/%d", int(created))
	w, body = s.do(t, http.MethodDelete, path, "", nil)
	expectStatus(t, w, http.StatusOK)
	if body["success"] != true {
		t.Fatalf("unexpected delete body: %v", body)
	}
	w, body = s.do(t, http.MethodDelete, path, "", nil)
	expectStatus(t, w, http.StatusUnprocessableEntity)
	if body["message"] != "unprocessable" {
		t.Fatalf("unexpected envelope: %v", body)
	}

	w, body = s.do(t, http.MethodGet, "/categories/2", "", nil)
	expectStatus(t, w, http.StatusOK)
	if body["succes"] != true || body["total_questions"] != float64(0) {
		t.Fatalf("unexpected legacy body: %v", body)
	}
}

func TestRoutingErrors(t *testing.T) {
	s := newTestServer(t, nil, nil)

	cases := []struct {
		method, path string
		status       int
		message      string
	}{
		{http.MethodPost, "/questions/45", http.StatusMethodNotAllowed, "method not allowed"},
		{http.MethodPatch, "/categories", http.StatusMethodNotAllowed, "method not allowed"},
		{http.MethodGet, "/categories/100/questions", http.StatusNotFound, "Not found"},
		{http.MethodGet, "/nowhere", http.StatusNotFound, "Not found"},
		{http.MethodGet, "/questions", http.StatusNotFound, "Not found"},
	}
	for _, tc := range cases {
		w, body := s.do(t, tc.method, tc.path, "", nil)
		expectStatus(t, w, tc.status)
		if body["success"] != false || body["error"] != float64(tc.status) || body["message"] != tc.message {
			t.Fatalf("%s %s: unexpected envelope %v", tc.method, tc.path, body)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w, _ := s.do(t, http.MethodOptions, "/questions", "", nil)
	expectStatus(t, w, http.StatusNoContent)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Allow-Origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET,PUT,POST,DELETE,OPTIONS" {
		t.Fatalf("Allow-Methods = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type,Authorization,true" {
		t.Fatalf("Allow-Headers = %q", got)
	}

	w, _ = s.do(t, http.MethodGet, "/categories", "", nil)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Allow-Origin on GET = %q", got)
	}
}

func TestQuizFlow(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.seedQuestions(t, 2, 3)

	previous := []interface{}{}
	for i := 0; i < 2; i++ {
		prevJSON, _ := json.Marshal(previous)
		body := fmt.Sprintf(`{"previous_questions":%s,"quiz_category":{"type":"Geography","id":3}}`, prevJSON)

		w, resp := s.do(t, http.MethodPost, "/quizzes", body, nil)
		expectStatus(t, w, http.StatusOK)
		question := resp["question"].(map[string]interface{})
		if question["category"] != float64(3) {
			t.Fatalf("question from wrong category: %v", question)
		}
		previous = resp["previousQuestion"].([]interface{})
		if len(previous) != i+1 {
			t.Fatalf("previousQuestion = %v, want %d entries", previous, i+1)
		}
	}

	prevJSON, _ := json.Marshal(previous)
	w, resp := s.do(t, http.MethodPost, "/quizzes",
		fmt.Sprintf(`{"previous_questions":%s,"quiz_category":{"type":"Geography","id":3}}`, prevJSON), nil)
	expectStatus(t, w, http.StatusOK)
	if resp["question"] != false {
		t.Fatalf("expected exhausted quiz, got %v", resp)
	}

	w, _ = s.do(t, http.MethodPost, "/quizzes", `{"previous_questions":[],"quiz_category":{"id":99}}`, nil)
	expectStatus(t, w, http.StatusBadRequest)

	w, _ = s.do(t, http.MethodPost, "/quizzes", `{"quiz_category":{"id":3}}`, nil)
	expectStatus(t, w, http.StatusUnprocessableEntity)
}

func TestAdminGuard(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	auth := services.NewAuthService("route-secret", string(hash))
	s := newTestServer(t, auth, nil)
	s.seedQuestions(t, 1, 1)

	create := `{"question":"Guarded?","answer":"yes","category":1,"difficulty":1}`

	w, _ := s.do(t, http.MethodPost, "/questions", create, nil)
	expectStatus(t, w, http.StatusUnauthorized)
	w, _ = s.do(t, http.MethodDelete, "/questions/1", "", nil)
	expectStatus(t, w, http.StatusUnauthorized)
	w, _ = s.do(t, http.MethodDelete, "/questions/1", "", http.Header{"Authorization": {"Bearer not-a-token"}})
	expectStatus(t, w, http.StatusUnauthorized)

	// Search stays public.
	w, body := s.do(t, http.MethodPost, "/questions", `{"searchTerm":"category"}`, nil)
	expectStatus(t, w, http.StatusOK)
	if body["total_questions"] != float64(1) {
		t.Fatalf("guarded search total = %v, want 1", body["total_questions"])
	}

	w, _ = s.do(t, http.MethodPost, "/auth/token", `{"password":"wrong"}`, nil)
	expectStatus(t, w, http.StatusUnauthorized)
	w, _ = s.do(t, http.MethodPost, "/auth/token", `{}`, nil)
	expectStatus(t, w, http.StatusUnprocessableEntity)

	w, body = s.do(t, http.MethodPost, "/auth/token", `{"password":"letmein"}`, nil)
	expectStatus(t, w, http.StatusOK)
	bearer := http.Header{"Authorization": {"Bearer " + body["token"].(string)}}

	w, body = s.do(t, http.MethodPost, "/questions", create, bearer)
	expectStatus(t, w, http.StatusOK)
	if body["total_questions"] != float64(2) {
		t.Fatalf("total after guarded create = %v, want 2", body["total_questions"])
	}
	w, _ = s.do(t, http.MethodDelete, "/questions/1", "", bearer)
	expectStatus(t, w, http.StatusOK)
}

func TestAuthTokenDisabled(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w, _ := s.do(t, http.MethodPost, "/auth/token", `{"password":"x"}`, nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, func(ctx context.Context) error { return nil })
	w, body := s.do(t, http.MethodGet, "/health", "", nil)
	expectStatus(t, w, http.StatusOK)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body: %v", body)
	}

	s = newTestServer(t, nil, func(ctx context.Context) error { return errors.New("down") })
	w, _ = s.do(t, http.MethodGet, "/health", "", nil)
	expectStatus(t, w, http.StatusServiceUnavailable)
}
