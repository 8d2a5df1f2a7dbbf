package v1

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/todo-crud/internal/models"
	"github.com/adanyl0v/todo-crud/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, svc services.TodoService) *gin.Engine {
	t.Helper()

	logger := zerolog.Nop()
	router := gin.New()
	router.Use(RequestID(logger), AccessLog(logger), CORS())
	Register(router, New(logger, svc))
	return router
}

func newTestSQLiteRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := services.NewSQLiteTodoService(zerolog.Nop(), db)
	if err = svc.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}
	return newTestRouter(t, svc)
}

func doForm(router http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func listTodos(t *testing.T, router http.Handler) []getTodoResponse {
	t.Helper()

	w := doForm(router, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected status 200, got %d", w.Code)
	}

	var todos []getTodoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &todos); err != nil {
		t.Fatalf("list: failed to decode %q: %v", w.Body.String(), err)
	}
	return todos
}

func TestTodoLifecycle(t *testing.T) {
	router := newTestSQLiteRouter(t)

	w := doForm(router, http.MethodPost, "/create", url.Values{"description": {"Buy milk"}})
	if w.Code != http.StatusOK {
		t.Fatalf("create: expected status 200, got %d", w.Code)
	}
	if got, want := w.Body.String(), `{"id":1,"description":"Buy milk","status":false}`; got != want {
		t.Errorf("create: expected body %s, got %s", want, got)
	}

	w = doForm(router, http.MethodPut, "/update", url.Values{
		"id":          {"1"},
		"description": {"Buy milk and eggs"},
		"status":      {"true"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected status 200, got %d", w.Code)
	}
	var msg messageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &msg); err != nil || msg.Message == "" {
		t.Errorf("update: expected message body, got %q", w.Body.String())
	}

	w = doForm(router, http.MethodGet, "/", nil)
	if got, want := w.Body.String(), `[{"id":1,"description":"Buy milk and eggs","status":true}]`; got != want {
		t.Errorf("list: expected body %s, got %s", want, got)
	}

	w = doForm(router, http.MethodDelete, "/delete/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected status 200, got %d", w.Code)
	}

	w = doForm(router, http.MethodGet, "/", nil)
	if got := w.Body.String(); got != `[]` {
		t.Errorf("list: expected empty array, got %s", got)
	}

	w = doForm(router, http.MethodDelete, "/delete/1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected status 404, got %d", w.Code)
	}
}

func TestListEmpty(t *testing.T) {
	router := newTestSQLiteRouter(t)

	if todos := listTodos(t, router); len(todos) != 0 {
		t.Errorf("expected no todos, got %d", len(todos))
	}
}

func TestUpdateMissingTodo(t *testing.T) {
	router := newTestSQLiteRouter(t)

	w := doForm(router, http.MethodPost, "/create", url.Values{"description": {"Keep me"}})
	if w.Code != http.StatusOK {
		t.Fatalf("create: expected status 200, got %d", w.Code)
	}

	w = doForm(router, http.MethodPut, "/update", url.Values{
		"id":          {"42"},
		"description": {"ghost"},
		"status":      {"true"},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	todos := listTodos(t, router)
	if len(todos) != 1 || todos[0].Description != "Keep me" || todos[0].Status {
		t.Errorf("table changed after failed update: %+v", todos)
	}
}

func TestUpdateResetsStatus(t *testing.T) {
	router := newTestSQLiteRouter(t)

	doForm(router, http.MethodPost, "/create", url.Values{"description": {"Laundry"}})
	doForm(router, http.MethodPut, "/update", url.Values{
		"id": {"1"}, "description": {"Laundry"}, "status": {"true"},
	})
	w := doForm(router, http.MethodPut, "/update", url.Values{
		"id": {"1"}, "description": {"Fold laundry"}, "status": {"false"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	todos := listTodos(t, router)
	if len(todos) != 1 || todos[0].Description != "Fold laundry" || todos[0].Status {
		t.Errorf("expected full replacement, got %+v", todos)
	}
}

func TestEmptyDescriptionIsAccepted(t *testing.T) {
	router := newTestSQLiteRouter(t)

	w := doForm(router, http.MethodPost, "/create", url.Values{"description": {""}})
	if w.Code != http.StatusOK {
		t.Fatalf("create: expected status 200, got %d", w.Code)
	}
	if got, want := w.Body.String(), `{"id":1,"description":"","status":false}`; got != want {
		t.Errorf("create: expected body %s, got %s", want, got)
	}

	w = doForm(router, http.MethodPut, "/update", url.Values{
		"id": {"1"}, "description": {""}, "status": {"true"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected status 200, got %d", w.Code)
	}

	todos := listTodos(t, router)
	if len(todos) != 1 || todos[0].Description != "" || !todos[0].Status {
		t.Errorf("expected one todo with empty description, got %+v", todos)
	}
}

func TestMalformedRequests(t *testing.T) {
	router := newTestSQLiteRouter(t)

	tests := []struct {
		name   string
		method string
		target string
		form   url.Values
		want   int
	}{
		{"create without description", http.MethodPost, "/create", url.Values{}, http.StatusBadRequest},
		{"update without status", http.MethodPut, "/update", url.Values{"id": {"1"}, "description": {"x"}}, http.StatusBadRequest},
		{"update without id", http.MethodPut, "/update", url.Values{"description": {"x"}, "status": {"true"}}, http.StatusBadRequest},
		{"update with bad status", http.MethodPut, "/update", url.Values{"id": {"1"}, "description": {"x"}, "status": {"maybe"}}, http.StatusBadRequest},
		{"delete with bad id", http.MethodDelete, "/delete/abc", nil, http.StatusBadRequest},
		{"wrong verb", http.MethodGet, "/create", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doForm(router, tt.method, tt.target, tt.form)
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}

	if todos := listTodos(t, router); len(todos) != 0 {
		t.Errorf("malformed requests must not reach storage, got %+v", todos)
	}
}

type failingTodoService struct {
	err error
}

func (s failingTodoService) EnsureSchema(context.Context) error { return s.err }

func (s failingTodoService) ListTodos(context.Context) ([]*models.Todo, error) {
	return nil, s.err
}

func (s failingTodoService) CreateTodo(context.Context, string) (*models.Todo, error) {
	return nil, s.err
}

func (s failingTodoService) UpdateTodo(context.Context, services.UpdateTodoParams) error {
	return s.err
}

func (s failingTodoService) DeleteTodo(context.Context, int64) error { return s.err }

func TestStorageErrorsAreInternal(t *testing.T) {
	router := newTestRouter(t, failingTodoService{err: errors.New("database is locked")})

	tests := []struct {
		name   string
		method string
		target string
		form   url.Values
	}{
		{"list", http.MethodGet, "/", nil},
		{"create", http.MethodPost, "/create", url.Values{"description": {"x"}}},
		{"update", http.MethodPut, "/update", url.Values{"id": {"1"}, "description": {"x"}, "status": {"false"}}},
		{"delete", http.MethodDelete, "/delete/1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doForm(router, tt.method, tt.target, tt.form)
			if w.Code != http.StatusInternalServerError {
				t.Errorf("expected status 500, got %d", w.Code)
			}
			if w.Body.Len() != 0 {
				t.Errorf("expected empty body, got %q", w.Body.String())
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want outcome
	}{
		{nil, outcomeOK},
		{services.ErrTodoNotFound, outcomeNotFound},
		{errors.Join(errors.New("delete"), services.ErrTodoNotFound), outcomeNotFound},
		{sql.ErrConnDone, outcomeInternal},
	}

	for _, tt := range tests {
		if got := classify(tt.err); got != tt.want {
			t.Errorf("classify(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
