package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/go-todos/internal/models"
	"github.com/dkotenko/go-todos/internal/services"
)

type fakeTodoService struct {
	listFn   func(ctx context.Context) ([]*models.Todo, error)
	createFn func(ctx context.Context, title string) (*models.Todo, error)
	updateFn func(ctx context.Context, id int64, params services.UpdateTodoParams) error
	deleteFn func(ctx context.Context, id int64) error
}

func (s *fakeTodoService) ListTodos(ctx context.Context) ([]*models.Todo, error) {
	return s.listFn(ctx)
}

func (s *fakeTodoService) CreateTodo(ctx context.Context, title string) (*models.Todo, error) {
	return s.createFn(ctx, title)
}

func (s *fakeTodoService) UpdateTodoFields(ctx context.Context, id int64, params services.UpdateTodoParams) error {
	return s.updateFn(ctx, id, params)
}

func (s *fakeTodoService) DeleteTodo(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func newTestRouter(svc services.TodoService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, New(zerolog.Nop(), svc))
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleListTodos(t *testing.T) {
	createdAt := time.Date(2025, time.November, 7, 12, 0, 0, 0, time.UTC)
	svc := &fakeTodoService{
		listFn: func(context.Context) ([]*models.Todo, error) {
			return []*models.Todo{
				{ID: 2, Title: "walk the dog", Done: true, CreatedAt: createdAt},
				{ID: 1, Title: "buy milk", Done: false, CreatedAt: createdAt},
			}, nil
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 2)

	assert.Equal(t, float64(2), response[0]["id"])
	assert.Equal(t, "walk the dog", response[0]["title"])
	assert.Equal(t, true, response[0]["done"])
	assert.Equal(t, "2025-11-07T12:00:00Z", response[0]["created_at"])

	assert.Equal(t, float64(1), response[1]["id"])
	assert.Equal(t, false, response[1]["done"])
}

func TestHandleListTodos_Empty(t *testing.T) {
	svc := &fakeTodoService{
		listFn: func(context.Context) ([]*models.Todo, error) {
			return []*models.Todo{}, nil
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestHandleListTodos_StoreError(t *testing.T) {
	svc := &fakeTodoService{
		listFn: func(context.Context) ([]*models.Todo, error) {
			return nil, errors.New("connection refused")
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Internal Server Error"}`, w.Body.String())
}

func TestHandleCreateTodo(t *testing.T) {
	createdAt := time.Date(2025, time.November, 7, 12, 0, 0, 0, time.UTC)
	svc := &fakeTodoService{
		createFn: func(_ context.Context, title string) (*models.Todo, error) {
			return &models.Todo{ID: 1, Title: title, CreatedAt: createdAt}, nil
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodPost, "/api/todos", `{"title": "buy milk"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{
		"id": 1,
		"title": "buy milk",
		"done": false,
		"created_at": "2025-11-07T12:00:00Z"
	}`, w.Body.String())
}

func TestHandleCreateTodo_EmptyTitleAccepted(t *testing.T) {
	var gotTitle string
	svc := &fakeTodoService{
		createFn: func(_ context.Context, title string) (*models.Todo, error) {
			gotTitle = title
			return &models.Todo{ID: 1, Title: title}, nil
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodPost, "/api/todos", `{"title": ""}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, gotTitle)
}

func TestHandleCreateTodo_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{}`},
		{name: "wrong-typed title", body: `{"title": 123}`},
		{name: "malformed json", body: `{"title"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeTodoService{
				createFn: func(context.Context, string) (*models.Todo, error) {
					t.Fatal("service must not be called for an invalid body")
					return nil, nil
				},
			}

			w := doRequest(newTestRouter(svc), http.MethodPost, "/api/todos", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}
}

func TestHandleCreateTodo_StoreError(t *testing.T) {
	svc := &fakeTodoService{
		createFn: func(context.Context, string) (*models.Todo, error) {
			return nil, errors.New("connection refused")
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodPost, "/api/todos", `{"title": "buy milk"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleUpdateTodo(t *testing.T) {
	var gotID int64
	var gotParams services.UpdateTodoParams
	svc := &fakeTodoService{
		updateFn: func(_ context.Context, id int64, params services.UpdateTodoParams) error {
			gotID = id
			gotParams = params
			return nil
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodPatch, "/api/todos/1", `{"done": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())

	assert.Equal(t, int64(1), gotID)
	assert.Nil(t, gotParams.Title, "title must stay untouched")
	require.NotNil(t, gotParams.Done)
	assert.True(t, *gotParams.Done)
}

func TestHandleUpdateTodo_EmptyBody(t *testing.T) {
	svc := &fakeTodoService{
		updateFn: func(_ context.Context, _ int64, params services.UpdateTodoParams) error {
			if params.Title == nil && params.Done == nil {
				return services.ErrNoFieldsToUpdate
			}
			return nil
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodPatch, "/api/todos/1", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "no fields to update"}`, w.Body.String())
}

func TestHandleUpdateTodo_NotFound(t *testing.T) {
	svc := &fakeTodoService{
		updateFn: func(context.Context, int64, services.UpdateTodoParams) error {
			return services.ErrTodoNotFound
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodPatch, "/api/todos/999999", `{"done": true}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleUpdateTodo_InvalidID(t *testing.T) {
	svc := &fakeTodoService{
		updateFn: func(context.Context, int64, services.UpdateTodoParams) error {
			t.Fatal("service must not be called for an invalid id")
			return nil
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodPatch, "/api/todos/abc", `{"done": true}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpdateTodo_StoreError(t *testing.T) {
	svc := &fakeTodoService{
		updateFn: func(context.Context, int64, services.UpdateTodoParams) error {
			return errors.New("connection refused")
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodPatch, "/api/todos/1", `{"done": true}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleDeleteTodo(t *testing.T) {
	var gotID int64
	svc := &fakeTodoService{
		deleteFn: func(_ context.Context, id int64) error {
			gotID = id
			return nil
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodDelete, "/api/todos/1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, int64(1), gotID)
}

func TestHandleDeleteTodo_NotFound(t *testing.T) {
	svc := &fakeTodoService{
		deleteFn: func(context.Context, int64) error {
			return services.ErrTodoNotFound
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodDelete, "/api/todos/999999", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDeleteTodo_InvalidID(t *testing.T) {
	svc := &fakeTodoService{
		deleteFn: func(context.Context, int64) error {
			t.Fatal("service must not be called for an invalid id")
			return nil
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodDelete, "/api/todos/abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDeleteTodo_StoreError(t *testing.T) {
	svc := &fakeTodoService{
		deleteFn: func(context.Context, int64) error {
			return errors.New("connection refused")
		},
	}

	w := doRequest(newTestRouter(svc), http.MethodDelete, "/api/todos/1", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
