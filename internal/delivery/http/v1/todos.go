package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkotenko/go-todos/internal/models"
	"github.com/dkotenko/go-todos/internal/services"
)

type getTodoResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

func newGetTodoResponse(todo *models.Todo) getTodoResponse {
	return getTodoResponse{
		ID:        todo.ID,
		Title:     todo.Title,
		Done:      todo.Done,
		CreatedAt: todo.CreatedAt,
	}
}

func (h *handlerImpl) HandleListTodos(c *gin.Context) {
	todos, err := h.todos.ListTodos(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list todos")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getTodoResponse, len(todos))
	for i, todo := range todos {
		response[i] = newGetTodoResponse(todo)
	}

	c.JSON(http.StatusOK, response)
}

type createTodoRequest struct {
	// A pointer tracks field presence: an omitted or wrong-typed
	// title is rejected, an empty string is accepted and stored.
	Title *string `json:"title" binding:"required"`
}

func (h *handlerImpl) HandleCreateTodo(c *gin.Context) {
	var req createTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newUnprocessableEntityError(errInvalidRequestBody.Error()))
		return
	}

	todo, err := h.todos.CreateTodo(c, *req.Title)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create todo")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newGetTodoResponse(todo))
}

type updateTodoRequest struct {
	Title *string `json:"title,omitempty"`
	Done  *bool   `json:"done,omitempty"`
}

func (h *handlerImpl) HandleUpdateTodo(c *gin.Context) {
	todoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("id", c.Param("id")).
			Msg("failed to parse todo id")
		abort(c, newBadRequestError(errInvalidTodoID.Error()))
		return
	}

	var req updateTodoRequest
	err = c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	err = h.todos.UpdateTodoFields(c, todoID, services.UpdateTodoParams{
		Title: req.Title,
		Done:  req.Done,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			abort(c, newBadRequestError(err.Error()))
		case errors.Is(err, services.ErrTodoNotFound):
			abort(c, newNotFoundError(err.Error()))
		default:
			h.logger.Error().
				Err(err).
				Int64("todo_id", todoID).
				Msg("failed to update todo")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *handlerImpl) HandleDeleteTodo(c *gin.Context) {
	todoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("id", c.Param("id")).
			Msg("failed to parse todo id")
		abort(c, newBadRequestError(errInvalidTodoID.Error()))
		return
	}

	err = h.todos.DeleteTodo(c, todoID)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			abort(c, newNotFoundError(err.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Int64("todo_id", todoID).
			Msg("failed to delete todo")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Status(http.StatusNoContent)
}
