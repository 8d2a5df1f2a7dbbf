package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/todo-crud/internal/models"
	"github.com/adanyl0v/todo-crud/internal/services"
)

type getTodoResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Status      bool   `json:"status"`
}

func newGetTodoResponse(todo *models.Todo) getTodoResponse {
	return getTodoResponse{
		ID:          todo.ID,
		Description: todo.Description,
		Status:      todo.Status,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *handlerImpl) HandleListTodos(c *gin.Context) {
	logger := h.requestLogger(c)

	todos, err := h.todos.ListTodos(c)
	if abortOnError(c, err) {
		logger.Error().
			Err(err).
			Msg("failed to list todos")
		return
	}

	response := make([]getTodoResponse, len(todos))
	for i, todo := range todos {
		response[i] = newGetTodoResponse(todo)
	}

	logger.Debug().
		Int("count", len(response)).
		Msg("fetched todos")
	c.JSON(http.StatusOK, response)
}

// createTodoRequest only requires the field to be present; an empty
// description is stored as is.
type createTodoRequest struct {
	Description *string `form:"description" binding:"required"`
}

func (h *handlerImpl) HandleCreateTodo(c *gin.Context) {
	logger := h.requestLogger(c)

	var req createTodoRequest
	err := c.ShouldBind(&req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	todo, err := h.todos.CreateTodo(c, *req.Description)
	if abortOnError(c, err) {
		logger.Error().
			Err(err).
			Msg("failed to create todo")
		return
	}

	logger.Info().
		Int64("todo_id", todo.ID).
		Msg("created todo")
	c.JSON(http.StatusOK, newGetTodoResponse(todo))
}

// updateTodoRequest carries a whole todo; pointers let binding tell a
// missing field apart from a zero value such as status=false.
type updateTodoRequest struct {
	ID          *int64  `form:"id" binding:"required"`
	Description *string `form:"description" binding:"required"`
	Status      *bool   `form:"status" binding:"required"`
}

func (h *handlerImpl) HandleUpdateTodo(c *gin.Context) {
	logger := h.requestLogger(c)

	var req updateTodoRequest
	err := c.ShouldBind(&req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	err = h.todos.UpdateTodo(c, services.UpdateTodoParams{
		ID:          *req.ID,
		Description: *req.Description,
		Status:      *req.Status,
	})
	if abortOnError(c, err) {
		logger.Error().
			Err(err).
			Int64("todo_id", *req.ID).
			Msg("failed to update todo")
		return
	}

	logger.Info().
		Int64("todo_id", *req.ID).
		Msg("updated todo")
	c.JSON(http.StatusOK, messageResponse{Message: "todo updated"})
}

func (h *handlerImpl) HandleDeleteTodo(c *gin.Context) {
	logger := h.requestLogger(c)

	todoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error().
			Err(err).
			Str("id", c.Param("id")).
			Msg("failed to parse todo id")
		abort(c, newBadRequestError(errInvalidTodoID.Error()))
		return
	}

	err = h.todos.DeleteTodo(c, todoID)
	if abortOnError(c, err) {
		logger.Error().
			Err(err).
			Int64("todo_id", todoID).
			Msg("failed to delete todo")
		return
	}

	logger.Info().
		Int64("todo_id", todoID).
		Msg("deleted todo")
	c.JSON(http.StatusOK, messageResponse{Message: "todo deleted"})
}
