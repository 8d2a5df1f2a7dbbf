package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/todo-crud/internal/services"
)

type Handler interface {
	HandleListTodos(c *gin.Context)
	HandleCreateTodo(c *gin.Context)
	HandleUpdateTodo(c *gin.Context)
	HandleDeleteTodo(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	todos  services.TodoService
}

func New(
	logger zerolog.Logger,
	todoService services.TodoService,
) Handler {
	return &handlerImpl{
		logger: logger,
		todos:  todoService,
	}
}

// Register binds the todo routes to the router.
func Register(router gin.IRouter, h Handler) {
	router.GET("/", h.HandleListTodos)
	router.POST("/create", h.HandleCreateTodo)
	router.PUT("/update", h.HandleUpdateTodo)
	router.DELETE("/delete/:id", h.HandleDeleteTodo)
}

// requestLogger returns the logger RequestID stored for this request,
// falling back to the handler logger.
func (h *handlerImpl) requestLogger(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerCtxKey); ok {
		if l, ok := v.(zerolog.Logger); ok {
			return &l
		}
	}
	return &h.logger
}
