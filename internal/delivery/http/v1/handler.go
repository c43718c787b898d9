package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dkotenko/go-todos/internal/services"
)

type Handler interface {
	HandleRequestLogging(c *gin.Context)

	HandleHealth(c *gin.Context)

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

func RegisterRoutes(router gin.IRouter, handler Handler) {
	router = router.Group("/api", handler.HandleRequestLogging)

	router.GET("/health", handler.HandleHealth)

	todosRouter := router.Group("/todos")
	todosRouter.GET("", handler.HandleListTodos)
	todosRouter.POST("", handler.HandleCreateTodo)
	todosRouter.PATCH("/:id", handler.HandleUpdateTodo)
	todosRouter.DELETE("/:id", handler.HandleDeleteTodo)
}
