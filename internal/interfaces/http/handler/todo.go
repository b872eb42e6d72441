package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	appTodo "github.com/todostudy/backend/internal/application/todo"
	"github.com/todostudy/backend/internal/domain/todo"
	"github.com/todostudy/backend/internal/infrastructure/log"
	"github.com/todostudy/backend/internal/interfaces/http/response"
	"github.com/todostudy/backend/internal/interfaces/http/validation"
)

// 错误提示
const (
	MessageNotFound    = "Todo not found"
	MessageStoreError  = "DB error"
	MessageDeleted     = "Todo deleted"
	MessageInvalidTodo = "invalid todo id"
)

// TodoService 待办用例接口
type TodoService interface {
	List(ctx context.Context) ([]*todo.Todo, error)
	Get(ctx context.Context, id int64) (*todo.Todo, error)
	Create(ctx context.Context, in appTodo.CreateInput) (*todo.Todo, error)
	Update(ctx context.Context, id int64, in appTodo.UpdateInput) (*todo.Todo, error)
	Delete(ctx context.Context, id int64) (*todo.Todo, error)
}

// TodoHandler 待办事项处理器
type TodoHandler struct {
	service TodoService
	logger  *slog.Logger
}

// NewTodoHandler 创建待办事项处理器
func NewTodoHandler(service TodoService) *TodoHandler {
	return &TodoHandler{
		service: service,
		logger:  log.NewModuleLogger("http", "todo_handler"),
	}
}

// List 获取待办列表
// @Summary 获取待办列表
// @Tags 待办
// @Produce json
// @Success 200 {object} response.Response{data=[]appTodo.TodoDTO}
// @Failure 500 {object} response.ErrorResponse
// @Router /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	dtos := appTodo.ToDTOs(items)
	response.List(c, dtos, len(dtos))
}

// Get 获取单个待办
// @Summary 获取单个待办
// @Tags 待办
// @Produce json
// @Param id path int true "待办 ID"
// @Success 200 {object} response.Response{data=appTodo.TodoDTO}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [get]
func (h *TodoHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, appTodo.ToDTO(item))
}

// Create 创建待办
// @Summary 创建待办
// @Tags 待办
// @Accept json
// @Produce json
// @Param body body appTodo.CreateInput true "待办内容"
// @Success 201 {object} response.Response{data=appTodo.TodoDTO}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var in appTodo.CreateInput
	if !h.decode(c, validation.CreateTodo, &in) {
		return
	}

	item, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, appTodo.ToDTO(item))
}

// Update 部分更新待办
// @Summary 更新待办
// @Tags 待办
// @Accept json
// @Produce json
// @Param id path int true "待办 ID"
// @Param body body appTodo.UpdateInput true "需要修改的字段"
// @Success 200 {object} response.Response{data=appTodo.TodoDTO}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var in appTodo.UpdateInput
	if !h.decode(c, validation.UpdateTodo, &in) {
		return
	}

	item, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, appTodo.ToDTO(item))
}

// Delete 删除待办
// @Summary 删除待办
// @Tags 待办
// @Produce json
// @Param id path int true "待办 ID"
// @Success 200 {object} response.Response{data=appTodo.TodoDTO}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	item, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMessage(c, appTodo.ToDTO(item), MessageDeleted)
}

// parseID 解析路径中的 ID，并写入日志上下文
func (h *TodoHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, MessageInvalidTodo)
		return 0, false
	}
	c.Request = c.Request.WithContext(log.WithTodoID(c.Request.Context(), id))
	return id, true
}

func (h *TodoHandler) decode(c *gin.Context, schema *jsonschema.Schema, out interface{}) bool {
	raw, err := c.GetRawData()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if err := validation.Decode(raw, schema, out); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleError 错误分类：校验 400，不存在 404，其余 500 且不暴露细节
func (h *TodoHandler) handleError(c *gin.Context, err error) {
	switch {
	case todo.IsValidationError(err):
		response.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, todo.ErrNotFound):
		response.Fail(c, http.StatusNotFound, MessageNotFound)
	default:
		h.logger.ErrorContext(c.Request.Context(), "Todo operation failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, MessageStoreError)
	}
}
