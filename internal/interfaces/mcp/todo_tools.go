package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appTodo "github.com/todostudy/backend/internal/application/todo"
	"github.com/todostudy/backend/internal/domain/todo"
)

// ListTodosInput 列表工具输入（空输入）
type ListTodosInput struct{}

// ListTodosOutput 列表工具输出
type ListTodosOutput struct {
	Todos []*appTodo.TodoDTO `json:"todos" jsonschema:"待办列表，按创建顺序"`
	Count int                `json:"count" jsonschema:"待办总数"`
}

// TodoIDInput 按 ID 操作的工具输入
type TodoIDInput struct {
	ID int64 `json:"id" jsonschema:"待办 ID"`
}

// CreateTodoInput 创建工具输入
type CreateTodoInput struct {
	Title     string `json:"title" jsonschema:"标题，1-200 个字符"`
	Completed *bool  `json:"completed,omitempty" jsonschema:"是否已完成，默认 false"`
}

// UpdateTodoInput 更新工具输入，未提供的字段保持不变
type UpdateTodoInput struct {
	ID        int64   `json:"id" jsonschema:"待办 ID"`
	Title     *string `json:"title,omitempty" jsonschema:"新标题（可选）"`
	Completed *bool   `json:"completed,omitempty" jsonschema:"新的完成状态（可选）"`
}

// TodoOutput 单个待办输出
type TodoOutput struct {
	Todo    *appTodo.TodoDTO `json:"todo" jsonschema:"待办"`
	Message string           `json:"message,omitempty" jsonschema:"附加消息"`
}

func (s *MCPServer) registerTodoTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_todos",
		Description: "List all todos in creation order. No parameters required. Returns: todos array and count.",
	}, s.listTodosTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_todo",
		Description: "Get a single todo. Parameters: id (int, required). Returns: the todo, or an error if it does not exist.",
	}, s.getTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_todo",
		Description: "Create a todo. Parameters: title (string, required, 1-200 characters); completed (bool, optional, defaults to false). Returns: the created todo with id and timestamps.",
	}, s.createTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_todo",
		Description: "Partially update a todo. Parameters: id (int, required); title (string, optional); completed (bool, optional). Omitted fields are left unchanged. Returns: the updated todo.",
	}, s.updateTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_todo",
		Description: "Delete a todo. Parameters: id (int, required). Returns: the deleted todo.",
	}, s.deleteTodoTool)
}

// listTodosTool 列出所有待办
func (s *MCPServer) listTodosTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListTodosInput,
) (*mcp.CallToolResult, ListTodosOutput, error) {
	items, err := s.service.List(ctx)
	if err != nil {
		return nil, ListTodosOutput{}, s.toolError(ctx, "list_todos", err)
	}

	dtos := appTodo.ToDTOs(items)
	return nil, ListTodosOutput{Todos: dtos, Count: len(dtos)}, nil
}

// getTodoTool 获取单个待办
func (s *MCPServer) getTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TodoIDInput,
) (*mcp.CallToolResult, TodoOutput, error) {
	item, err := s.service.Get(ctx, input.ID)
	if err != nil {
		return nil, TodoOutput{}, s.toolError(ctx, "get_todo", err)
	}
	return nil, TodoOutput{Todo: appTodo.ToDTO(item)}, nil
}

// createTodoTool 创建待办
func (s *MCPServer) createTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateTodoInput,
) (*mcp.CallToolResult, TodoOutput, error) {
	title := input.Title
	item, err := s.service.Create(ctx, appTodo.CreateInput{
		Title:     &title,
		Completed: input.Completed,
	})
	if err != nil {
		return nil, TodoOutput{}, s.toolError(ctx, "create_todo", err)
	}
	return nil, TodoOutput{Todo: appTodo.ToDTO(item)}, nil
}

// updateTodoTool 部分更新待办
func (s *MCPServer) updateTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input UpdateTodoInput,
) (*mcp.CallToolResult, TodoOutput, error) {
	item, err := s.service.Update(ctx, input.ID, appTodo.UpdateInput{
		Title:     input.Title,
		Completed: input.Completed,
	})
	if err != nil {
		return nil, TodoOutput{}, s.toolError(ctx, "update_todo", err)
	}
	return nil, TodoOutput{Todo: appTodo.ToDTO(item)}, nil
}

// deleteTodoTool 删除待办
func (s *MCPServer) deleteTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TodoIDInput,
) (*mcp.CallToolResult, TodoOutput, error) {
	item, err := s.service.Delete(ctx, input.ID)
	if err != nil {
		return nil, TodoOutput{}, s.toolError(ctx, "delete_todo", err)
	}
	return nil, TodoOutput{Todo: appTodo.ToDTO(item), Message: "Todo deleted"}, nil
}

// toolError 领域错误原样返回给调用方，存储错误只返回通用消息
func (s *MCPServer) toolError(ctx context.Context, tool string, err error) error {
	if todo.IsValidationError(err) || errors.Is(err, todo.ErrNotFound) {
		return err
	}
	s.logger.ErrorContext(ctx, "Tool call failed", "tool", tool, "error", err)
	return fmt.Errorf("%s: DB error", tool)
}
