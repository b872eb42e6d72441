//go:build integration
// +build integration

// APIClient 基于 resty 封装的 HTTP 客户端，直接复用业务结构体
package framework

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	appTodo "github.com/todostudy/backend/internal/application/todo"
)

// APIClient 测试用 HTTP 客户端
type APIClient struct {
	client  *resty.Client
	baseURL string
}

// NewAPIClient 创建测试用 HTTP 客户端
func NewAPIClient(baseURL string) *APIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")

	return &APIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// Envelope 响应信封（与 response.Response 的 JSON 结构一致）
type Envelope[T any] struct {
	Status  string `json:"status"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`

	HTTPStatus int `json:"-"`
}

// do 执行请求并统一解析成功/错误响应
// resty 的 SetResult 仅在 2xx 时解析，SetError 在 4xx/5xx 时解析
func do[T any](r *resty.Request, method, path string) (*Envelope[T], error) {
	var result Envelope[T]
	resp, err := r.SetResult(&result).SetError(&result).Execute(method, path)
	if err != nil {
		return nil, err
	}
	result.HTTPStatus = resp.StatusCode()
	return &result, nil
}

// HealthCheck 健康检查
func (c *APIClient) HealthCheck() error {
	resp, err := c.client.R().Get("/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode())
	}
	return nil
}

// ListTodos 获取待办列表
func (c *APIClient) ListTodos() (*Envelope[[]appTodo.TodoDTO], error) {
	return do[[]appTodo.TodoDTO](c.client.R(), resty.MethodGet, "/api/todos")
}

// GetTodo 获取单个待办
func (c *APIClient) GetTodo(id int64) (*Envelope[*appTodo.TodoDTO], error) {
	return do[*appTodo.TodoDTO](c.client.R(), resty.MethodGet, fmt.Sprintf("/api/todos/%d", id))
}

// CreateTodo 创建待办，body 原样发送
func (c *APIClient) CreateTodo(body interface{}) (*Envelope[*appTodo.TodoDTO], error) {
	return do[*appTodo.TodoDTO](c.client.R().SetBody(body), resty.MethodPost, "/api/todos")
}

// UpdateTodo 更新待办，body 原样发送
func (c *APIClient) UpdateTodo(id int64, body interface{}) (*Envelope[*appTodo.TodoDTO], error) {
	return do[*appTodo.TodoDTO](c.client.R().SetBody(body), resty.MethodPut, fmt.Sprintf("/api/todos/%d", id))
}

// DeleteTodo 删除待办
func (c *APIClient) DeleteTodo(id int64) (*Envelope[*appTodo.TodoDTO], error) {
	return do[*appTodo.TodoDTO](c.client.R(), resty.MethodDelete, fmt.Sprintf("/api/todos/%d", id))
}
