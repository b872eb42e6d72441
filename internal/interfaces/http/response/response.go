package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 响应状态
const (
	StatusSuccess = "success"
	StatusFail    = "fail"  // 客户端错误（4xx）
	StatusError   = "error" // 服务端错误（5xx）
)

// Response 统一响应信封
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

// ErrorResponse 错误响应（仅用于文档）
type ErrorResponse struct {
	Status  string `json:"status" example:"fail"`
	Message string `json:"message" example:"Todo not found"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status: StatusSuccess,
		Data:   data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Status: StatusSuccess,
		Data:   data,
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Status:  StatusSuccess,
		Data:    data,
		Message: message,
	})
}

// List 列表响应（带总数）
func List(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, Response{
		Status: StatusSuccess,
		Data:   data,
		Count:  &count,
	})
}

// Fail 客户端错误响应
func Fail(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, Response{
		Status:  StatusFail,
		Message: message,
	})
}

// Error 服务端错误响应，不携带内部细节
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, Response{
		Status:  StatusError,
		Message: message,
	})
}
