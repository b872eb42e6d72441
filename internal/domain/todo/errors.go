package todo

import "errors"

var (
	// ErrNotFound 待办不存在
	ErrNotFound = errors.New("todo not found")
	// ErrTitleRequired 缺少标题
	ErrTitleRequired = errors.New("title is required")
	// ErrTitleTooLong 标题超长
	ErrTitleTooLong = errors.New("title must be at most 200 characters")
)

// IsValidationError 判断是否为参数校验错误
func IsValidationError(err error) bool {
	return errors.Is(err, ErrTitleRequired) || errors.Is(err, ErrTitleTooLong)
}
