package todo

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength 标题最大长度（按字符计）
const MaxTitleLength = 200

// Todo 待办事项实体
type Todo struct {
	ID        int64     // 存储层分配的自增主键，删除后不复用
	Title     string    // 标题，必填
	Completed bool      // 是否完成
	CreatedAt time.Time // 创建时间（UTC），插入后不再修改
	UpdatedAt time.Time // 最后更新时间（UTC），每次成功修改时刷新
}

// ApplyTitle 设置标题（去除首尾空白）
func (t *Todo) ApplyTitle(title string) {
	t.Title = strings.TrimSpace(title)
}

// Clone 返回副本
func (t *Todo) Clone() *Todo {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// ValidateTitle 校验标题（领域规则）
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
