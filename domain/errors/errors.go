package errors

import (
	"errors"
	"fmt"
)

// ================= 业务领域错误定义 =================
// 所有业务逻辑相关的错误统一在此定义，避免跨包重复定义

// ErrAuthRequired 未认证错误
// 调用者没有提供有效的身份断言时返回此错误，核心操作从不替调用者伪造用户
var ErrAuthRequired = errors.New("authentication required")

// ErrUserNotFound 本地用户不存在错误
// 身份断言有效但本地还没有对应的 User 行（应先调用同步接口）
var ErrUserNotFound = errors.New("user not found, sync required")

// ErrDuplicateUser 唯一性不变量被破坏错误
// 同一个 external_subject 查到多行时返回此错误
// 必须显式失败，绝不允许静默挑一行（防止跨用户数据泄漏）
var ErrDuplicateUser = errors.New("integrity error: multiple users for one external subject")

// ErrNoteNotFound 笔记不存在错误
var ErrNoteNotFound = errors.New("note not found in database")

// ErrForbidden 越权操作错误
// 调用者已认证但不是目标笔记的属主；错误信息不确认记录是否存在
var ErrForbidden = errors.New("not authorized to modify this note")

// ValidationError 输入校验错误
// 携带出错字段和被违反的约束，调用方修正后可重试，永不自动重试
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Constraint)
}

// NewValidationError 构造校验错误
func NewValidationError(field, constraint string) error {
	return &ValidationError{Field: field, Constraint: constraint}
}
