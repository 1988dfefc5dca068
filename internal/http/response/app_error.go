package response

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// AppError 携带 HTTP 状态码与对外文案的错误，Err 仅用于日志
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err == nil:
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WrapError 包装原始错误
func WrapError(status int, message string, err error) *AppError {
	return &AppError{Status: status, Message: message, Err: err}
}

// NewError 无原始错误的 AppError
func NewError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

// AsAppError 从错误链中提取 AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr, true
	}
	return nil, false
}

// Fail 按 AppError 输出错误响应
func Fail(c *gin.Context, err *AppError) {
	if err == nil {
		return
	}
	Error(c, err.Status, err.Message)
}
