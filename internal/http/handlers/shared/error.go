package shared

import (
	"errors"
	"net/http"

	"github.com/ninetytwo-orders/internal/constants"
	"github.com/ninetytwo-orders/internal/export"
	"github.com/ninetytwo-orders/internal/http/response"
	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 对外错误文案
const (
	MsgUnauthorized       = "Unauthorized"
	MsgForbidden          = "Forbidden"
	MsgInvalidCredentials = "Invalid login or password"
	MsgSlugTitleRequired  = "slug and title are required"
	MsgNoProducts         = "Select at least one product"
	MsgOrderNotFound      = "Order not found"
	MsgRowNotFound        = "Row not found"
	MsgTooManyRows        = "Too many rows"
	MsgInvalidBody        = "Invalid request body"
	MsgCaptchaRequired    = "Captcha required"
	MsgCaptchaInvalid     = "Captcha invalid"
	MsgCaptchaDisabled    = "Captcha disabled"
	MsgInvalidExportMode  = "Invalid export mode"
	MsgNoSuggestion       = "No size suggestion"
	MsgTooManyRequests    = "Too many requests"
	MsgInternal           = "Internal server error"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(constants.ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, status int, msg string, err error) {
	respondAppError(c, response.WrapError(status, msg, err))
}

func respondAppError(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		log := RequestLog(c)
		if appErr.Status >= http.StatusInternalServerError {
			log.Errorw("handler_error", "status", appErr.Status, "message", appErr.Message, "error", appErr.Err)
		} else {
			log.Warnw("handler_error", "status", appErr.Status, "message", appErr.Message, "error", appErr.Err)
		}
	}
	response.Fail(c, appErr)
}

// serviceErrorRule service 错误到响应的映射；logged 为 true 时记录原始错误
type serviceErrorRule struct {
	target error
	status int
	msg    string
	logged bool
}

var serviceErrorRules = []serviceErrorRule{
	{service.ErrOrderNotFound, http.StatusNotFound, MsgOrderNotFound, false},
	{service.ErrRowNotFound, http.StatusNotFound, MsgRowNotFound, false},
	{service.ErrSlugTitleRequired, http.StatusBadRequest, MsgSlugTitleRequired, false},
	{service.ErrNoProducts, http.StatusBadRequest, MsgNoProducts, false},
	{service.ErrTooManyRows, http.StatusBadRequest, MsgTooManyRows, false},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, MsgInvalidCredentials, false},
	{service.ErrCaptchaRequired, http.StatusBadRequest, MsgCaptchaRequired, false},
	{service.ErrCaptchaInvalid, http.StatusBadRequest, MsgCaptchaInvalid, false},
	{service.ErrCaptchaDisabled, http.StatusNotFound, MsgCaptchaDisabled, false},
	{export.ErrInvalidMode, http.StatusBadRequest, MsgInvalidExportMode, false},
	{service.ErrArchiveDirMissing, http.StatusInternalServerError, MsgInternal, true},
}

// MapServiceError 将 service 层错误转换为 AppError；未识别的错误按 fallback 状态码透传原始信息
func MapServiceError(err error, fallback int) *response.AppError {
	if appErr, ok := response.AsAppError(err); ok {
		return appErr
	}
	var dup *service.DuplicateColorError
	if errors.As(err, &dup) {
		return response.NewError(http.StatusBadRequest, dup.Error())
	}
	if errors.Is(err, service.ErrRowDataInvalid) {
		return response.WrapError(http.StatusBadRequest, err.Error(), err)
	}
	for _, rule := range serviceErrorRules {
		if !errors.Is(err, rule.target) {
			continue
		}
		if rule.logged {
			return response.WrapError(rule.status, rule.msg, err)
		}
		return response.NewError(rule.status, rule.msg)
	}
	return response.WrapError(fallback, err.Error(), err)
}

// RespondServiceError 输出 service 层错误
func RespondServiceError(c *gin.Context, err error, fallback int) {
	respondAppError(c, MapServiceError(err, fallback))
}
