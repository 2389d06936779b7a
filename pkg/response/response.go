package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"sentinel/pkg/errors"
)

// 统一响应格式：成功为 {"success":true, ...payload}，失败为 {"error":"..."}。

// H 是成功响应的附加载荷
type H map[string]interface{}

// ErrorResponse 统一的错误响应格式
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func errorToHTTPStatus(err error) int {
	def, ok := err.(errors.Definition)
	if !ok {
		return http.StatusInternalServerError
	}

	// 根据错误码映射 HTTP 状态码
	switch def.Code {
	case "INVALID_REQUEST", "INVALID_ACTION", "INVALID_ALERT_LEVEL",
		"INVALID_COORDINATES", "MISSING_FIELD", "INVALID_USER_ID",
		"DEVICE_ALREADY_PAIRED", "ALERT_ALREADY_CLOSED":
		return http.StatusBadRequest // 400
	case "UNAUTHORIZED", "DURESS_INVALID":
		return http.StatusUnauthorized // 401
	case "FORBIDDEN":
		return http.StatusForbidden // 403
	case "ALERT_NOT_FOUND", "NO_ACTIVE_ALERT", "DEVICE_NOT_FOUND",
		"EVENT_NOT_FOUND", "REPORT_NOT_FOUND":
		return http.StatusNotFound // 404
	case "RATE_LIMITED":
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// Success 返回成功响应，payload 各键平铺在 success 字段旁
func Success(ctx context.Context, c *app.RequestContext, payload H) {
	body := H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// BindError 返回请求体解析失败响应
func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: err.Error(),
		Code:  "INVALID_REQUEST",
	})
}
