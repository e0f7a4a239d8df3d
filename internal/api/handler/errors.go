package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/service"
	pkgerrors "github.com/Mdmuzammil18/BayerHealthCare/pkg/errors"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/response"
)

// handleError 按错误分类映射 HTTP 状态，业务码与消息取自错误定义
func handleError(c *gin.Context, err error) {
	def, ok := pkgerrors.Lookup(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			response.ServiceUnavailable(c, pkgerrors.ErrUnavailable.Code, pkgerrors.ErrUnavailable.Message)
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	status := http.StatusInternalServerError
	switch def.Kind {
	case pkgerrors.KindNotFound:
		status = http.StatusNotFound
	case pkgerrors.KindConflict:
		status = http.StatusConflict
	case pkgerrors.KindInvalidState:
		status = http.StatusUnprocessableEntity
	case pkgerrors.KindForbidden:
		status = http.StatusForbidden
	case pkgerrors.KindUnavailable:
		status = http.StatusServiceUnavailable
	case pkgerrors.KindInvalidArgument:
		status = http.StatusBadRequest
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
	}

	switch def.Kind {
	case pkgerrors.KindUnavailable, pkgerrors.KindInternal:
		// 底层错误只记录不外露
		_ = c.Error(err)
		response.Error(c, status, def.Code, def.Message)
	default:
		if detail := err.Error(); detail != def.Message {
			response.ErrorWithDetails(c, status, def.Code, def.Message, detail)
			return
		}
		response.Error(c, status, def.Code, def.Message)
	}
}

// bindFailed 请求体绑定失败：超出大小限制返回 413，其余返回 400
func bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
		return
	}
	response.BadRequest(c, 10001, "参数校验失败")
}
