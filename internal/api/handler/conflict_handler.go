package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/dto"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/service"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/response"
)

// ConflictHandler 排班冲突检测 HTTP 处理器
type ConflictHandler struct {
	conflictSvc service.ConflictService
}

// NewConflictHandler 创建 ConflictHandler
func NewConflictHandler(conflictSvc service.ConflictService) *ConflictHandler {
	return &ConflictHandler{conflictSvc: conflictSvc}
}

// List 日期范围内的排班冲突，date 缺省为今天
// GET /api/v1/conflicts?date=&days=
func (h *ConflictHandler) List(c *gin.Context) {
	var req dto.ConflictListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	var from time.Time
	if req.Date != "" {
		// datetime 标签已校验格式
		from, _ = time.Parse("2006-01-02", req.Date)
	}

	conflicts, err := h.conflictSvc.FindConflictsInRange(c.Request.Context(), from, req.Days)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, conflicts)
}
