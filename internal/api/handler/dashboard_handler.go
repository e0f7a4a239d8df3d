package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/service"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/response"
)

// DashboardHandler 仪表盘 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Today 当日概览
// GET /api/v1/dashboard/today
func (h *DashboardHandler) Today(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.dashboardSvc.Today(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
