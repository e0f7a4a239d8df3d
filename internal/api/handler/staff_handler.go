package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/dto"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/service"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/response"
)

// StaffHandler 医护人员管理 HTTP 处理器
type StaffHandler struct {
	staffSvc service.StaffService
}

// NewStaffHandler 创建 StaffHandler
func NewStaffHandler(staffSvc service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

// List 人员列表
// GET /api/v1/staff
func (h *StaffHandler) List(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.StaffListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.staffSvc.List(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	page := dto.PageRequest{Page: req.Page, PageSize: req.PageSize}
	page.Normalize()
	response.OKPage(c, list, total, page.Page, page.PageSize)
}

// Create 新增人员
// POST /api/v1/staff
func (h *StaffHandler) Create(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.staffSvc.Create(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, user)
}

// Get 人员详情
// GET /api/v1/staff/:id
func (h *StaffHandler) Get(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	user, err := h.staffSvc.GetByID(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, user)
}

// Update 更新人员
// PUT /api/v1/staff/:id
func (h *StaffHandler) Update(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.staffSvc.Update(c.Request.Context(), id, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, user)
}

// Delete 删除人员
// DELETE /api/v1/staff/:id
func (h *StaffHandler) Delete(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	if err := h.staffSvc.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}
