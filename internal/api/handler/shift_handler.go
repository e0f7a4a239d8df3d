package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/dto"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/service"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/response"
)

// ShiftHandler 班次与排班 HTTP 处理器
type ShiftHandler struct {
	shiftSvc      service.ShiftService
	assignmentSvc service.AssignmentService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService, assignmentSvc service.AssignmentService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc, assignmentSvc: assignmentSvc}
}

// List 班次列表
// GET /api/v1/shifts?date=&start_date=&end_date=&type=
func (h *ShiftHandler) List(c *gin.Context) {
	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.shiftSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}

// Create 创建班次
// POST /api/v1/shifts
func (h *ShiftHandler) Create(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, shift)
}

// Get 班次详情（含排班人员）
// GET /api/v1/shifts/:id
func (h *ShiftHandler) Get(c *gin.Context) {
	shift, err := h.shiftSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, shift)
}

// Update 更新班次
// PUT /api/v1/shifts/:id
func (h *ShiftHandler) Update(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	shift, err := h.shiftSvc.Update(c.Request.Context(), id, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, shift)
}

// Delete 删除班次
// DELETE /api/v1/shifts/:id
func (h *ShiftHandler) Delete(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	if err := h.shiftSvc.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Assign 排入人员
// POST /api/v1/shifts/:id/assign
func (h *ShiftHandler) Assign(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	assignment, err := h.assignmentSvc.Assign(c.Request.Context(), id, c.Param("id"), req.UserID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, assignment)
}

// Unassign 撤销排班
// DELETE /api/v1/shifts/:id/assign
func (h *ShiftHandler) Unassign(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.assignmentSvc.Unassign(c.Request.Context(), id, c.Param("id"), req.UserID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListAssignments 班次的排班人员，按排入先后
// GET /api/v1/shifts/:id/assignments
func (h *ShiftHandler) ListAssignments(c *gin.Context) {
	list, err := h.assignmentSvc.ListByShift(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}
