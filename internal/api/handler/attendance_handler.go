package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/dto"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/service"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/response"
)

// AttendanceHandler 出勤 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	// now 签到/签退时间取服务器时间
	now func() time.Time
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc, now: time.Now}
}

// CheckIn 签到
// POST /api/v1/attendance/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	id, req, ok := h.bindCheck(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.RecordCheckIn(c.Request.Context(), id, req.ShiftID, deref(req.UserID), h.now())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// CheckOut 签退
// POST /api/v1/attendance/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	id, req, ok := h.bindCheck(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.RecordCheckOut(c.Request.Context(), id, req.ShiftID, deref(req.UserID), h.now())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Update 管理员修正出勤记录
// PUT /api/v1/attendance/:id
func (h *AttendanceHandler) Update(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.attendanceSvc.AdminUpdate(c.Request.Context(), id, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Get 出勤记录详情
// GET /api/v1/attendance/:id
func (h *AttendanceHandler) Get(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.GetByID(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ListByUser 人员出勤历史
// GET /api/v1/attendance/user/:id?start_date=&end_date=&status=
func (h *AttendanceHandler) ListByUser(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.attendanceSvc.ListByUser(c.Request.Context(), id, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}

func (h *AttendanceHandler) bindCheck(c *gin.Context) (service.Identity, *dto.CheckInRequest, bool) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return service.Identity{}, nil, false
	}
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return service.Identity{}, nil, false
	}
	return id, &req, true
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
