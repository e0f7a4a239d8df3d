package service

import (
	"go.uber.org/zap"

	pkgerrors "github.com/Mdmuzammil18/BayerHealthCare/pkg/errors"
)

// 业务错误定义，业务码前三位对应 HTTP 状态
var (
	// ── 通用 ──
	ErrForbidden = pkgerrors.Define(pkgerrors.KindForbidden, 40300, "无权执行该操作")

	// ── 认证 ──
	ErrInvalidCredentials = pkgerrors.Define(pkgerrors.KindInvalidArgument, 40101, "邮箱或密码错误")

	// ── 人员 ──
	ErrUserNotFound  = pkgerrors.Define(pkgerrors.KindNotFound, 40405, "用户不存在")
	ErrStaffNotFound = pkgerrors.Define(pkgerrors.KindNotFound, 40401, "人员不存在或不可排班")
	ErrEmailTaken    = pkgerrors.Define(pkgerrors.KindConflict, 40911, "邮箱已被使用")

	// ── 班次 ──
	ErrShiftNotFound      = pkgerrors.Define(pkgerrors.KindNotFound, 40402, "班次不存在")
	ErrInvalidShiftTime   = pkgerrors.Define(pkgerrors.KindInvalidArgument, 40021, "班次时间格式必须为 HH:MM")
	ErrInvalidDate        = pkgerrors.Define(pkgerrors.KindInvalidArgument, 40022, "日期格式必须为 YYYY-MM-DD")
	ErrInvalidDateRange   = pkgerrors.Define(pkgerrors.KindInvalidArgument, 40023, "日期范围不合法")
	ErrCapacityBelowCount = pkgerrors.Define(pkgerrors.KindInvalidArgument, 40024, "容量不能小于当前已排班人数")

	// ── 排班 ──
	ErrCapacityExceeded    = pkgerrors.Define(pkgerrors.KindConflict, 40921, "班次人数已满")
	ErrDuplicateAssignment = pkgerrors.Define(pkgerrors.KindConflict, 40922, "该人员已排入此班次")
	ErrSchedulingConflict  = pkgerrors.Define(pkgerrors.KindConflict, 40923, "该人员当天已有时间重叠的班次")
	ErrAssignmentNotFound  = pkgerrors.Define(pkgerrors.KindNotFound, 40403, "排班记录不存在")

	// ── 出勤 ──
	ErrAttendanceNotFound = pkgerrors.Define(pkgerrors.KindNotFound, 40404, "出勤记录不存在")
	ErrAlreadyCheckedIn   = pkgerrors.Define(pkgerrors.KindConflict, 40931, "已签到，不能重复签到")
	ErrAlreadyCheckedOut  = pkgerrors.Define(pkgerrors.KindConflict, 40932, "已签退，不能重复签退")
	ErrNoCheckIn          = pkgerrors.Define(pkgerrors.KindInvalidState, 42201, "请先签到再签退")
	ErrCheckOutBeforeIn   = pkgerrors.Define(pkgerrors.KindInvalidArgument, 40031, "签退时间不能早于签到时间")
	ErrInvalidStatus      = pkgerrors.Define(pkgerrors.KindInvalidArgument, 40032, "出勤状态不合法")
	ErrAmbiguousTimestamp = pkgerrors.Define(pkgerrors.KindInvalidArgument, 40033, "不能同时设置并清除同一时间")
)

// unavailable 记录持久化层异常并包装为 Unavailable 分类
func unavailable(logger *zap.Logger, msg string, err error) error {
	logger.Error(msg, zap.Error(err))
	return pkgerrors.Unavailable(err)
}
