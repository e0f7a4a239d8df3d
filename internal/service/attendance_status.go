package service

import (
	"time"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/timewindow"
)

// LateGraceMinutes 迟到宽限分钟数，迟到恰好 5 分钟不算迟到
const LateGraceMinutes = 5

// DeriveStatus 由签到/签退时间与班次时间窗推导出勤状态（纯函数）
//
//   - 未签到 → ABSENT
//   - 签退早于班次结束 → EARLY_EXIT，优先于迟到
//   - 签到晚于班次开始超过 LateGraceMinutes 分钟 → LATE
//   - 其余 → PRESENT
//
// 迟到分钟数按整分钟截断计算，08:05:59 签到视为迟到 5 分钟
func DeriveStatus(checkIn, checkOut *time.Time, window timewindow.Interval) model.AttendanceStatus {
	if checkIn == nil {
		return model.AttendanceAbsent
	}

	minutesLate := int(checkIn.Sub(window.Start) / time.Minute)
	isLate := minutesLate > LateGraceMinutes

	if checkOut != nil && checkOut.Before(window.End) {
		return model.AttendanceEarlyExit
	}
	if isLate {
		return model.AttendanceLate
	}
	return model.AttendancePresent
}

// shiftWindow 按排班时区换算班次时间窗
func shiftWindow(shift *model.Shift, loc *time.Location) (timewindow.Interval, error) {
	iv, err := timewindow.New(shift.Date, shift.StartTime, shift.EndTime, loc)
	if err != nil {
		return timewindow.Interval{}, ErrInvalidShiftTime.Withf("shift_id=%s", shift.ShiftID)
	}
	return iv, nil
}
