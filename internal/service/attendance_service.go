package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mdmuzammil18/BayerHealthCare/config"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/dto"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/repository"
	pkgerrors "github.com/Mdmuzammil18/BayerHealthCare/pkg/errors"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/metrics"
)

// AttendanceService 出勤业务接口
//
// 状态流转：ABSENT →（签到）PRESENT/LATE →（签退）PRESENT/LATE/EARLY_EXIT。
// 管理员可通过 AdminUpdate 把状态改为任意值，下一次签到/签退事件会重新推导。
type AttendanceService interface {
	// RecordCheckIn 签到，userID 为空表示调用方本人；签到时间只能写入一次
	RecordCheckIn(ctx context.Context, id Identity, shiftID, userID string, at time.Time) (*dto.AttendanceResponse, error)
	// RecordCheckOut 签退，须已签到且尚未签退
	RecordCheckOut(ctx context.Context, id Identity, shiftID, userID string, at time.Time) (*dto.AttendanceResponse, error)
	// AdminUpdate 管理员修正：提供 status 走 SetExplicit，否则在时间变化时走 SetDerived
	AdminUpdate(ctx context.Context, id Identity, attendanceID string, req *dto.UpdateAttendanceRequest) (*dto.AttendanceResponse, error)
	GetByID(ctx context.Context, id Identity, attendanceID string) (*dto.AttendanceResponse, error)
	// ListByUser 人员出勤历史，医护人员只能查看本人
	ListByUser(ctx context.Context, id Identity, userID string, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	loc     *time.Location
	repo    *repository.Repository
	metrics metrics.Recorder
	logger  *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(cfg *config.RosterConfig, repo *repository.Repository, rec metrics.Recorder, logger *zap.Logger) AttendanceService {
	return &attendanceService{loc: cfg.Location(), repo: repo, metrics: rec, logger: logger}
}

// ────────────────────── RecordCheckIn ──────────────────────

func (s *attendanceService) RecordCheckIn(ctx context.Context, id Identity, shiftID, userID string, at time.Time) (*dto.AttendanceResponse, error) {
	subject, err := resolveSubject(id, userID)
	if err != nil {
		return nil, err
	}

	shift, err := s.loadShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Assignment.Get(ctx, shiftID, subject); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, unavailable(s.logger, "查询排班失败", err)
	}

	window, err := shiftWindow(shift, s.loc)
	if err != nil {
		return nil, err
	}
	status := DeriveStatus(&at, nil, window)

	// 出勤记录正常随排班创建，缺失时补建；并发补建时唯一约束冲突可忽略
	if _, err := s.repo.Attendance.GetByShiftAndUser(ctx, shiftID, subject); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unavailable(s.logger, "查询出勤记录失败", err)
		}
		att := &model.Attendance{ShiftID: shiftID, UserID: subject, Status: model.AttendanceAbsent}
		if err := s.repo.Attendance.Create(ctx, att); err != nil {
			switch {
			case errors.Is(err, gorm.ErrDuplicatedKey):
			case errors.Is(err, gorm.ErrForeignKeyViolated):
				// 排班在此期间被撤销
				return nil, ErrAssignmentNotFound
			default:
				return nil, unavailable(s.logger, "补建出勤记录失败", err)
			}
		}
	}

	ok, err := s.repo.Attendance.SetCheckIn(ctx, shiftID, subject, at, status)
	if err != nil {
		return nil, unavailable(s.logger, "写入签到时间失败", err)
	}
	if !ok {
		return nil, ErrAlreadyCheckedIn
	}

	s.metrics.AttendanceEvent("check_in", string(status))
	s.logger.Info("签到成功",
		zap.String("shift_id", shiftID),
		zap.String("user_id", subject),
		zap.String("status", string(status)),
	)
	return s.reload(ctx, shiftID, subject, shift)
}

// ────────────────────── RecordCheckOut ──────────────────────

func (s *attendanceService) RecordCheckOut(ctx context.Context, id Identity, shiftID, userID string, at time.Time) (*dto.AttendanceResponse, error) {
	subject, err := resolveSubject(id, userID)
	if err != nil {
		return nil, err
	}

	att, err := s.repo.Attendance.GetByShiftAndUser(ctx, shiftID, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCheckIn
		}
		return nil, unavailable(s.logger, "查询出勤记录失败", err)
	}
	if att.CheckIn == nil {
		return nil, ErrNoCheckIn
	}
	if att.CheckOut != nil {
		return nil, ErrAlreadyCheckedOut
	}
	if at.Before(*att.CheckIn) {
		return nil, ErrCheckOutBeforeIn
	}

	shift, err := s.loadShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	window, err := shiftWindow(shift, s.loc)
	if err != nil {
		return nil, err
	}
	status := DeriveStatus(att.CheckIn, &at, window)

	ok, err := s.repo.Attendance.SetCheckOut(ctx, att.AttendanceID, *att.CheckIn, at, status)
	if err != nil {
		return nil, unavailable(s.logger, "写入签退时间失败", err)
	}
	if !ok {
		return nil, s.classifyLostCheckOut(ctx, shiftID, subject)
	}

	s.metrics.AttendanceEvent("check_out", string(status))
	s.logger.Info("签退成功",
		zap.String("shift_id", shiftID),
		zap.String("user_id", subject),
		zap.String("status", string(status)),
	)
	return s.reload(ctx, shiftID, subject, shift)
}

// classifyLostCheckOut 条件更新未命中时重新读取，判断失败原因
func (s *attendanceService) classifyLostCheckOut(ctx context.Context, shiftID, userID string) error {
	att, err := s.repo.Attendance.GetByShiftAndUser(ctx, shiftID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoCheckIn
		}
		return unavailable(s.logger, "查询出勤记录失败", err)
	}
	switch {
	case att.CheckOut != nil:
		return ErrAlreadyCheckedOut
	case att.CheckIn == nil:
		return ErrNoCheckIn
	default:
		// 签到时间在此期间被管理员修改
		return pkgerrors.ErrOptimisticLock
	}
}

// ────────────────────── AdminUpdate ──────────────────────

func (s *attendanceService) AdminUpdate(ctx context.Context, id Identity, attendanceID string, req *dto.UpdateAttendanceRequest) (*dto.AttendanceResponse, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	if (req.ClearCheckIn && req.CheckIn != nil) || (req.ClearCheckOut && req.CheckOut != nil) {
		return nil, ErrAmbiguousTimestamp
	}

	var att *model.Attendance
	// 行锁串行化管理员修正与签到/签退；写回时再比对读取时的签到/签退时间
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		current, err := tx.Attendance.GetByIDForUpdate(ctx, attendanceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttendanceNotFound
			}
			return unavailable(s.logger, "锁定出勤记录失败", err)
		}
		prevIn, prevOut := current.CheckIn, current.CheckOut

		timesChanged := false
		switch {
		case req.ClearCheckIn:
			current.CheckIn = nil
			timesChanged = true
		case req.CheckIn != nil:
			t := *req.CheckIn
			current.CheckIn = &t
			timesChanged = true
		}
		switch {
		case req.ClearCheckOut:
			current.CheckOut = nil
			timesChanged = true
		case req.CheckOut != nil:
			t := *req.CheckOut
			current.CheckOut = &t
			timesChanged = true
		}
		if current.CheckOut != nil && (current.CheckIn == nil || current.CheckOut.Before(*current.CheckIn)) {
			return ErrCheckOutBeforeIn
		}

		switch {
		case req.Status != nil:
			if err := s.SetExplicit(current, model.AttendanceStatus(*req.Status)); err != nil {
				return err
			}
		case timesChanged:
			if err := s.SetDerived(ctx, current); err != nil {
				return err
			}
		}

		if req.Remarks != nil {
			remarks := *req.Remarks
			current.Remarks = &remarks
		}
		current.UpdatedBy = &id.UserID

		ok, err := tx.Attendance.Update(ctx, current, prevIn, prevOut)
		if err != nil {
			return unavailable(s.logger, "更新出勤记录失败", err)
		}
		if !ok {
			return pkgerrors.ErrOptimisticLock
		}
		att = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("管理员修正出勤记录",
		zap.String("attendance_id", attendanceID),
		zap.String("status", string(att.Status)),
		zap.String("operator", id.UserID),
	)
	resp := toAttendanceResponse(att)
	return &resp, nil
}

// SetExplicit 原样写入管理员指定的状态，不做推导
// 该状态与签到/签退时间可能不一致，直到下一次签到/签退事件重新推导
func (s *attendanceService) SetExplicit(att *model.Attendance, status model.AttendanceStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus.Withf("%q", status)
	}
	att.Status = status
	return nil
}

// SetDerived 按当前签到/签退时间重新推导状态
func (s *attendanceService) SetDerived(ctx context.Context, att *model.Attendance) error {
	shift := att.Shift
	if shift == nil {
		var err error
		if shift, err = s.loadShift(ctx, att.ShiftID); err != nil {
			return err
		}
	}
	window, err := shiftWindow(shift, s.loc)
	if err != nil {
		return err
	}
	att.Status = DeriveStatus(att.CheckIn, att.CheckOut, window)
	return nil
}

// ────────────────────── Queries ──────────────────────

func (s *attendanceService) GetByID(ctx context.Context, id Identity, attendanceID string) (*dto.AttendanceResponse, error) {
	att, err := s.repo.Attendance.GetByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, unavailable(s.logger, "查询出勤记录失败", err)
	}
	if !id.IsAdmin() && att.UserID != id.UserID {
		return nil, ErrForbidden
	}
	resp := toAttendanceResponse(att)
	return &resp, nil
}

func (s *attendanceService) ListByUser(ctx context.Context, id Identity, userID string, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, error) {
	subject, err := resolveSubject(id, userID)
	if err != nil {
		return nil, err
	}

	filter := repository.AttendanceFilter{UserID: subject, Status: model.AttendanceStatus(req.Status)}
	if filter.From, err = parseOptionalDate(req.StartDate); err != nil {
		return nil, err
	}
	if filter.To, err = parseOptionalDate(req.EndDate); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, ErrInvalidDateRange
	}

	list, err := s.repo.Attendance.List(ctx, filter)
	if err != nil {
		return nil, unavailable(s.logger, "查询出勤历史失败", err)
	}

	result := make([]dto.AttendanceResponse, 0, len(list))
	for i := range list {
		result = append(result, toAttendanceResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── helpers ──────────────────────

func (s *attendanceService) loadShift(ctx context.Context, shiftID string) (*model.Shift, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, unavailable(s.logger, "查询班次失败", err)
	}
	return shift, nil
}

func (s *attendanceService) reload(ctx context.Context, shiftID, userID string, shift *model.Shift) (*dto.AttendanceResponse, error) {
	att, err := s.repo.Attendance.GetByShiftAndUser(ctx, shiftID, userID)
	if err != nil {
		return nil, unavailable(s.logger, "读取出勤记录失败", err)
	}
	att.Shift = shift
	resp := toAttendanceResponse(att)
	return &resp, nil
}
