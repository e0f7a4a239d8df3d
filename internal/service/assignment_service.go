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
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/metrics"
)

// AssignmentService 排班业务接口
type AssignmentService interface {
	// Assign 将人员排入班次，同时创建 ABSENT 出勤记录
	// 失败顺序：班次不存在 → 人数已满 → 人员不存在/非医护 → 重复排班 → 时间冲突
	Assign(ctx context.Context, id Identity, shiftID, userID string) (*dto.AssignmentResponse, error)
	// Unassign 撤销排班，连同出勤记录一并删除
	Unassign(ctx context.Context, id Identity, shiftID, userID string) error
	ListByShift(ctx context.Context, shiftID string) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	loc     *time.Location
	repo    *repository.Repository
	metrics metrics.Recorder
	logger  *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(cfg *config.RosterConfig, repo *repository.Repository, rec metrics.Recorder, logger *zap.Logger) AssignmentService {
	return &assignmentService{loc: cfg.Location(), repo: repo, metrics: rec, logger: logger}
}

// ────────────────────── Assign ──────────────────────

func (s *assignmentService) Assign(ctx context.Context, id Identity, shiftID, userID string) (*dto.AssignmentResponse, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	var created *model.ShiftAssignment
	// 加锁顺序固定为 班次 → 人员：
	// 班次行锁串行化同一班次的容量检查，人员行锁串行化同一人员的冲突检查
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		shift, err := tx.Shift.GetByIDForUpdate(ctx, shiftID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShiftNotFound
			}
			return unavailable(s.logger, "锁定班次失败", err)
		}

		count, err := tx.Assignment.CountByShift(ctx, shiftID)
		if err != nil {
			return unavailable(s.logger, "统计排班人数失败", err)
		}
		if int(count) >= shift.Capacity {
			return ErrCapacityExceeded.Withf("容量 %d", shift.Capacity)
		}

		user, err := tx.User.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStaffNotFound
			}
			return unavailable(s.logger, "锁定人员失败", err)
		}
		if !user.IsStaff() {
			return ErrStaffNotFound
		}

		if _, err := tx.Assignment.Get(ctx, shiftID, userID); err == nil {
			return ErrDuplicateAssignment
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return unavailable(s.logger, "查询排班失败", err)
		}

		other, err := findOverlappingShift(ctx, tx, s.loc, userID, shift)
		if err != nil {
			return err
		}
		if other != nil {
			return ErrSchedulingConflict.Withf("与班次 %s 时间重叠", describeShift(other))
		}

		a := &model.ShiftAssignment{ShiftID: shiftID, UserID: userID, AssignedBy: &id.UserID}
		if err := tx.Assignment.Create(ctx, a); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateAssignment
			}
			return unavailable(s.logger, "创建排班失败", err)
		}

		att := &model.Attendance{ShiftID: shiftID, UserID: userID, Status: model.AttendanceAbsent}
		if err := tx.Attendance.Create(ctx, att); err != nil {
			return unavailable(s.logger, "创建出勤记录失败", err)
		}

		a.User = user
		created = a
		return nil
	})
	if err != nil {
		s.metrics.AssignmentResult(assignResultLabel(err))
		return nil, err
	}

	s.metrics.AssignmentResult("success")
	s.logger.Info("排班成功",
		zap.String("shift_id", shiftID),
		zap.String("user_id", userID),
		zap.String("operator", id.UserID),
	)
	resp := toAssignmentResponse(created)
	return &resp, nil
}

func assignResultLabel(err error) string {
	switch {
	case errors.Is(err, ErrShiftNotFound):
		return "shift_not_found"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrStaffNotFound):
		return "staff_not_found"
	case errors.Is(err, ErrDuplicateAssignment):
		return "duplicate"
	case errors.Is(err, ErrSchedulingConflict):
		return "conflict"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}

// ────────────────────── Unassign ──────────────────────

func (s *assignmentService) Unassign(ctx context.Context, id Identity, shiftID, userID string) error {
	if err := requireAdmin(id); err != nil {
		return err
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Assignment.Delete(ctx, shiftID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return unavailable(s.logger, "删除排班失败", err)
		}
		if err := tx.Attendance.DeleteByShiftAndUser(ctx, shiftID, userID); err != nil {
			return unavailable(s.logger, "删除出勤记录失败", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("撤销排班",
		zap.String("shift_id", shiftID),
		zap.String("user_id", userID),
		zap.String("operator", id.UserID),
	)
	return nil
}

// ────────────────────── ListByShift ──────────────────────

func (s *assignmentService) ListByShift(ctx context.Context, shiftID string) ([]dto.AssignmentResponse, error) {
	if _, err := s.repo.Shift.GetByID(ctx, shiftID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, unavailable(s.logger, "查询班次失败", err)
	}

	list, err := s.repo.Assignment.ListByShift(ctx, shiftID)
	if err != nil {
		return nil, unavailable(s.logger, "查询排班列表失败", err)
	}

	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, toAssignmentResponse(&list[i]))
	}
	return result, nil
}
