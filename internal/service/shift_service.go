package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mdmuzammil18/BayerHealthCare/config"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/dto"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/repository"
	pkgerrors "github.com/Mdmuzammil18/BayerHealthCare/pkg/errors"
)

// ShiftService 班次管理接口
type ShiftService interface {
	Create(ctx context.Context, id Identity, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error)
	GetByID(ctx context.Context, shiftID string) (*dto.ShiftResponse, error)
	List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error)
	// Update 乐观锁更新；容量不得低于当前排班人数，改时间后不得与已排人员的其他班次重叠
	Update(ctx context.Context, id Identity, shiftID string, req *dto.UpdateShiftRequest) (*dto.ShiftResponse, error)
	// Delete 删除班次及其排班、出勤记录
	Delete(ctx context.Context, id Identity, shiftID string) error
}

type shiftService struct {
	loc    *time.Location
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(cfg *config.RosterConfig, repo *repository.Repository, logger *zap.Logger) ShiftService {
	return &shiftService{loc: cfg.Location(), repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *shiftService) Create(ctx context.Context, id Identity, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	shift := &model.Shift{
		Date:      date,
		Type:      req.Type,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
	}
	if _, err := shiftWindow(shift, s.loc); err != nil {
		return nil, err
	}
	shift.Version = 1
	shift.CreatedBy = &id.UserID
	shift.UpdatedBy = &id.UserID

	if err := s.repo.Shift.Create(ctx, shift); err != nil {
		return nil, unavailable(s.logger, "创建班次失败", err)
	}

	s.logger.Info("创建班次",
		zap.String("shift_id", shift.ShiftID),
		zap.String("window", describeShift(shift)),
		zap.Int("capacity", shift.Capacity),
	)
	resp := toShiftResponse(shift)
	return &resp, nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *shiftService) GetByID(ctx context.Context, shiftID string) (*dto.ShiftResponse, error) {
	shift, err := s.load(ctx, s.repo, shiftID, false)
	if err != nil {
		return nil, err
	}
	if err := s.attachAssignments(ctx, s.repo, shift); err != nil {
		return nil, err
	}
	resp := toShiftResponse(shift)
	return &resp, nil
}

func (s *shiftService) List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error) {
	var (
		filter = repository.ShiftFilter{Type: req.Type}
		err    error
	)
	if filter.Date, err = parseOptionalDate(req.Date); err != nil {
		return nil, err
	}
	if filter.From, err = parseOptionalDate(req.StartDate); err != nil {
		return nil, err
	}
	if filter.To, err = parseOptionalDate(req.EndDate); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, ErrInvalidDateRange
	}

	shifts, err := s.repo.Shift.List(ctx, filter)
	if err != nil {
		return nil, unavailable(s.logger, "查询班次列表失败", err)
	}

	result := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, toShiftResponse(&shifts[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *shiftService) Update(ctx context.Context, id Identity, shiftID string, req *dto.UpdateShiftRequest) (*dto.ShiftResponse, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	var updated *model.Shift
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		shift, err := s.load(ctx, tx, shiftID, true)
		if err != nil {
			return err
		}
		if shift.Version != req.Version {
			return pkgerrors.ErrOptimisticLock
		}

		timesChanged := false
		if req.Date != nil {
			date, err := parseDate(*req.Date)
			if err != nil {
				return err
			}
			timesChanged = timesChanged || !date.Equal(shift.Date)
			shift.Date = date
		}
		if req.StartTime != nil {
			timesChanged = timesChanged || *req.StartTime != shift.StartTime
			shift.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			timesChanged = timesChanged || *req.EndTime != shift.EndTime
			shift.EndTime = *req.EndTime
		}
		if req.Type != nil {
			shift.Type = *req.Type
		}
		if _, err := shiftWindow(shift, s.loc); err != nil {
			return err
		}

		if err := s.attachAssignments(ctx, tx, shift); err != nil {
			return err
		}
		if req.Capacity != nil {
			if *req.Capacity < len(shift.Assignments) {
				return ErrCapacityBelowCount.Withf("当前已排 %d 人", len(shift.Assignments))
			}
			shift.Capacity = *req.Capacity
		}

		if timesChanged {
			// 与 Assign 相同的加锁顺序：班次 → 人员；人员按 ID 排序加锁
			userIDs := make([]string, 0, len(shift.Assignments))
			for i := range shift.Assignments {
				userIDs = append(userIDs, shift.Assignments[i].UserID)
			}
			sort.Strings(userIDs)
			for _, userID := range userIDs {
				if _, err := tx.User.GetByIDForUpdate(ctx, userID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return unavailable(s.logger, "锁定人员失败", err)
				}
			}

			for i := range shift.Assignments {
				a := &shift.Assignments[i]
				other, err := findOverlappingShift(ctx, tx, s.loc, a.UserID, shift)
				if err != nil {
					return err
				}
				if other != nil {
					return ErrSchedulingConflict.Withf("人员 %s 与班次 %s 时间重叠", a.UserID, describeShift(other))
				}
			}
		}

		shift.UpdatedBy = &id.UserID
		if err := tx.Shift.Update(ctx, shift); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return err
			}
			return unavailable(s.logger, "更新班次失败", err)
		}
		updated = shift
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toShiftResponse(updated)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *shiftService) Delete(ctx context.Context, id Identity, shiftID string) error {
	if err := requireAdmin(id); err != nil {
		return err
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := s.load(ctx, tx, shiftID, true); err != nil {
			return err
		}
		if err := tx.Attendance.DeleteByShift(ctx, shiftID); err != nil {
			return unavailable(s.logger, "删除班次出勤记录失败", err)
		}
		if err := tx.Assignment.DeleteByShift(ctx, shiftID); err != nil {
			return unavailable(s.logger, "删除班次排班失败", err)
		}
		if err := tx.Shift.Delete(ctx, shiftID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShiftNotFound
			}
			return unavailable(s.logger, "删除班次失败", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("删除班次", zap.String("shift_id", shiftID), zap.String("operator", id.UserID))
	return nil
}

// ── 辅助函数 ──

func (s *shiftService) load(ctx context.Context, repo *repository.Repository, shiftID string, forUpdate bool) (*model.Shift, error) {
	var (
		shift *model.Shift
		err   error
	)
	if forUpdate {
		shift, err = repo.Shift.GetByIDForUpdate(ctx, shiftID)
	} else {
		shift, err = repo.Shift.GetByID(ctx, shiftID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, unavailable(s.logger, "查询班次失败", err)
	}
	return shift, nil
}

func (s *shiftService) attachAssignments(ctx context.Context, repo *repository.Repository, shift *model.Shift) error {
	list, err := repo.Assignment.ListByShift(ctx, shift.ShiftID)
	if err != nil {
		return unavailable(s.logger, "查询班次排班失败", err)
	}
	shift.Assignments = list
	return nil
}
