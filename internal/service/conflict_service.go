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
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/timewindow"
)

// ConflictService 排班冲突检测接口
//
// 冲突定义：同一人员在同一天被排入两个时间窗重叠（闭区间）的班次。
// 每名人员每天最多报告一对冲突（按排班遍历顺序找到的第一对），不保证列出全部重叠组合。
type ConflictService interface {
	FindConflictsForDate(ctx context.Context, date time.Time) ([]dto.ConflictResponse, error)
	// FindConflictsInRange 从 from 起连续 days 天；from 为零值时取排班时区的今天，days<=0 时取配置默认值
	FindConflictsInRange(ctx context.Context, from time.Time, days int) ([]dto.ConflictResponse, error)
	// WouldCreateConflict 将 userID 排入 shiftID 是否会与其当天其他排班重叠；班次不存在时返回 false
	WouldCreateConflict(ctx context.Context, userID, shiftID string) (bool, error)
}

type conflictService struct {
	cfg     *config.RosterConfig
	loc     *time.Location
	now     func() time.Time
	repo    *repository.Repository
	metrics metrics.Recorder
	logger  *zap.Logger
}

// NewConflictService 创建 ConflictService 实例
func NewConflictService(cfg *config.RosterConfig, repo *repository.Repository, rec metrics.Recorder, logger *zap.Logger) ConflictService {
	return &conflictService{cfg: cfg, loc: cfg.Location(), now: time.Now, repo: repo, metrics: rec, logger: logger}
}

// ────────────────────── FindConflictsForDate ──────────────────────

func (s *conflictService) FindConflictsForDate(ctx context.Context, date time.Time) ([]dto.ConflictResponse, error) {
	shifts, err := s.repo.Shift.ListByDateWithAssignments(ctx, date)
	if err != nil {
		s.logger.Error("查询当日班次失败", zap.Time("date", date), zap.Error(err))
		return nil, pkgerrors.Unavailable(err)
	}

	type staffShifts struct {
		user   *model.User
		shifts []*model.Shift
	}
	// 保持人员首次出现的顺序，结果稳定
	var order []string
	byUser := make(map[string]*staffShifts)
	for i := range shifts {
		shift := &shifts[i]
		for j := range shift.Assignments {
			a := &shift.Assignments[j]
			entry, ok := byUser[a.UserID]
			if !ok {
				entry = &staffShifts{user: a.User}
				byUser[a.UserID] = entry
				order = append(order, a.UserID)
			}
			entry.shifts = append(entry.shifts, shift)
		}
	}

	conflicts := make([]dto.ConflictResponse, 0)
	for _, userID := range order {
		entry := byUser[userID]
		if len(entry.shifts) < 2 {
			continue
		}
		a, b, err := s.firstOverlap(entry.shifts)
		if err != nil {
			return nil, err
		}
		if a == nil {
			continue
		}
		c := dto.ConflictResponse{
			UserID: userID,
			Date:   formatDate(date),
			Shift1: toShiftBrief(a),
			Shift2: toShiftBrief(b),
		}
		if entry.user != nil {
			c.UserName = entry.user.Name
		}
		conflicts = append(conflicts, c)
	}

	return conflicts, nil
}

// firstOverlap 按顺序两两比较，返回第一对重叠的班次
func (s *conflictService) firstOverlap(shifts []*model.Shift) (*model.Shift, *model.Shift, error) {
	windows := make([]windowedShift, len(shifts))
	for i, sh := range shifts {
		iv, err := shiftWindow(sh, s.loc)
		if err != nil {
			s.logger.Error("班次时间非法", zap.String("shift_id", sh.ShiftID), zap.Error(err))
			return nil, nil, err
		}
		windows[i] = windowedShift{shift: sh, window: iv}
	}
	for i := 0; i < len(windows); i++ {
		for j := i + 1; j < len(windows); j++ {
			if windows[i].window.Overlaps(windows[j].window) {
				return windows[i].shift, windows[j].shift, nil
			}
		}
	}
	return nil, nil, nil
}

// ────────────────────── FindConflictsInRange ──────────────────────

func (s *conflictService) FindConflictsInRange(ctx context.Context, from time.Time, days int) ([]dto.ConflictResponse, error) {
	if from.IsZero() {
		from = calendarDate(s.now(), s.loc)
	}
	if days <= 0 {
		days = s.cfg.ConflictDays
	}
	if days > s.cfg.ConflictMaxDays {
		return nil, ErrInvalidDateRange.Withf("days 不能超过 %d", s.cfg.ConflictMaxDays)
	}

	all := make([]dto.ConflictResponse, 0)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i)
		conflicts, err := s.FindConflictsForDate(ctx, day)
		if err != nil {
			return nil, err
		}
		all = append(all, conflicts...)
	}

	s.metrics.ConflictsDetected(len(all))
	if len(all) > 0 {
		s.logger.Warn("检测到排班冲突",
			zap.String("from", formatDate(from)),
			zap.Int("days", days),
			zap.Int("count", len(all)),
		)
	}
	return all, nil
}

// ────────────────────── WouldCreateConflict ──────────────────────

func (s *conflictService) WouldCreateConflict(ctx context.Context, userID, shiftID string) (bool, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		s.logger.Error("查询班次失败", zap.String("shift_id", shiftID), zap.Error(err))
		return false, pkgerrors.Unavailable(err)
	}

	other, err := findOverlappingShift(ctx, s.repo, s.loc, userID, shift)
	if err != nil {
		return false, err
	}
	return other != nil, nil
}

// findOverlappingShift 返回 userID 当天已排的、与 candidate 时间窗重叠的第一个班次，不含 candidate 自身
// 在事务中调用时传入事务 Repository，使检查与后续写入处于同一快照
func findOverlappingShift(ctx context.Context, repo *repository.Repository, loc *time.Location, userID string, candidate *model.Shift) (*model.Shift, error) {
	candWindow, err := shiftWindow(candidate, loc)
	if err != nil {
		return nil, err
	}

	assignments, err := repo.Assignment.ListByUserOnDate(ctx, userID, candidate.Date)
	if err != nil {
		return nil, pkgerrors.Unavailable(err)
	}

	for i := range assignments {
		a := &assignments[i]
		if a.ShiftID == candidate.ShiftID || a.Shift == nil {
			continue
		}
		w, err := shiftWindow(a.Shift, loc)
		if err != nil {
			return nil, err
		}
		if w.Overlaps(candWindow) {
			return a.Shift, nil
		}
	}
	return nil, nil
}

type windowedShift struct {
	shift  *model.Shift
	window timewindow.Interval
}
