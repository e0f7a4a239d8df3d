package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/dto"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/repository"
)

// StaffService 医护人员管理接口（仅管理员）
type StaffService interface {
	Create(ctx context.Context, id Identity, req *dto.CreateStaffRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id Identity, staffID string) (*dto.UserResponse, error)
	List(ctx context.Context, id Identity, req *dto.StaffListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id Identity, staffID string, req *dto.UpdateStaffRequest) (*dto.UserResponse, error)
	// Delete 删除人员，其排班与出勤记录随之级联删除
	Delete(ctx context.Context, id Identity, staffID string) error
}

type staffService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStaffService 创建 StaffService 实例
func NewStaffService(repo *repository.Repository, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *staffService) Create(ctx context.Context, id Identity, req *dto.CreateStaffRequest) (*dto.UserResponse, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	staffRole, dept := req.StaffRole, req.Department
	user := &model.User{
		Name:            req.Name,
		Email:           req.Email,
		PasswordHash:    string(hash),
		Role:            model.RoleStaff,
		StaffRole:       &staffRole,
		Department:      &dept,
		ShiftPreference: req.ShiftPreference,
		ContactNumber:   req.ContactNumber,
	}
	user.CreatedBy = &id.UserID
	user.UpdatedBy = &id.UserID

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, unavailable(s.logger, "创建人员失败", err)
	}

	s.logger.Info("新增医护人员", zap.String("user_id", user.UserID), zap.String("operator", id.UserID))
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *staffService) GetByID(ctx context.Context, id Identity, staffID string) (*dto.UserResponse, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, staffID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *staffService) List(ctx context.Context, id Identity, req *dto.StaffListRequest) ([]dto.UserResponse, int64, error) {
	if err := requireAdmin(id); err != nil {
		return nil, 0, err
	}

	page := dto.PageRequest{Page: req.Page, PageSize: req.PageSize}
	page.Normalize()

	filter := repository.UserFilter{
		Role:       model.RoleStaff,
		Department: req.Department,
		StaffRole:  req.StaffRole,
		Keyword:    req.Keyword,
	}
	users, total, err := s.repo.User.List(ctx, filter, page.Offset(), page.PageSize)
	if err != nil {
		return nil, 0, unavailable(s.logger, "查询人员列表失败", err)
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *staffService) Update(ctx context.Context, id Identity, staffID string, req *dto.UpdateStaffRequest) (*dto.UserResponse, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, staffID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if err := s.ensureEmailFree(ctx, *req.Email, user.UserID); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.StaffRole != nil {
		user.StaffRole = req.StaffRole
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.ShiftPreference != nil {
		user.ShiftPreference = req.ShiftPreference
	}
	if req.ContactNumber != nil {
		user.ContactNumber = req.ContactNumber
	}
	user.UpdatedBy = &id.UserID

	if err := s.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, unavailable(s.logger, "更新人员失败", err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *staffService) Delete(ctx context.Context, id Identity, staffID string) error {
	if err := requireAdmin(id); err != nil {
		return err
	}
	if _, err := s.load(ctx, staffID); err != nil {
		return err
	}
	if err := s.repo.User.Delete(ctx, staffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return unavailable(s.logger, "删除人员失败", err)
	}
	s.logger.Info("删除医护人员", zap.String("user_id", staffID), zap.String("operator", id.UserID))
	return nil
}

// ── 辅助函数 ──

// load 只返回医护人员，管理员账号不在人员管理范围内
func (s *staffService) load(ctx context.Context, staffID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, unavailable(s.logger, "查询人员失败", err)
	}
	if !user.IsStaff() {
		return nil, ErrStaffNotFound
	}
	return user, nil
}

func (s *staffService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.User.GetByEmail(ctx, email)
	if err == nil {
		if existing.UserID != selfID {
			return ErrEmailTaken
		}
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return unavailable(s.logger, "查询邮箱失败", err)
}
