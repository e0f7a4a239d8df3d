package service

import "github.com/Mdmuzammil18/BayerHealthCare/internal/model"

// Identity 已认证的调用方身份，由调用方（HTTP 层或测试）显式传入每个业务操作
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin 是否为管理员
func (id Identity) IsAdmin() bool { return id.Role == model.RoleAdmin }

// requireAdmin 非管理员返回 ErrForbidden
func requireAdmin(id Identity) error {
	if !id.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// resolveSubject 确定操作针对的人员：未指定时为调用方本人，
// 只有管理员可以代他人操作
func resolveSubject(id Identity, userID string) (string, error) {
	if userID == "" || userID == id.UserID {
		if id.UserID == "" {
			return "", ErrForbidden
		}
		return id.UserID, nil
	}
	if !id.IsAdmin() {
		return "", ErrForbidden
	}
	return userID, nil
}
