package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/service"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/response"
)

// 由 middleware.JWTAuth 写入 gin.Context 的键
const (
	ctxKeyUserID   = "user_id"
	ctxKeyRole     = "role"
	ctxKeyTokenJTI = "token_jti"
	ctxKeyTokenExp = "token_exp"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxKeyUserID)
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxKeyRole)
}

// MustGetIdentity 组装传给业务层的调用方身份
func MustGetIdentity(c *gin.Context) (service.Identity, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Identity{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Identity{}, false
	}
	return service.Identity{UserID: userID, Role: role}, true
}

// tokenInfo 返回当前 Token 的 jti 与剩余有效期，用于登出拉黑
func tokenInfo(c *gin.Context) (string, time.Duration) {
	jti := c.GetString(ctxKeyTokenJTI)
	exp, ok := c.Get(ctxKeyTokenExp)
	if !ok {
		return jti, 0
	}
	t, _ := exp.(time.Time)
	ttl := time.Until(t)
	if ttl < 0 {
		ttl = 0
	}
	return jti, ttl
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}
