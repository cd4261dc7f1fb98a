package handler

import (
	"github.com/gin-gonic/gin"

	"grade-center/backend/pkg/response"
)

// MustGetAdminCode 从 Gin 上下文中安全提取 admin_code。
// 如果认证中间件未正确注入 admin_code，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetAdminCode(c *gin.Context) (string, bool) {
	v, exists := c.Get("admin_code")
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
