package auth

import (
	"strings"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// Middleware 校验 Authorization: Bearer <token>，成功后将身份写入上下文
func Middleware(tokens *TokenManager, onError func(*gin.Context, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			onError(c, apperror.Unauthorized(apperror.CodeMissingToken,
				"authorization header with bearer token is required"))
			c.Abort()
			return
		}

		id, err := tokens.Verify(raw)
		if err != nil {
			onError(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// FromContext 取出中间件写入的调用者身份
func FromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
