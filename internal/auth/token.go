// Package auth issues and verifies the bearer credentials that guard the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/golang-jwt/jwt/v5"
)

// Identity 令牌中携带的调用者身份
type Identity struct {
	Id    int64  `json:"id"`
	Email string `json:"email"`
}

// Claims JWT 声明
type Claims struct {
	Id    int64  `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager 签发与校验 HS256 令牌，无服务端会话状态
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager 创建令牌管理器
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue 为用户签发令牌，返回令牌与过期时间
func (m *TokenManager) Issue(id Identity) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		Id:    id.Id,
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", id.Id),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify 校验签名与有效期，失败时返回区分过期与无效的 401 错误
func (m *TokenManager) Verify(raw string) (Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperror.Unauthorized(apperror.CodeTokenExpired,
				"your session has expired, please log in again")
		}
		return Identity{}, apperror.Unauthorized(apperror.CodeInvalidToken,
			"the provided token is invalid or malformed")
	}

	if claims.Id <= 0 {
		return Identity{}, apperror.Unauthorized(apperror.CodeInvalidToken,
			"the provided token is invalid or malformed")
	}
	return Identity{Id: claims.Id, Email: claims.Email}, nil
}
