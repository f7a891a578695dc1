package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/auth"
	"github.com/donorhub/dhs/internal/model"
	"gorm.io/gorm"
)

// errInvalidCredentials 邮箱不存在与密码错误统一返回，避免枚举用户
var errInvalidCredentials = apperror.Unauthorized(apperror.CodeInvalidCredentials, "invalid email or password")

// AuthLogic 用户注册与登录
type AuthLogic struct {
	db *gorm.DB
}

// NewAuthLogic 创建认证业务逻辑
func NewAuthLogic(db *gorm.DB) *AuthLogic {
	return &AuthLogic{db: db}
}

// Register 注册用户
func (a *AuthLogic) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, apperror.BadRequest("email, password, and name are required")
	}

	var count int64
	if err := a.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check user email: %w", err)
	}
	if count > 0 {
		return nil, apperror.Conflict("user with this email already exists")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Email: email, PasswordHash: hash, Name: name}
	if err := a.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperror.Conflict("user with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login 校验邮箱与密码
func (a *AuthLogic) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.BadRequest("email and password are required")
	}

	var user model.User
	if err := a.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, errInvalidCredentials
	}
	return &user, nil
}

// GetUser 按 ID 获取用户
func (a *AuthLogic) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := a.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
