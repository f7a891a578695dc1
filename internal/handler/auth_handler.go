package handler

import (
	"net/http"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/auth"
	"github.com/donorhub/dhs/internal/logic"
	"github.com/donorhub/dhs/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authLogic *logic.AuthLogic
	tokens    *auth.TokenManager
}

func NewAuthHandler(db *gorm.DB, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		authLogic: logic.NewAuthLogic(db),
		tokens:    tokens,
	}
}

// Register 注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.authLogic.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, "User registered successfully", user)
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.authLogic.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, "Login successful", user)
}

// Logout 令牌无状态，由客户端丢弃
func (h *AuthHandler) Logout(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Logout successful", nil)
}

// Me 当前登录用户
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := auth.FromContext(c)
	if !ok {
		ErrorResponse(c, apperror.Unauthorized(apperror.CodeMissingToken, "authentication required"))
		return
	}

	user, err := h.authLogic.GetUser(c.Request.Context(), id.Id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "User retrieved successfully", toUserResponse(user))
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, message string, user *model.User) {
	token, expiresAt, err := h.tokens.Issue(auth.Identity{Id: user.Id, Email: user.Email})
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, status, message, AuthResponse{
		User:      toUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
