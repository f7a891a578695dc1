package handler

import (
	"net/http"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/logger"
	"github.com/donorhub/dhs/internal/logic"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// PagedResponse 分页列表响应
func PagedResponse(c *gin.Context, message string, data interface{}, page logic.Page, total int64) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Pagination: &Pagination{
			Total:   total,
			Limit:   page.Limit,
			Offset:  page.Offset,
			HasMore: page.HasMore(total),
		},
	})
}

// ErrorResponse 错误响应。非 apperror 的错误记录日志后统一返回 500。
func ErrorResponse(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		logger.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		appErr = apperror.Internal()
	}

	c.JSON(appErr.Status, Response{
		Success: false,
		Message: appErr.Message,
		Error:   appErr.Code,
		Errors:  appErr.Fields,
	})
}

// AbortWithError 写入错误响应并终止后续处理
func AbortWithError(c *gin.Context, err error) {
	ErrorResponse(c, err)
	c.Abort()
}

// bindError 绑定失败统一转换为 400
func bindError(c *gin.Context, err error) {
	ErrorResponse(c, apperror.FromValidation(err))
}
