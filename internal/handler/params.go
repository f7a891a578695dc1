package handler

import (
	"strconv"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/logic"
	"github.com/gin-gonic/gin"
)

// parseId 解析路径中的 :id
func parseId(c *gin.Context, resource string) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("invalid %s id", resource)
	}
	return id, nil
}

// pageFromQuery 读取 limit/offset，非法值按默认处理
func pageFromQuery(c *gin.Context) logic.Page {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return logic.NewPage(limit, offset)
}

// int64Query 读取可选的整数查询参数
func int64Query(c *gin.Context, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperror.BadRequest("%s must be an integer", key)
	}
	return &v, nil
}

// boolQuery 读取可选的布尔查询参数
func boolQuery(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperror.BadRequest("%s must be true or false", key)
	}
	return &v, nil
}
