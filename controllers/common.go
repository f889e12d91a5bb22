// file: controllers/common.go
package controllers

import (
	"errors"
	"log"
	"math"

	"github.com/3liuhuo/DummyCTFPlatform/services"
	"github.com/3liuhuo/DummyCTFPlatform/utils"
	"github.com/gin-gonic/gin"
)

// respondServiceError 把 service 层错误映射为响应码。
// 业务错误按类别给码；其余（存储层故障等）记日志后按 5000 返回，不吞掉。
func respondServiceError(c *gin.Context, err error) {
	if rle, ok := services.IsRateLimited(err); ok {
		utils.ErrorData(c, 4290, rle.Error(), gin.H{
			"retry_after_seconds": int64(math.Ceil(rle.Wait.Seconds())),
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrFlagRequired):
		utils.Error(c, 1002, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrContestNotFound),
		errors.Is(err, services.ErrContestChallengeNotFound),
		errors.Is(err, services.ErrChallengeNotFound):
		utils.Error(c, 4004, err.Error())
	case errors.Is(err, services.ErrNotRegistered):
		utils.Error(c, 4005, err.Error())
	case errors.Is(err, services.ErrAlreadyRegistered):
		utils.Error(c, 4006, err.Error())
	case errors.Is(err, services.ErrContestNotSubmittable):
		utils.Error(c, 4102, err.Error())
	case errors.Is(err, services.ErrChallengeGone):
		utils.Error(c, 4103, err.Error())
	default:
		log.Printf("controller: unhandled service error: %v", err)
		utils.Error(c, 5000, "服务器内部错误")
	}
}

// currentUserID 从认证中间件写入的上下文读取用户 ID
func currentUserID(c *gin.Context) (uint32, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint32)
	return id, ok
}
