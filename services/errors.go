// file: services/errors.go
package services

import (
	"errors"
	"fmt"
	"time"
)

// 面向用户、可重试的业务错误，controller 层通过 errors.Is 映射为响应码。
// 存储层故障不在此列，直接原样向上传递。
var (
	ErrUserNotFound             = errors.New("用户不存在")
	ErrContestNotFound          = errors.New("比赛不存在")
	ErrContestChallengeNotFound = errors.New("比赛题目不存在")
	ErrChallengeNotFound        = errors.New("题目不存在")
	ErrNotRegistered            = errors.New("尚未报名本场比赛")
	ErrAlreadyRegistered        = errors.New("已报名本场比赛")
	ErrContestNotSubmittable    = errors.New("比赛未在进行中，无法提交")
	ErrChallengeGone            = errors.New("题目已下线，无法提交")
	ErrFlagRequired             = errors.New("Flag 不能为空")
)

// RateLimitedError 提交触发限流，Wait 为距窗口释放的剩余时间
type RateLimitedError struct {
	Wait time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("提交过于频繁，请在 %.1f 分钟后重试", e.Wait.Minutes())
}

// IsRateLimited 取出限流错误，便于 controller 返回剩余等待时间
func IsRateLimited(err error) (*RateLimitedError, bool) {
	var rle *RateLimitedError
	if errors.As(err, &rle) {
		return rle, true
	}
	return nil, false
}
