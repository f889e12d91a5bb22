// file: models/submission.go
package models

import (
	"time"
)

// FlagPlaceholder 为正确提交入库时替换原文的占位符，避免泄漏 Flag 原文
const FlagPlaceholder = "[flag]"

// Submission 对应 dummyctf_submission 表，一次提交生成一条记录，之后不可变。
//
// ValidKey 只在 valid=true 时写 1，失败提交留 NULL；MySQL 唯一索引不约束
// NULL，因此 uniq_user_cc_valid 恰好保证同一 (user, cc) 至多一条 valid 记录，
// 失败记录可以无限累积。"首个解出最终生效"的竞态由这条索引在存储层关死。
type Submission struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	UserID      uint32    `gorm:"uniqueIndex:uniq_user_cc_valid;not null" json:"user_id"`
	ContestID   uint32    `gorm:"index;not null" json:"contest_id"`
	ChallengeID uint32    `gorm:"not null" json:"challenge_id"`
	CCID        uint32    `gorm:"column:cc_id;uniqueIndex:uniq_user_cc_valid;not null" json:"cc_id"`
	Input       string    `gorm:"size:255" json:"input"`
	Valid       bool      `gorm:"default:0" json:"valid"`
	ValidKey    *uint8    `gorm:"uniqueIndex:uniq_user_cc_valid" json:"-"`
	IP          string    `gorm:"size:45" json:"ip"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Submission) TableName() string {
	return "dummyctf_submission"
}
