// file: models/challenge.go
package models

import (
	"crypto/subtle"
	"strings"
	"time"
)

type ChallengeState string

const (
	ChallengeStateVisible ChallengeState = "visible"
	ChallengeStateHidden  ChallengeState = "hidden"
)

// Challenge 对应 dummyctf_challenge 表
// Flag 为题目密钥，任何接口都不得返回（json:"-"）
type Challenge struct {
	ID            uint32         `gorm:"primarykey" json:"id"`
	ChallengeName string         `gorm:"size:100;unique;not null" json:"challenge_name"`
	Author        string         `gorm:"size:50" json:"author"`
	Description   string         `gorm:"type:text" json:"description"`
	Flag          string         `gorm:"size:255;not null" json:"-"`
	BaseScore     uint           `gorm:"not null" json:"base_score"`
	State         ChallengeState `gorm:"type:enum('visible','hidden');default:'hidden'" json:"state"`
	Deleted       bool           `gorm:"default:0" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Challenge) TableName() string {
	return "dummyctf_challenge"
}

// TestFlag 校验提交文本是否命中题目密钥。
// 纯函数：去除首尾空白后做恒定时间比较，长度不同直接判错。
func (ch *Challenge) TestFlag(input string) bool {
	input = strings.TrimSpace(input)
	secret := strings.TrimSpace(ch.Flag)
	if len(input) != len(secret) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(input), []byte(secret)) == 1
}
