// file: models/contest_challenge.go
package models

import (
	"time"
)

// ContestChallenge 对应 dummyctf_contest_challenge 表。
// 它把一道题目绑定进一场比赛，并携带比赛内的有效分值与可见性；
// 自身拥有独立主键，同一题目可以出现在多场比赛中。
type ContestChallenge struct {
	ID          uint32    `gorm:"primarykey" json:"id"`
	ContestID   uint32    `gorm:"uniqueIndex:uniq_contest_challenge;not null" json:"contest_id"`
	Contest     Contest   `gorm:"foreignKey:ContestID" json:"-"`
	ChallengeID uint32    `gorm:"uniqueIndex:uniq_contest_challenge;not null" json:"challenge_id"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID" json:"-"`
	Score       uint      `gorm:"not null" json:"score"`
	Visible     bool      `gorm:"default:0" json:"visible"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ContestChallenge) TableName() string {
	return "dummyctf_contest_challenge"
}
