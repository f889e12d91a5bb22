// file: models/registrant.go
package models

import (
	"time"
)

// Registrant 对应 dummyctf_registrant 表，(contest, user) 唯一。
// 报名记录存在是接受提交的前提。
type Registrant struct {
	ID        uint32    `gorm:"primarykey" json:"id"`
	ContestID uint32    `gorm:"uniqueIndex:uniq_contest_user;not null" json:"contest_id"`
	UserID    uint32    `gorm:"uniqueIndex:uniq_contest_user;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func (Registrant) TableName() string {
	return "dummyctf_registrant"
}
