// file: models/contest.go
package models

import (
	"time"
)

// ContestState 定义比赛生命周期状态
type ContestState string

const (
	ContestStateNotStarted ContestState = "NOT_STARTED"
	ContestStateActive     ContestState = "ACTIVE"
	ContestStateDone       ContestState = "DONE"
)

// Contest 对应 dummyctf_contest 表
type Contest struct {
	ID          uint32       `gorm:"primarykey" json:"id"`
	ContestName string       `gorm:"size:100;not null" json:"contest_name"`
	Begin       time.Time    `gorm:"not null" json:"begin" binding:"required"`
	End         time.Time    `gorm:"not null" json:"end" binding:"required"`
	State       ContestState `gorm:"type:enum('NOT_STARTED','ACTIVE','DONE');default:'NOT_STARTED'" json:"state"`
	Deleted     bool         `gorm:"default:0" json:"-"`
	CreatedAt   time.Time    `json:"created_at,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at,omitempty"`
}

func (Contest) TableName() string {
	return "dummyctf_contest"
}

// Submittable 判断比赛当前是否接受 Flag 提交
func (c *Contest) Submittable() bool {
	return !c.Deleted && c.State == ContestStateActive
}

// Browsable 判断题目列表/排行榜是否对选手开放
func (c *Contest) Browsable() bool {
	return c.State == ContestStateActive || c.State == ContestStateDone
}
