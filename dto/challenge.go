// file: dto/challenge.go
package dto

import "strings"

// ========== 请求 DTO ==========

type CreateChallengeReq struct {
	ChallengeName string `json:"challenge_name"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	Flag          string `json:"flag"`
	BaseScore     uint   `json:"base_score"`
}

type SubmitFlagReq struct {
	Flag string `json:"flag"`
}

// Normalize 去除首尾空白并截断到 50 个字符，超长提交不可能是正确 Flag
func (r *SubmitFlagReq) Normalize() {
	r.Flag = strings.TrimSpace(r.Flag)
	if len(r.Flag) > 50 {
		r.Flag = r.Flag[:50]
	}
}

type AddContestChallengeReq struct {
	ChallengeID uint32 `json:"challenge_id" binding:"required"`
	Score       uint   `json:"score"`
	Visible     bool   `json:"visible"`
}

type SetVisibilityReq struct {
	Visible bool `json:"visible"`
}

type SetContestStateReq struct {
	State string `json:"state" binding:"required"`
}

// ========== 响应 DTO ==========

// ChallengeItemResp 选手视角的比赛题目条目，Solved 表示本人是否已解出
type ChallengeItemResp struct {
	CCID          uint32 `json:"cc_id"`
	ChallengeName string `json:"challenge_name"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	Score         uint   `json:"score"`
	Solved        bool   `json:"solved"`
}
