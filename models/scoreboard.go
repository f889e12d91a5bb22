// file: models/scoreboard.go
package models

// ScoreboardRow 排行榜中一名选手的数据：
// Time 为累计罚时（毫秒），Solved 与 ScoreboardView.Challenges 按列对应。
type ScoreboardRow struct {
	UserID   uint32 `json:"user_id"`
	Nickname string `json:"nickname"`
	Score    uint   `json:"score"`
	Time     int64  `json:"time"`
	Solved   []bool `json:"solved"`
}

// ScoreboardView 一场比赛的完整排行榜视图，可整体缓存
type ScoreboardView struct {
	Contest    Contest         `json:"contest"`
	Challenges []string        `json:"challenges"`
	Rows       []ScoreboardRow `json:"rows"`
}
