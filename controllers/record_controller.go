// file: controllers/record_controller.go
package controllers

import (
	"strconv"

	"github.com/3liuhuo/DummyCTFPlatform/services"
	"github.com/3liuhuo/DummyCTFPlatform/utils"
	"github.com/gin-gonic/gin"
)

type RecordController struct {
	submissions *services.SubmissionService
}

func NewRecordController(submissions *services.SubmissionService) *RecordController {
	return &RecordController{submissions: submissions}
}

// GetSubmissionLogs 管理员查询提交日志。
// 正确提交的 input 在落库时已替换为占位符，这里不会泄漏 Flag 原文。
func (ctl *RecordController) GetSubmissionLogs(c *gin.Context) {
	var filter services.SubmissionFilter

	if v := c.Query("contest_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			filter.ContestID = uint32(id)
		}
	}
	if v := c.Query("cc_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			filter.CCID = uint32(id)
		}
	}
	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			filter.UserID = uint32(id)
		}
	}
	filter.OnlyValid = c.Query("valid") == "1"
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	logs, err := ctl.submissions.ListAttempts(filter)
	if err != nil {
		utils.Error(c, 5000, "查询失败: "+err.Error())
		return
	}
	utils.Success(c, "success", gin.H{
		"total":       len(logs),
		"submissions": logs,
	})
}
