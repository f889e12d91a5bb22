// file: controllers/contest_controller.go
package controllers

import (
	"strconv"

	"github.com/3liuhuo/DummyCTFPlatform/dto"
	"github.com/3liuhuo/DummyCTFPlatform/models"
	"github.com/3liuhuo/DummyCTFPlatform/services"
	"github.com/3liuhuo/DummyCTFPlatform/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ContestController struct {
	db       *gorm.DB
	contests *services.ContestService
}

func NewContestController(db *gorm.DB, contests *services.ContestService) *ContestController {
	return &ContestController{db: db, contests: contests}
}

// GetCurrentContest 查询当前比赛基本信息
func (ctl *ContestController) GetCurrentContest(c *gin.Context) {
	contestID, err := ctl.contests.GetCurrentContestID(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	contest, err := ctl.contests.GetContest(contestID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "success", contest)
}

// Register 选手报名当前比赛
func (ctl *ContestController) Register(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Error(c, 4001, "未登录")
		return
	}
	contestID, err := ctl.contests.GetCurrentContestID(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	reg, err := ctl.contests.Register(contestID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Registered successfully", gin.H{"id": reg.ID})
}

// --- 管理员接口 ---

// CreateContest 创建比赛
func (ctl *ContestController) CreateContest(c *gin.Context) {
	var req models.Contest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.ID = 0
	req.State = models.ContestStateNotStarted
	if err := ctl.db.Create(&req).Error; err != nil {
		utils.Error(c, 5000, "创建比赛失败: "+err.Error())
		return
	}
	utils.Success(c, "Contest created successfully", gin.H{"id": req.ID})
}

// SetContestState 推进比赛状态（NOT_STARTED / ACTIVE / DONE）
func (ctl *ContestController) SetContestState(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req dto.SetContestStateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	state := models.ContestState(req.State)
	if state != models.ContestStateNotStarted && state != models.ContestStateActive && state != models.ContestStateDone {
		utils.Error(c, 1001, "state 取值无效（NOT_STARTED/ACTIVE/DONE）")
		return
	}

	if err := ctl.contests.SetContestState(uint32(id), state); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Contest state updated", nil)
}

// SetCurrentContest 切换全局当前比赛
func (ctl *ContestController) SetCurrentContest(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := ctl.contests.SetCurrentContest(c.Request.Context(), uint32(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Current contest updated", nil)
}

// AddContestChallenge 把题目绑定进比赛
func (ctl *ContestController) AddContestChallenge(c *gin.Context) {
	contestID, _ := strconv.Atoi(c.Param("id"))

	var req dto.AddContestChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	cc, err := ctl.contests.AddChallenge(uint32(contestID), req.ChallengeID, req.Score, req.Visible)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Challenge added to contest successfully", gin.H{"id": cc.ID})
}

// SetChallengeVisibility 调整比赛题目可见性
func (ctl *ContestController) SetChallengeVisibility(c *gin.Context) {
	ccID, _ := strconv.Atoi(c.Param("ccid"))

	var req dto.SetVisibilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	if err := ctl.contests.SetChallengeVisibility(uint32(ccID), req.Visible); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Challenge visibility updated", nil)
}
