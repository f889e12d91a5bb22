// file: controllers/challenge_controller.go
package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/3liuhuo/DummyCTFPlatform/dto"
	"github.com/3liuhuo/DummyCTFPlatform/mappers"
	"github.com/3liuhuo/DummyCTFPlatform/services"
	"github.com/3liuhuo/DummyCTFPlatform/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 防爆破限流参数：选手维度窗口短、额度小；来源 IP 维度窗口长、额度大，
// 分别约束单人爆破与共享出口（代理、校园网）的整体滥用
const (
	userLimitWindow = 5 * time.Minute
	userLimitMax    = 3
	ipLimitWindow   = 10 * time.Minute
	ipLimitMax      = 30
)

type ChallengeController struct {
	db          *gorm.DB
	contests    *services.ContestService
	submissions *services.SubmissionService
	scoreboard  *services.ScoreboardService
	userLimiter services.Limiter
	ipLimiter   services.Limiter
}

func NewChallengeController(
	db *gorm.DB,
	contests *services.ContestService,
	submissions *services.SubmissionService,
	scoreboard *services.ScoreboardService,
	userLimiter, ipLimiter services.Limiter,
) *ChallengeController {
	return &ChallengeController{
		db:          db,
		contests:    contests,
		submissions: submissions,
		scoreboard:  scoreboard,
		userLimiter: userLimiter,
		ipLimiter:   ipLimiter,
	}
}

// ListChallenges 选手视角的当前比赛题目列表，标注本人已解出的题
func (ctl *ChallengeController) ListChallenges(c *gin.Context) {
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
	if _, err := ctl.contests.GetRegistration(contestID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	contest, err := ctl.contests.GetContest(contestID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ccs, err := ctl.contests.GetVisibleChallenges(contestID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	solves, err := ctl.submissions.GetUserValidSubmissions(contestID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	solvedCCIDs := make(map[uint32]bool, len(solves))
	for _, s := range solves {
		solvedCCIDs[s.CCID] = true
	}
	items := make([]dto.ChallengeItemResp, 0, len(ccs))
	for _, cc := range ccs {
		items = append(items, mappers.MapCCToItemResp(cc, solvedCCIDs))
	}

	utils.Success(c, "success", gin.H{
		"contest":    contest,
		"challenges": items,
	})
}

// limitRate 提交限流：先查选手维度，通过后才消耗来源 IP 维度的名额
func (ctl *ChallengeController) limitRate(c *gin.Context, ccID, userID uint32) error {
	ctx := c.Request.Context()
	wait, err := ctl.userLimiter.CheckAndConsume(ctx,
		fmt.Sprintf("%d_%d", ccID, userID), userLimitWindow, userLimitMax)
	if err != nil {
		return err
	}
	if wait == 0 {
		wait, err = ctl.ipLimiter.CheckAndConsume(ctx,
			fmt.Sprintf("%d_%s", ccID, c.ClientIP()), ipLimitWindow, ipLimitMax)
		if err != nil {
			return err
		}
	}
	if wait > 0 {
		return &services.RateLimitedError{Wait: wait}
	}
	return nil
}

// SubmitFlag 提交 Flag。
// 顺序固定：参数校验 → 报名校验 → 限流 → 落库判定，响应只携带判定结果。
func (ctl *ChallengeController) SubmitFlag(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Error(c, 4001, "未登录")
		return
	}
	ccID64, err := strconv.ParseUint(c.Param("ccid"), 10, 32)
	if err != nil || ccID64 == 0 {
		utils.Error(c, 4004, services.ErrContestChallengeNotFound.Error())
		return
	}
	ccID := uint32(ccID64)

	var req dto.SubmitFlagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()
	if req.Flag == "" {
		respondServiceError(c, services.ErrFlagRequired)
		return
	}

	contestID, err := ctl.contests.GetCurrentContestID(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if _, err := ctl.contests.GetRegistration(contestID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	if err := ctl.limitRate(c, ccID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	submission, err := ctl.submissions.AddSubmission(userID, c.ClientIP(), ccID, req.Flag)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "success", gin.H{"valid": submission.Valid})
}

// GetScoreboard 查询当前比赛排行榜，缓存优先
func (ctl *ChallengeController) GetScoreboard(c *gin.Context) {
	contestID, err := ctl.contests.GetCurrentContestID(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	view, err := ctl.scoreboard.Get(contestID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "success", view)
}

// --- 管理员接口 ---

// CreateChallenge 管理员建题，未提供 Flag 时自动生成
func (ctl *ChallengeController) CreateChallenge(c *gin.Context) {
	var req dto.CreateChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	if req.ChallengeName == "" || req.BaseScore == 0 {
		utils.Error(c, 1001, "缺少必填字段")
		return
	}
	if req.Flag == "" {
		req.Flag = utils.GenerateFlag()
	}

	chal := mappers.MapCreateReqToModel(req)
	if err := ctl.db.Create(&chal).Error; err != nil {
		utils.Error(c, 5000, "创建题目失败: "+err.Error())
		return
	}
	utils.Success(c, "Challenge created successfully", gin.H{"id": chal.ID})
}

// DeleteChallenge 管理员软删除题目，之后该题不再接受提交
func (ctl *ChallengeController) DeleteChallenge(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := ctl.contests.DeleteChallenge(uint32(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Challenge deleted successfully", nil)
}
