// file: services/contest_service.go
package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/3liuhuo/DummyCTFPlatform/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// currentContestKey 全局"当前比赛"属性在 Redis 中的键
const currentContestKey = "dummyctf:system:current_contest"

// ContestService 比赛目录与报名逻辑，并承担提交前的资格校验
type ContestService struct {
	db  *gorm.DB
	rdb *redis.Client
	bus *EventBus
}

func NewContestService(db *gorm.DB, rdb *redis.Client, bus *EventBus) *ContestService {
	return &ContestService{db: db, rdb: rdb, bus: bus}
}

// GetContest 查询未被软删除的比赛
func (s *ContestService) GetContest(contestID uint32) (*models.Contest, error) {
	if contestID == 0 {
		return nil, ErrContestNotFound
	}
	var contest models.Contest
	if err := s.db.First(&contest, contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}
	if contest.Deleted {
		return nil, ErrContestNotFound
	}
	return &contest, nil
}

// GetCurrentContestID 读取全局当前比赛，未设置视为比赛不存在
func (s *ContestService) GetCurrentContestID(ctx context.Context) (uint32, error) {
	val, err := s.rdb.Get(ctx, currentContestKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrContestNotFound
		}
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrContestNotFound
	}
	return uint32(id), nil
}

// SetCurrentContest 切换全局当前比赛并广播事件
func (s *ContestService) SetCurrentContest(ctx context.Context, contestID uint32) error {
	if _, err := s.GetContest(contestID); err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, currentContestKey, strconv.FormatUint(uint64(contestID), 10), 0).Err(); err != nil {
		return err
	}
	s.bus.Emit(EventCurrentContestChanged, contestID)
	return nil
}

// GetSubmittableChallenge 解析比赛题目并校验当前是否接受提交。
// 比赛状态会异步变化，因此每次提交都重新校验，结果不做缓存。
func (s *ContestService) GetSubmittableChallenge(ccID uint32) (*models.ContestChallenge, error) {
	if ccID == 0 {
		return nil, ErrContestChallengeNotFound
	}
	var cc models.ContestChallenge
	err := s.db.Preload("Contest").Preload("Challenge").First(&cc, ccID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestChallengeNotFound
		}
		return nil, err
	}
	if !cc.Contest.Submittable() {
		return nil, ErrContestNotSubmittable
	}
	if cc.Challenge.Deleted {
		return nil, ErrChallengeGone
	}
	return &cc, nil
}

// GetVisibleChallenges 返回比赛内对选手可见的题目，顺序即排行榜列顺序。
// 比赛未开始（或不存在）时返回空列表。
func (s *ContestService) GetVisibleChallenges(contestID uint32) ([]models.ContestChallenge, error) {
	contest, err := s.GetContest(contestID)
	if err != nil {
		return nil, err
	}
	if !contest.Browsable() {
		return []models.ContestChallenge{}, nil
	}
	var ccs []models.ContestChallenge
	err = s.db.Preload("Challenge").
		Joins("JOIN dummyctf_challenge ch ON ch.id = dummyctf_contest_challenge.challenge_id AND ch.deleted = 0").
		Where("dummyctf_contest_challenge.contest_id = ? AND dummyctf_contest_challenge.visible = ?", contestID, true).
		Order("dummyctf_contest_challenge.id asc").
		Find(&ccs).Error
	if err != nil {
		return nil, err
	}
	return ccs, nil
}

// GetRegistrants 返回比赛的全部报名者，顺序稳定
func (s *ContestService) GetRegistrants(contestID uint32) ([]models.Registrant, error) {
	var regs []models.Registrant
	err := s.db.Preload("User").
		Where("contest_id = ?", contestID).
		Order("id asc").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// GetRegistration 查询某用户在某比赛的报名记录，未报名返回 ErrNotRegistered
func (s *ContestService) GetRegistration(contestID, userID uint32) (*models.Registrant, error) {
	var reg models.Registrant
	err := s.db.Where("contest_id = ? AND user_id = ?", contestID, userID).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}
	return &reg, nil
}

// Register 为用户创建报名记录并广播事件，(contest, user) 唯一
func (s *ContestService) Register(contestID, userID uint32) (*models.Registrant, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	if _, err := s.GetContest(contestID); err != nil {
		return nil, err
	}
	if _, err := s.GetRegistration(contestID, userID); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, ErrNotRegistered) {
		return nil, err
	}

	reg := models.Registrant{ContestID: contestID, UserID: userID}
	if err := s.db.Create(&reg).Error; err != nil {
		// 并发报名时预查可能双双通过，(contest, user) 唯一键兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	s.bus.Emit(EventRegistrantNew, reg.ID)
	return &reg, nil
}

// AddChallenge 把题目绑定进比赛，携带比赛内有效分值与可见性
func (s *ContestService) AddChallenge(contestID, challengeID uint32, score uint, visible bool) (*models.ContestChallenge, error) {
	if _, err := s.GetContest(contestID); err != nil {
		return nil, err
	}
	var challenge models.Challenge
	if err := s.db.First(&challenge, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeGone
		}
		return nil, err
	}
	if score == 0 {
		score = challenge.BaseScore
	}
	cc := models.ContestChallenge{
		ContestID:   contestID,
		ChallengeID: challengeID,
		Score:       score,
		Visible:     visible,
	}
	if err := s.db.Create(&cc).Error; err != nil {
		return nil, err
	}
	if visible {
		s.bus.Emit(EventChallengeVisibilityChanged, cc.ID)
	}
	return &cc, nil
}

// SetChallengeVisibility 调整题目在比赛内的可见性并广播事件
func (s *ContestService) SetChallengeVisibility(ccID uint32, visible bool) error {
	result := s.db.Model(&models.ContestChallenge{}).
		Where("id = ?", ccID).
		Update("visible", visible)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContestChallengeNotFound
	}
	s.bus.Emit(EventChallengeVisibilityChanged, ccID)
	return nil
}

// SetContestState 推进比赛生命周期状态。
// 状态切换会改变可见题目集合（NOT_STARTED→ACTIVE 时列从无到有），
// 必须广播事件让排行榜缓存失效。
func (s *ContestService) SetContestState(contestID uint32, state models.ContestState) error {
	result := s.db.Model(&models.Contest{}).
		Where("id = ? AND deleted = 0", contestID).
		Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContestNotFound
	}
	s.bus.Emit(EventContestStateChanged, contestID)
	return nil
}

// DeleteChallenge 软删除题目，之后该题不再接受提交，
// 并从所有比赛的可见题目集中消失，同样要触发缓存失效
func (s *ContestService) DeleteChallenge(challengeID uint32) error {
	result := s.db.Model(&models.Challenge{}).
		Where("id = ? AND deleted = 0", challengeID).
		Update("deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChallengeNotFound
	}
	s.bus.Emit(EventChallengeVisibilityChanged, challengeID)
	return nil
}
