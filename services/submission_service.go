// file: services/submission_service.go
package services

import (
	"log"

	"github.com/3liuhuo/DummyCTFPlatform/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmissionFilter 管理端提交日志的筛选条件
type SubmissionFilter struct {
	ContestID uint32
	CCID      uint32
	UserID    uint32
	OnlyValid bool
	Limit     int
}

// SubmissionStore 提交记录的存储契约。
// CreateValidIfAbsent 是唯一的条件写入：同一 (user, cc) 已有 valid 记录时
// 不再插入，改为返回已有记录；原子性由存储层唯一索引保证。
type SubmissionStore interface {
	Create(sub *models.Submission) error
	CreateValidIfAbsent(sub *models.Submission) (*models.Submission, bool, error)
	FindValidByContest(contestID uint32) ([]models.Submission, error)
	FindValidByUser(contestID, userID uint32) ([]models.Submission, error)
	ListAttempts(filter SubmissionFilter) ([]models.Submission, error)
}

// GormSubmissionStore SubmissionStore 的 MySQL 实现
type GormSubmissionStore struct {
	db *gorm.DB
}

func NewGormSubmissionStore(db *gorm.DB) *GormSubmissionStore {
	return &GormSubmissionStore{db: db}
}

func (s *GormSubmissionStore) Create(sub *models.Submission) error {
	return s.db.Create(sub).Error
}

// CreateValidIfAbsent 依赖 uniq_user_cc_valid 唯一索引做原子"不存在才插入"。
// 冲突时 RowsAffected 为 0，说明竞态落败，取回胜者记录返回。
func (s *GormSubmissionStore) CreateValidIfAbsent(sub *models.Submission) (*models.Submission, bool, error) {
	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(sub)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return sub, true, nil
	}
	var existing models.Submission
	err := s.db.Where("user_id = ? AND cc_id = ? AND valid = ?", sub.UserID, sub.CCID, true).
		First(&existing).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (s *GormSubmissionStore) FindValidByContest(contestID uint32) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.Where("contest_id = ? AND valid = ?", contestID, true).
		Order("created_at asc, id asc").
		Find(&subs).Error
	return subs, err
}

func (s *GormSubmissionStore) FindValidByUser(contestID, userID uint32) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.Where("contest_id = ? AND user_id = ? AND valid = ?", contestID, userID, true).
		Find(&subs).Error
	return subs, err
}

func (s *GormSubmissionStore) ListAttempts(filter SubmissionFilter) ([]models.Submission, error) {
	db := s.db.Model(&models.Submission{})
	if filter.ContestID != 0 {
		db = db.Where("contest_id = ?", filter.ContestID)
	}
	if filter.CCID != 0 {
		db = db.Where("cc_id = ?", filter.CCID)
	}
	if filter.UserID != 0 {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.OnlyValid {
		db = db.Where("valid = ?", true)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var subs []models.Submission
	err := db.Order("created_at desc, id desc").Limit(limit).Find(&subs).Error
	return subs, err
}

// ChallengeResolver 提交前的资格校验入口，由 ContestService 实现
type ChallengeResolver interface {
	GetSubmittableChallenge(ccID uint32) (*models.ContestChallenge, error)
}

// SubmissionService 负责落库一次提交并维护"首个解出最终生效"语义
type SubmissionService struct {
	store    SubmissionStore
	contests ChallengeResolver
	bus      *EventBus
}

func NewSubmissionService(store SubmissionStore, contests ChallengeResolver, bus *EventBus) *SubmissionService {
	return &SubmissionService{store: store, contests: contests, bus: bus}
}

// AddSubmission 记录一次 Flag 提交。
//
// 流程固定：用户标识校验 → 资格校验 → 判定 → 落库。
// 判错的提交原文入库、无条件写入；判对的提交把原文替换为占位符，
// 再走原子"不存在才插入"，竞态落败时返回已有记录。
// submission.passed 事件只在真正插入新 valid 记录时广播一次。
func (s *SubmissionService) AddSubmission(userID uint32, ip string, ccID uint32, flag string) (*models.Submission, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	cc, err := s.contests.GetSubmittableChallenge(ccID)
	if err != nil {
		return nil, err
	}

	// 审计日志不落 Flag 原文
	log.Printf("service.submission.add user=%d ip=%s cc=%d flag_len=%d", userID, ip, ccID, len(flag))

	isMatch := cc.Challenge.TestFlag(flag)
	sub := &models.Submission{
		UserID:      userID,
		ContestID:   cc.ContestID,
		ChallengeID: cc.ChallengeID,
		CCID:        cc.ID,
		Input:       flag,
		Valid:       isMatch,
		IP:          ip,
	}
	if !isMatch {
		if err := s.store.Create(sub); err != nil {
			return nil, err
		}
		return sub, nil
	}

	sub.Input = models.FlagPlaceholder
	one := uint8(1)
	sub.ValidKey = &one
	record, inserted, err := s.store.CreateValidIfAbsent(sub)
	if err != nil {
		return nil, err
	}
	if inserted {
		s.bus.Emit(EventSubmissionPassed, cc.ID)
	}
	return record, nil
}

// GetContestValidSubmissions 某场比赛全部解出记录，按提交时间升序
func (s *SubmissionService) GetContestValidSubmissions(contestID uint32) ([]models.Submission, error) {
	if contestID == 0 {
		return nil, ErrContestNotFound
	}
	return s.store.FindValidByContest(contestID)
}

// GetUserValidSubmissions 某用户在某比赛内的解出记录
func (s *SubmissionService) GetUserValidSubmissions(contestID, userID uint32) ([]models.Submission, error) {
	if contestID == 0 {
		return nil, ErrContestNotFound
	}
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	return s.store.FindValidByUser(contestID, userID)
}

// ListAttempts 管理端查询提交日志（正确提交的原文在落库时已脱敏）
func (s *SubmissionService) ListAttempts(filter SubmissionFilter) ([]models.Submission, error) {
	return s.store.ListAttempts(filter)
}
