// file: services/scoreboard_service.go
package services

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/3liuhuo/DummyCTFPlatform/models"
)

// ScoreboardSource 排行榜计算所需的只读数据面
type ScoreboardSource interface {
	GetContest(contestID uint32) (*models.Contest, error)
	GetVisibleChallenges(contestID uint32) ([]models.ContestChallenge, error)
	GetRegistrants(contestID uint32) ([]models.Registrant, error)
	GetContestValidSubmissions(contestID uint32) ([]models.Submission, error)
}

// DBScoreboardSource 组合比赛目录与提交记录两个服务，构成完整数据面
type DBScoreboardSource struct {
	*ContestService
	*SubmissionService
}

func NewDBScoreboardSource(cs *ContestService, ss *SubmissionService) *DBScoreboardSource {
	return &DBScoreboardSource{ContestService: cs, SubmissionService: ss}
}

// ScoreboardService 排行榜聚合 + 进程内单槽缓存。
// 缓存无 TTL，失效完全由事件驱动；同一时间只缓存一场比赛的视图，
// 与全局唯一"当前比赛"的使用方式一致。
type ScoreboardService struct {
	source ScoreboardSource

	mu       sync.Mutex
	gen      uint64
	cachedID uint32
	cached   *models.ScoreboardView
}

func NewScoreboardService(source ScoreboardSource, bus *EventBus) *ScoreboardService {
	s := &ScoreboardService{source: source}
	invalidate := func(interface{}) { s.Invalidate() }
	bus.Subscribe(EventSubmissionPassed, invalidate)
	bus.Subscribe(EventChallengeVisibilityChanged, invalidate)
	bus.Subscribe(EventCurrentContestChanged, invalidate)
	bus.Subscribe(EventContestStateChanged, invalidate)
	bus.Subscribe(EventRegistrantNew, invalidate)
	return s
}

// Invalidate 清空缓存槽并推进代号，下次读取触发重算
func (s *ScoreboardService) Invalidate() {
	s.mu.Lock()
	s.gen++
	s.cached = nil
	s.cachedID = 0
	s.mu.Unlock()
}

// Get 缓存优先读取排行榜。未命中时在锁外重算；
// 回填前核对失效代号，重算期间到达的失效不能被旧视图覆盖，
// 否则无 TTL 的缓存会一直停留在过期数据上。
func (s *ScoreboardService) Get(contestID uint32) (*models.ScoreboardView, error) {
	s.mu.Lock()
	if s.cached != nil && s.cachedID == contestID {
		view := s.cached
		s.mu.Unlock()
		return view, nil
	}
	gen := s.gen
	s.mu.Unlock()

	view, err := s.Compute(contestID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.gen == gen {
		s.cached = view
		s.cachedID = contestID
	}
	s.mu.Unlock()
	return view, nil
}

// Compute 扫描全部解出记录并生成排行榜视图。
//
// 排序规则：总分降序；同分按累计罚时升序；仍相同按最后一次计入的
// 解出时间升序；再往后保持稳定顺序。罚时为每次解出距比赛开始的
// 毫秒数之和。引用了不可见题目或非报名用户的记录记日志后跳过，
// 脏数据不允许拖垮整个排行榜。
func (s *ScoreboardService) Compute(contestID uint32) (*models.ScoreboardView, error) {
	contest, err := s.source.GetContest(contestID)
	if err != nil {
		return nil, err
	}
	ccs, err := s.source.GetVisibleChallenges(contestID)
	if err != nil {
		return nil, err
	}
	regs, err := s.source.GetRegistrants(contestID)
	if err != nil {
		return nil, err
	}
	subs, err := s.source.GetContestValidSubmissions(contestID)
	if err != nil {
		return nil, err
	}

	ccIndex := make(map[uint32]int, len(ccs))
	names := make([]string, len(ccs))
	for i, cc := range ccs {
		ccIndex[cc.ID] = i
		names[i] = cc.Challenge.ChallengeName
	}

	userIndex := make(map[uint32]int, len(regs))
	rows := make([]models.ScoreboardRow, len(regs))
	lastSolve := make([]time.Time, len(regs))
	for i, reg := range regs {
		userIndex[reg.UserID] = i
		rows[i] = models.ScoreboardRow{
			UserID:   reg.UserID,
			Nickname: reg.User.Nickname,
			Solved:   make([]bool, len(ccs)),
		}
	}

	for _, sm := range subs {
		ci, ok := ccIndex[sm.CCID]
		if !ok {
			log.Printf("scoreboard: submission %d references unknown cc %d, skipped", sm.ID, sm.CCID)
			continue
		}
		ui, ok := userIndex[sm.UserID]
		if !ok {
			log.Printf("scoreboard: submission %d references unregistered user %d, skipped", sm.ID, sm.UserID)
			continue
		}
		rows[ui].Solved[ci] = true
		rows[ui].Score += ccs[ci].Score
		rows[ui].Time += sm.CreatedAt.Sub(contest.Begin).Milliseconds()
		lastSolve[ui] = sm.CreatedAt
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := rows[order[a]], rows[order[b]]
		if ra.Score != rb.Score {
			return ra.Score > rb.Score
		}
		if ra.Time != rb.Time {
			return ra.Time < rb.Time
		}
		return lastSolve[order[a]].Before(lastSolve[order[b]])
	})

	sorted := make([]models.ScoreboardRow, len(rows))
	for i, idx := range order {
		sorted[i] = rows[idx]
	}

	return &models.ScoreboardView{
		Contest:    *contest,
		Challenges: names,
		Rows:       sorted,
	}, nil
}
