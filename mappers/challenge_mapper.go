// file: mappers/challenge_mapper.go
package mappers

import (
	"github.com/3liuhuo/DummyCTFPlatform/dto"
	"github.com/3liuhuo/DummyCTFPlatform/models"
)

func MapCreateReqToModel(req dto.CreateChallengeReq) models.Challenge {
	return models.Challenge{
		ChallengeName: req.ChallengeName,
		Author:        req.Author,
		Description:   req.Description,
		Flag:          req.Flag,
		BaseScore:     req.BaseScore,
	}
}

// MapCCToItemResp 把比赛题目映射为选手可见条目，solvedCCIDs 为本人已解出的 cc 集合
func MapCCToItemResp(cc models.ContestChallenge, solvedCCIDs map[uint32]bool) dto.ChallengeItemResp {
	return dto.ChallengeItemResp{
		CCID:          cc.ID,
		ChallengeName: cc.Challenge.ChallengeName,
		Author:        cc.Challenge.Author,
		Description:   cc.Challenge.Description,
		Score:         cc.Score,
		Solved:        solvedCCIDs[cc.ID],
	}
}
