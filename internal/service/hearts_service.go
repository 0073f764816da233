package service

import (
	"lingo_backend/internal/config"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"time"

	"gorm.io/gorm"
)

// HeartsService 红心资源管理
// 懒初始化、懒恢复：状态在读取或扣减时按 LastRefillAt 结算，不跑后台定时器
type HeartsService struct {
	HeartsRepo *repository.HeartsRepository
	DB         *gorm.DB
	Config     *config.Config
}

func NewHeartsService(heartsRepo *repository.HeartsRepository, db *gorm.DB, cfg *config.Config) *HeartsService {
	return &HeartsService{
		HeartsRepo: heartsRepo,
		DB:         db,
		Config:     cfg,
	}
}

// HeartsStatus 对外的红心状态
type HeartsStatus struct {
	Current            int `json:"current"`
	Max                int `json:"max"`
	SecondsPerHeart    int `json:"secondsPerHeart"`
	SecondsToNextHeart int `json:"secondsToNextHeart"` // 满心时为0
}

// settle 行锁读取并按整周期补心，行不存在时初始化为满心
// 结算写回和扣减走同一把行锁，并发扣减不会被读路径覆盖；只能在事务内调用
// 并发首访撞 user_id 唯一索引时改读已提交的行
func (s *HeartsService) settle(tx *gorm.DB, userID uint) (*model.UserHearts, error) {
	hearts, err := s.HeartsRepo.FindForUpdate(tx, userID)
	if err == gorm.ErrRecordNotFound {
		fresh := &model.UserHearts{
			UserID:          userID,
			Current:         s.Config.Hearts.Max,
			Max:             s.Config.Hearts.Max,
			SecondsPerHeart: s.Config.Hearts.SecondsPerHeart,
			LastRefillAt:    time.Now(),
		}
		cerr := s.HeartsRepo.Create(tx, fresh)
		if cerr == nil {
			return fresh, nil
		}
		if hearts, err = s.HeartsRepo.FindForUpdate(tx, userID); err != nil {
			return nil, cerr
		}
	} else if err != nil {
		return nil, err
	}

	if applyRegen(hearts, time.Now()) {
		if err := s.HeartsRepo.Save(tx, hearts); err != nil {
			return nil, err
		}
	}
	return hearts, nil
}

// Get 读取并结算红心，首次访问时初始化为满心
func (s *HeartsService) Get(userID uint) (*model.UserHearts, error) {
	var hearts *model.UserHearts
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		h, err := s.settle(tx, userID)
		if err != nil {
			return err
		}
		hearts = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hearts, nil
}

// Status 附带下一颗红心的倒计时
func (s *HeartsService) Status(userID uint) (*HeartsStatus, error) {
	hearts, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	return &HeartsStatus{
		Current:            hearts.Current,
		Max:                hearts.Max,
		SecondsPerHeart:    hearts.SecondsPerHeart,
		SecondsToNextHeart: secondsToNextHeart(hearts, time.Now()),
	}, nil
}

// SpendOnWrong 答错扣一颗红心，0心时不扣
// 行锁保证同一用户并发答错不会丢扣减也不会扣成负数
// 返回结算后的余量和本次是否真正扣到
func (s *HeartsService) SpendOnWrong(tx *gorm.DB, userID uint) (int, bool, error) {
	hearts, err := s.settle(tx, userID)
	if err != nil {
		return 0, false, err
	}

	spent := false
	if hearts.Current > 0 {
		// 从满心扣下去时恢复时钟从现在起算
		if hearts.Current == hearts.Max {
			hearts.LastRefillAt = time.Now()
		}
		hearts.Current--
		spent = true
		if err := s.HeartsRepo.Save(tx, hearts); err != nil {
			return 0, false, err
		}
	}
	return hearts.Current, spent, nil
}

// Refill 管理员/测试用：直接回满
func (s *HeartsService) Refill(userID uint) (*model.UserHearts, error) {
	var hearts *model.UserHearts
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		h, err := s.settle(tx, userID)
		if err != nil {
			return err
		}
		h.Current = h.Max
		h.LastRefillAt = time.Now()
		if err := s.HeartsRepo.Save(tx, h); err != nil {
			return err
		}
		hearts = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hearts, nil
}

// applyRegen 按整周期补心；返回状态是否有变化
// 未满时 LastRefillAt 只按整周期前移，保留不足一颗的进度
func applyRegen(h *model.UserHearts, now time.Time) bool {
	if h.Current >= h.Max {
		return false
	}
	per := time.Duration(h.SecondsPerHeart) * time.Second
	if per <= 0 {
		return false
	}
	elapsed := now.Sub(h.LastRefillAt)
	n := int(elapsed / per)
	if n <= 0 {
		return false
	}
	h.Current += n
	if h.Current >= h.Max {
		h.Current = h.Max
		h.LastRefillAt = now
	} else {
		h.LastRefillAt = h.LastRefillAt.Add(time.Duration(n) * per)
	}
	return true
}

func secondsToNextHeart(h *model.UserHearts, now time.Time) int {
	if h.Current >= h.Max {
		return 0
	}
	per := time.Duration(h.SecondsPerHeart) * time.Second
	remaining := per - now.Sub(h.LastRefillAt)
	if remaining < 0 {
		remaining = 0
	}
	return int(remaining / time.Second)
}
