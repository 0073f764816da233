package service

import (
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PassThreshold 通关线：正确率达到0.7该模态记为 completed
const PassThreshold = 0.7

// ProgressionService 进度追踪
// 状态 locked→available→completed 单向推进，bestScore 单调不减
type ProgressionService struct {
	ProgressionRepo *repository.ProgressionRepository
	ContentRepo     *repository.ContentRepository
	DB              *gorm.DB
}

func NewProgressionService(
	progressionRepo *repository.ProgressionRepository,
	contentRepo *repository.ContentRepository,
	db *gorm.DB,
) *ProgressionService {
	return &ProgressionService{
		ProgressionRepo: progressionRepo,
		ContentRepo:     contentRepo,
		DB:              db,
	}
}

// RecordAttempt 测验结算时调用一次，必须在 finish 的事务内执行
// 更新模态进度、账户XP与连续天数；首次通关时累计单元掌握度并检查解锁
func (s *ProgressionService) RecordAttempt(tx *gorm.DB, userID uint, lessonID string, mode model.Mode, accuracy float64, xpEarned int) error {
	firstCompletion, err := s.updateModeProgress(tx, userID, lessonID, mode, accuracy)
	if err != nil {
		return err
	}

	if err := s.updateUserProgress(tx, userID, xpEarned); err != nil {
		return err
	}

	if !firstCompletion {
		return nil
	}

	lesson, err := s.ContentRepo.FindLesson(lessonID)
	if err != nil {
		// 课程元数据缺失不阻塞结算
		logger.Log.Warn("Lesson metadata missing during progression update",
			zap.String("lessonId", lessonID), zap.Error(err))
		return nil
	}

	if err := s.bumpUnitMastery(tx, userID, lesson); err != nil {
		return err
	}

	completed, err := s.ProgressionRepo.CountCompletedModes(tx, userID, lessonID)
	if err != nil {
		return err
	}
	if int(completed) >= len(model.AllModes) {
		if err := s.markLessonCompleted(tx, userID, lesson); err != nil {
			return err
		}
		if err := s.unlockNextLesson(tx, userID, lesson); err != nil {
			return err
		}
	}

	return nil
}

// updateModeProgress 返回本次是否为该模态的首次通关
func (s *ProgressionService) updateModeProgress(tx *gorm.DB, userID uint, lessonID string, mode model.Mode, accuracy float64) (bool, error) {
	now := time.Now()
	p, err := s.ProgressionRepo.FindModeProgress(tx, userID, lessonID, mode)
	if err == gorm.ErrRecordNotFound {
		p = &model.PlanetModeProgress{
			UserID:   userID,
			LessonID: lessonID,
			Mode:     mode,
			State:    model.ProgressAvailable,
		}
		if err := s.ProgressionRepo.CreateModeProgress(tx, p); err != nil {
			return false, err
		}
	} else if err != nil {
		return false, err
	}

	p.Attempts++
	p.LastAttemptAt = &now
	if accuracy > p.BestScore {
		p.BestScore = accuracy
	}

	firstCompletion := false
	if accuracy >= PassThreshold && p.State != model.ProgressCompleted {
		p.State = model.ProgressCompleted
		p.CompletedAt = &now
		firstCompletion = true
	}

	if err := s.ProgressionRepo.SaveModeProgress(tx, p); err != nil {
		return false, err
	}
	return firstCompletion, nil
}

// updateUserProgress 累计XP；当天首次结算时连续天数加一
func (s *ProgressionService) updateUserProgress(tx *gorm.DB, userID uint, xpEarned int) error {
	now := time.Now()
	p, err := s.ProgressionRepo.FindUserProgress(tx, userID)
	if err == gorm.ErrRecordNotFound {
		p = &model.UserProgress{
			UserID:         userID,
			TotalXP:        xpEarned,
			Streak:         1,
			LastActiveDate: now,
		}
		return s.ProgressionRepo.CreateUserProgress(tx, p)
	}
	if err != nil {
		return err
	}

	p.TotalXP += xpEarned
	if !sameDay(p.LastActiveDate, now) {
		p.Streak++
		p.LastActiveDate = now
	}
	return s.ProgressionRepo.SaveUserProgress(tx, p)
}

func (s *ProgressionService) bumpUnitMastery(tx *gorm.DB, userID uint, lesson *model.Lesson) error {
	up, err := s.ProgressionRepo.FindUnitProgress(tx, userID, lesson.UnitID)
	if err == gorm.ErrRecordNotFound {
		total, cerr := s.ContentRepo.CountLessons(lesson.UnitID)
		if cerr != nil {
			return cerr
		}
		up = &model.UnitProgress{
			UserID:       userID,
			UnitID:       lesson.UnitID,
			Mastery:      1,
			TotalLessons: int(total),
		}
		return s.ProgressionRepo.CreateUnitProgress(tx, up)
	}
	if err != nil {
		return err
	}
	up.Mastery++
	return s.ProgressionRepo.SaveUnitProgress(tx, up)
}

func (s *ProgressionService) markLessonCompleted(tx *gorm.DB, userID uint, lesson *model.Lesson) error {
	up, err := s.ProgressionRepo.FindUnitProgress(tx, userID, lesson.UnitID)
	if err != nil {
		return err
	}
	up.CompletedLessons++
	return s.ProgressionRepo.SaveUnitProgress(tx, up)
}

// unlockNextLesson 同单元下一课的四个模态 locked→available
// 绝不降级已是 available/completed 的记录
func (s *ProgressionService) unlockNextLesson(tx *gorm.DB, userID uint, completed *model.Lesson) error {
	lessons, err := s.ContentRepo.ListLessons(completed.UnitID, true)
	if err != nil {
		return err
	}

	var next *model.Lesson
	for i := range lessons {
		if lessons[i].Order == completed.Order+1 {
			next = &lessons[i]
			break
		}
	}
	if next == nil {
		return nil
	}

	for _, mode := range model.AllModes {
		p, err := s.ProgressionRepo.FindModeProgress(tx, userID, next.LessonID, mode)
		if err == gorm.ErrRecordNotFound {
			p = &model.PlanetModeProgress{
				UserID:   userID,
				LessonID: next.LessonID,
				Mode:     mode,
				State:    model.ProgressAvailable,
			}
			if err := s.ProgressionRepo.CreateModeProgress(tx, p); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if p.State == model.ProgressLocked {
			p.State = model.ProgressAvailable
			if err := s.ProgressionRepo.SaveModeProgress(tx, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsLessonUnlocked 单元内第一课永远解锁，其余要求上一课四模态全部通关
func (s *ProgressionService) IsLessonUnlocked(userID uint, lesson *model.Lesson) (bool, error) {
	lessons, err := s.ContentRepo.ListLessons(lesson.UnitID, true)
	if err != nil {
		return false, err
	}

	var prev *model.Lesson
	for i := range lessons {
		if lessons[i].Order == lesson.Order-1 {
			prev = &lessons[i]
			break
		}
	}
	if prev == nil {
		return true, nil
	}

	completed, err := s.ProgressionRepo.CountCompletedModes(s.DB, userID, prev.LessonID)
	if err != nil {
		return false, err
	}
	return int(completed) >= len(model.AllModes), nil
}

// GetUserProgress 懒初始化账户级进度
func (s *ProgressionService) GetUserProgress(userID uint) (*model.UserProgress, error) {
	p, err := s.ProgressionRepo.FindUserProgress(s.DB, userID)
	if err == gorm.ErrRecordNotFound {
		p = &model.UserProgress{
			UserID:         userID,
			LastActiveDate: time.Now(),
		}
		if err := s.ProgressionRepo.CreateUserProgress(s.DB, p); err != nil {
			return nil, err
		}
		return p, nil
	}
	return p, err
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
