package service

import (
	"context"
	"encoding/json"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
	"lingo_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	catalogCacheKey = "lingo:catalog:v1"
	catalogCacheTTL = 5 * time.Minute
)

// ContentService 课程目录与内容管理
// 学员侧目录走 Redis 缓存，管理端写操作使缓存失效
type ContentService struct {
	ContentRepo  *repository.ContentRepository
	QuestionRepo *repository.QuestionRepository
	Redis        *redis.Client
	DB           *gorm.DB
}

func NewContentService(
	contentRepo *repository.ContentRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	db *gorm.DB,
) *ContentService {
	return &ContentService{
		ContentRepo:  contentRepo,
		QuestionRepo: questionRepo,
		Redis:        rdb,
		DB:           db,
	}
}

// Catalog 学员可见的目录快照
type Catalog struct {
	Units   []model.Unit   `json:"units"`
	Lessons []model.Lesson `json:"lessons"`
}

// GetCatalog 已发布的单元和课程，带缓存
func (s *ContentService) GetCatalog(ctx context.Context) (*Catalog, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, catalogCacheKey).Result(); err == nil {
			var catalog Catalog
			if err := json.Unmarshal([]byte(cached), &catalog); err == nil {
				return &catalog, nil
			}
		}
	}

	units, err := s.ContentRepo.ListUnits(true)
	if err != nil {
		return nil, err
	}
	lessons, err := s.ContentRepo.ListAllLessons(true)
	if err != nil {
		return nil, err
	}

	catalog := &Catalog{Units: units, Lessons: lessons}

	if s.Redis != nil {
		if data, err := json.Marshal(catalog); err == nil {
			if err := s.Redis.Set(ctx, catalogCacheKey, data, catalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("Failed to cache catalog", zap.Error(err))
			}
		}
	}

	return catalog, nil
}

func (s *ContentService) invalidateCatalog(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, catalogCacheKey).Err(); err != nil {
		logger.Log.Warn("Failed to invalidate catalog cache", zap.Error(err))
	}
}

func (s *ContentService) GetLesson(lessonID string) (*model.Lesson, error) {
	lesson, err := s.ContentRepo.FindLesson(lessonID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrLessonNotFound
	}
	return lesson, err
}

func (s *ContentService) GetUnit(unitID string) (*model.Unit, error) {
	unit, err := s.ContentRepo.FindUnit(unitID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrUnitNotFound
	}
	return unit, err
}

// 管理端操作

func (s *ContentService) CreateUnit(ctx context.Context, unit *model.Unit) error {
	if err := s.ContentRepo.CreateUnit(unit); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *ContentService) UpdateUnit(ctx context.Context, unitID string, update func(*model.Unit)) (*model.Unit, error) {
	unit, err := s.GetUnit(unitID)
	if err != nil {
		return nil, err
	}
	update(unit)
	if err := s.ContentRepo.UpdateUnit(unit); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return unit, nil
}

func (s *ContentService) DeleteUnit(ctx context.Context, unitID string) error {
	if _, err := s.GetUnit(unitID); err != nil {
		return err
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("unit_id = ?", unitID).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Where("unit_id = ?", unitID).Delete(&model.Unit{}).Error
	})
	if err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *ContentService) CreateLesson(ctx context.Context, lesson *model.Lesson) error {
	if _, err := s.GetUnit(lesson.UnitID); err != nil {
		return err
	}
	if err := s.ContentRepo.CreateLesson(lesson); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *ContentService) UpdateLesson(ctx context.Context, lessonID string, update func(*model.Lesson)) (*model.Lesson, error) {
	lesson, err := s.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}
	update(lesson)
	if err := s.ContentRepo.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return lesson, nil
}

func (s *ContentService) DeleteLesson(ctx context.Context, lessonID string) error {
	if _, err := s.GetLesson(lessonID); err != nil {
		return err
	}
	if err := s.ContentRepo.DeleteLesson(lessonID); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// 题库管理

func (s *ContentService) ListQuestions(mode model.Mode) ([]model.Question, error) {
	if !model.IsValidMode(string(mode)) {
		return nil, util.ErrUnsupportedMode
	}
	return s.QuestionRepo.FindPoolByMode(mode)
}

func (s *ContentService) CreateQuestion(question *model.Question) error {
	if !model.IsValidMode(string(question.Mode)) {
		return util.ErrUnsupportedMode
	}
	return s.QuestionRepo.Create(question)
}

func (s *ContentService) UpdateQuestion(questionID string, update func(*model.Question)) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByQuestionID(questionID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	update(question)
	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *ContentService) DeleteQuestion(questionID string) error {
	if _, err := s.QuestionRepo.FindByQuestionID(questionID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrQuestionNotFound
		}
		return err
	}
	return s.QuestionRepo.Delete(questionID)
}
