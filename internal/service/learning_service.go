package service

import (
	"context"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
	"sort"
)

// LearningService 会话编排
// 把选题、红心、进度、测验状态机组合成对外的学习流程
type LearningService struct {
	Content         *ContentService
	Quiz            *QuizService
	Hearts          *HeartsService
	Progression     *ProgressionService
	ProgressionRepo *repository.ProgressionRepository
}

func NewLearningService(
	content *ContentService,
	quiz *QuizService,
	hearts *HeartsService,
	progression *ProgressionService,
	progressionRepo *repository.ProgressionRepository,
) *LearningService {
	return &LearningService{
		Content:         content,
		Quiz:            quiz,
		Hearts:          hearts,
		Progression:     progression,
		ProgressionRepo: progressionRepo,
	}
}

type MapMode struct {
	Mode      model.Mode          `json:"mode"`
	State     model.ProgressState `json:"state"`
	BestScore float64             `json:"bestScore"`
}

// 课程粒度的地图状态，由四模态聚合推导
const (
	LessonLocked    = "locked"
	LessonCurrent   = "current"
	LessonCompleted = "completed"
)

type MapLesson struct {
	LessonID        string    `json:"lessonId"`
	Title           string    `json:"title"`
	Order           int       `json:"order"`
	State           string    `json:"state"`
	Unlocked        bool      `json:"unlocked"`
	CompletedModes  int       `json:"completedModes"`
	TotalModes      int       `json:"totalModes"`
	ProgressPercent float64   `json:"progressPercent"`
	Modes           []MapMode `json:"modes"`
}

type MapUnit struct {
	UnitID  string      `json:"unitId"`
	Title   string      `json:"title"`
	Order   int         `json:"order"`
	Mastery int         `json:"mastery"`
	Lessons []MapLesson `json:"lessons"`
}

// GetLearningMap 学习地图：目录叠加用户进度
// 单元内第一课永远解锁，后续课要求上一课四模态全部通关
func (s *LearningService) GetLearningMap(ctx context.Context, userID uint) ([]MapUnit, error) {
	catalog, err := s.Content.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := s.ProgressionRepo.ListModeProgressByUser(userID)
	if err != nil {
		return nil, err
	}
	byLesson := make(map[string]map[model.Mode]*model.PlanetModeProgress)
	for i := range progress {
		p := &progress[i]
		if byLesson[p.LessonID] == nil {
			byLesson[p.LessonID] = make(map[model.Mode]*model.PlanetModeProgress)
		}
		byLesson[p.LessonID][p.Mode] = p
	}

	unitProgress, err := s.ProgressionRepo.ListUnitProgressByUser(userID)
	if err != nil {
		return nil, err
	}
	masteryByUnit := make(map[string]int, len(unitProgress))
	for _, up := range unitProgress {
		masteryByUnit[up.UnitID] = up.Mastery
	}

	lessonsByUnit := make(map[string][]model.Lesson)
	for _, l := range catalog.Lessons {
		lessonsByUnit[l.UnitID] = append(lessonsByUnit[l.UnitID], l)
	}

	units := make([]MapUnit, 0, len(catalog.Units))
	for _, u := range catalog.Units {
		lessons := lessonsByUnit[u.UnitID]
		sort.Slice(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })

		mapLessons := make([]MapLesson, 0, len(lessons))
		prevCompleted := true // 第一课视作上一课已通关
		for _, l := range lessons {
			completedModes := countCompleted(byLesson[l.LessonID])
			unlocked := prevCompleted

			modes := make([]MapMode, 0, len(model.AllModes))
			for _, mode := range model.AllModes {
				modes = append(modes, deriveMode(byLesson[l.LessonID][mode], mode, unlocked))
			}

			state := LessonLocked
			if unlocked {
				if completedModes >= len(model.AllModes) {
					state = LessonCompleted
				} else {
					state = LessonCurrent
				}
			}

			mapLessons = append(mapLessons, MapLesson{
				LessonID:        l.LessonID,
				Title:           l.Title,
				Order:           l.Order,
				State:           state,
				Unlocked:        unlocked,
				CompletedModes:  completedModes,
				TotalModes:      len(model.AllModes),
				ProgressPercent: float64(completedModes) / float64(len(model.AllModes)),
				Modes:           modes,
			})
			prevCompleted = completedModes >= len(model.AllModes)
		}

		units = append(units, MapUnit{
			UnitID:  u.UnitID,
			Title:   u.Title,
			Order:   u.Order,
			Mastery: masteryByUnit[u.UnitID],
			Lessons: mapLessons,
		})
	}

	return units, nil
}

// GetLessonModes 单课四模态的状态
func (s *LearningService) GetLessonModes(userID uint, lessonID string) ([]MapMode, error) {
	lesson, err := s.Content.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.Progression.IsLessonUnlocked(userID, lesson)
	if err != nil {
		return nil, err
	}

	records, err := s.ProgressionRepo.ListModeProgressByLesson(s.ProgressionRepo.DB, userID, lessonID)
	if err != nil {
		return nil, err
	}
	byMode := make(map[model.Mode]*model.PlanetModeProgress, len(records))
	for i := range records {
		byMode[records[i].Mode] = &records[i]
	}

	modes := make([]MapMode, 0, len(model.AllModes))
	for _, mode := range model.AllModes {
		modes = append(modes, deriveMode(byMode[mode], mode, unlocked))
	}
	return modes, nil
}

// LessonOverview 进入课程前的概览：题量、可得XP和红心快照
type LessonOverview struct {
	LessonID         string        `json:"lessonId"`
	Title            string        `json:"title"`
	Subtitle         string        `json:"subtitle,omitempty"`
	EstimatedMinutes int           `json:"estimatedMinutes,omitempty"`
	Unlocked         bool          `json:"unlocked"`
	QuestionCount    int           `json:"questionCount"`
	XPReward         int           `json:"xpReward"`
	Modes            []MapMode     `json:"modes"`
	Hearts           *HeartsStatus `json:"hearts"`
}

func (s *LearningService) GetLessonOverview(userID uint, lessonID string) (*LessonOverview, error) {
	lesson, err := s.Content.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.Progression.IsLessonUnlocked(userID, lesson)
	if err != nil {
		return nil, err
	}

	modes, err := s.GetLessonModes(userID, lessonID)
	if err != nil {
		return nil, err
	}

	hearts, err := s.Hearts.Status(userID)
	if err != nil {
		return nil, err
	}

	count := s.Quiz.Config.Quiz.QuestionsPerQuiz
	return &LessonOverview{
		LessonID:         lesson.LessonID,
		Title:            lesson.Title,
		Subtitle:         lesson.Subtitle,
		EstimatedMinutes: lesson.EstimatedMinutes,
		Unlocked:         unlocked,
		QuestionCount:    count,
		XPReward:         count * s.Quiz.Config.Quiz.XPPerCorrect,
		Modes:            modes,
		Hearts:           hearts,
	}, nil
}

// StartQuiz 校验模态和解锁状态后开始测验
func (s *LearningService) StartQuiz(userID uint, lessonID, modeStr string) (*StartResult, error) {
	if !model.IsValidMode(modeStr) {
		return nil, util.ErrUnsupportedMode
	}
	mode := model.Mode(modeStr)

	lesson, err := s.Content.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.Published {
		return nil, util.ErrLessonNotFound
	}

	unlocked, err := s.Progression.IsLessonUnlocked(userID, lesson)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, util.ErrLessonLocked
	}

	return s.Quiz.Start(userID, lesson.UnitID, lessonID, mode)
}

// ResumeResult 恢复进行中测验时返回的断点
type ResumeResult struct {
	AttemptID string           `json:"attemptId"`
	LessonID  string           `json:"lessonId"`
	Mode      model.Mode       `json:"mode"`
	Progress  ProgressCounters `json:"progress"`
	Question  *ClientQuestion  `json:"question,omitempty"`
}

// ResumeQuiz 找回该课程模态下进行中的测验及其当前题
func (s *LearningService) ResumeQuiz(userID uint, lessonID, modeStr string) (*ResumeResult, error) {
	if !model.IsValidMode(modeStr) {
		return nil, util.ErrUnsupportedMode
	}

	attempt, err := s.Quiz.Resume(userID, lessonID, model.Mode(modeStr))
	if err != nil {
		return nil, err
	}

	answered, err := s.Quiz.answeredSet(s.Quiz.DB, attempt.ID)
	if err != nil {
		return nil, err
	}

	var question *ClientQuestion
	if nextID := firstUnanswered(attempt.QuestionIDList(), answered); nextID != "" {
		if q, qerr := s.Quiz.QuestionRepo.FindByQuestionID(nextID); qerr == nil {
			question = s.Quiz.clientQuestion(q)
		}
	}

	return &ResumeResult{
		AttemptID: attempt.ID,
		LessonID:  attempt.LessonID,
		Mode:      attempt.Mode,
		Progress: ProgressCounters{
			AnsweredCount:  len(answered),
			CorrectCount:   attempt.CorrectCount,
			TotalQuestions: attempt.TotalQuestions,
		},
		Question: question,
	}, nil
}

func (s *LearningService) CurrentQuestion(userID uint, attemptID string) (*ClientQuestion, error) {
	return s.Quiz.CurrentQuestion(userID, attemptID)
}

func (s *LearningService) SubmitAnswer(userID uint, attemptID, questionID string, payload AnswerPayload) (*SubmitResult, error) {
	return s.Quiz.SubmitAnswer(userID, attemptID, questionID, payload)
}

func (s *LearningService) FinishQuiz(userID uint, attemptID string) (*FinishResult, error) {
	return s.Quiz.Finish(userID, attemptID)
}

func (s *LearningService) GetHearts(userID uint) (*HeartsStatus, error) {
	return s.Hearts.Status(userID)
}

func (s *LearningService) RefillHearts(userID uint) (*HeartsStatus, error) {
	if _, err := s.Hearts.Refill(userID); err != nil {
		return nil, err
	}
	return s.Hearts.Status(userID)
}

// UserSummary 账户级进度概览
type UserSummary struct {
	TotalXP       int            `json:"totalXp"`
	Streak        int            `json:"streak"`
	UnitMastery   map[string]int `json:"unitMastery"`
	Hearts        *HeartsStatus  `json:"hearts"`
	LessonsPassed int            `json:"lessonsPassed"`
}

func (s *LearningService) GetUserSummary(userID uint) (*UserSummary, error) {
	progress, err := s.Progression.GetUserProgress(userID)
	if err != nil {
		return nil, err
	}

	unitProgress, err := s.ProgressionRepo.ListUnitProgressByUser(userID)
	if err != nil {
		return nil, err
	}
	mastery := make(map[string]int, len(unitProgress))
	lessonsPassed := 0
	for _, up := range unitProgress {
		mastery[up.UnitID] = up.Mastery
		lessonsPassed += up.CompletedLessons
	}

	hearts, err := s.Hearts.Status(userID)
	if err != nil {
		return nil, err
	}

	return &UserSummary{
		TotalXP:       progress.TotalXP,
		Streak:        progress.Streak,
		UnitMastery:   mastery,
		Hearts:        hearts,
		LessonsPassed: lessonsPassed,
	}, nil
}

// PracticeRecommendation 练习中心的薄弱技能：已解锁但最好成绩还不到通关线
type PracticeRecommendation struct {
	LessonID  string     `json:"lessonId"`
	Mode      model.Mode `json:"mode"`
	BestScore float64    `json:"bestScore"`
}

func (s *LearningService) GetPracticeHub(userID uint, limit int) ([]PracticeRecommendation, error) {
	if limit <= 0 {
		limit = 5
	}
	records, err := s.ProgressionRepo.ListModeProgressByUser(userID)
	if err != nil {
		return nil, err
	}

	var recs []PracticeRecommendation
	for _, p := range records {
		if p.State != model.ProgressLocked && p.BestScore < PassThreshold {
			recs = append(recs, PracticeRecommendation{
				LessonID:  p.LessonID,
				Mode:      p.Mode,
				BestScore: p.BestScore,
			})
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].BestScore < recs[j].BestScore })
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// StartPractice 从最薄弱的技能开练；没有可推荐的就退回地图上第一处未通关的模态
func (s *LearningService) StartPractice(ctx context.Context, userID uint) (*StartResult, error) {
	recs, err := s.GetPracticeHub(userID, 1)
	if err != nil {
		return nil, err
	}
	if len(recs) > 0 {
		return s.StartQuiz(userID, recs[0].LessonID, string(recs[0].Mode))
	}

	units, err := s.GetLearningMap(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		for _, l := range u.Lessons {
			if !l.Unlocked {
				continue
			}
			for _, m := range l.Modes {
				if m.State != model.ProgressCompleted {
					return s.StartQuiz(userID, l.LessonID, string(m.Mode))
				}
			}
		}
	}
	return nil, util.ErrLessonNotFound
}

func deriveMode(p *model.PlanetModeProgress, mode model.Mode, lessonUnlocked bool) MapMode {
	m := MapMode{Mode: mode, State: model.ProgressLocked}
	if p != nil {
		m.State = p.State
		m.BestScore = p.BestScore
	} else if lessonUnlocked {
		m.State = model.ProgressAvailable
	}
	// 课程被锁时覆盖为 locked，但不掩盖已通关的记录
	if !lessonUnlocked && m.State == model.ProgressAvailable {
		m.State = model.ProgressLocked
	}
	return m
}

func countCompleted(byMode map[model.Mode]*model.PlanetModeProgress) int {
	n := 0
	for _, p := range byMode {
		if p.State == model.ProgressCompleted {
			n++
		}
	}
	return n
}
