package service

import (
	"lingo_backend/internal/config"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
	"lingo_backend/pkg/monitoring"
	"strconv"
	"time"

	"gorm.io/gorm"
)

func nowPtr() *time.Time {
	t := time.Now()
	return &t
}

// QuizService 测验状态机：start → submitAnswer* → finish
// 同一 attempt 的写入靠行锁串行化，所有写操作都在事务内
type QuizService struct {
	AttemptRepo  *repository.QuizAttemptRepository
	QuestionRepo *repository.QuestionRepository
	AudioRepo    *repository.AudioRepository
	Picker       *QuestionPickerService
	Hearts       *HeartsService
	Progression  *ProgressionService
	DB           *gorm.DB
	Config       *config.Config
}

func NewQuizService(
	attemptRepo *repository.QuizAttemptRepository,
	questionRepo *repository.QuestionRepository,
	audioRepo *repository.AudioRepository,
	picker *QuestionPickerService,
	hearts *HeartsService,
	progression *ProgressionService,
	db *gorm.DB,
	cfg *config.Config,
) *QuizService {
	return &QuizService{
		AttemptRepo:  attemptRepo,
		QuestionRepo: questionRepo,
		AudioRepo:    audioRepo,
		Picker:       picker,
		Hearts:       hearts,
		Progression:  progression,
		DB:           db,
		Config:       cfg,
	}
}

type StartResult struct {
	AttemptID      string          `json:"attemptId"`
	LessonID       string          `json:"lessonId"`
	Mode           model.Mode      `json:"mode"`
	TotalQuestions int             `json:"totalQuestions"`
	Question       *ClientQuestion `json:"question"`
}

type ProgressCounters struct {
	AnsweredCount  int `json:"answeredCount"`
	CorrectCount   int `json:"correctCount"`
	TotalQuestions int `json:"totalQuestions"`
}

type SubmitResult struct {
	IsCorrect       bool `json:"isCorrect"`
	AlreadyAnswered bool `json:"alreadyAnswered"`
	AnswerReveal
	XPEarned        int              `json:"xpEarned"` // 本次提交的增量
	Hearts          *HeartsStatus    `json:"hearts"`
	HeartsExhausted bool             `json:"heartsExhausted"`
	Progress        ProgressCounters `json:"progress"`
	Next            *ClientQuestion  `json:"next,omitempty"`
	NoMoreQuestions bool             `json:"noMoreQuestions"`
}

type FinishResult struct {
	AttemptID      string  `json:"attemptId"`
	CorrectCount   int     `json:"correctCount"`
	TotalQuestions int     `json:"totalQuestions"`
	Accuracy       float64 `json:"accuracy"`
	XPEarned       int     `json:"xpEarned"`
	Passed         bool    `json:"passed"`
}

// Start 选题并创建 attempt，返回第一题
func (s *QuizService) Start(userID uint, unitID, lessonID string, mode model.Mode) (*StartResult, error) {
	count := s.Config.Quiz.QuestionsPerQuiz
	questions, err := s.Picker.Pick(lessonID, mode, count)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.QuestionID
	}

	attempt := &model.QuizAttempt{
		UserID:         userID,
		UnitID:         unitID,
		LessonID:       lessonID,
		Mode:           mode,
		TotalQuestions: len(ids),
		Status:         model.AttemptActive,
	}
	if err := attempt.SetQuestionIDs(ids); err != nil {
		return nil, err
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	first := questions[0]
	return &StartResult{
		AttemptID:      attempt.ID,
		LessonID:       lessonID,
		Mode:           mode,
		TotalQuestions: attempt.TotalQuestions,
		Question:       s.clientQuestion(&first),
	}, nil
}

// CurrentQuestion 从固定顺序和已答集合推导当前题，不缓存游标
func (s *QuizService) CurrentQuestion(userID uint, attemptID string) (*ClientQuestion, error) {
	attempt, err := s.ownedAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status == model.AttemptFinished {
		return nil, util.ErrAttemptFinished
	}

	answered, err := s.answeredSet(s.DB, attemptID)
	if err != nil {
		return nil, err
	}

	nextID := firstUnanswered(attempt.QuestionIDList(), answered)
	if nextID == "" {
		return nil, util.ErrNoCurrentQuestion
	}

	question, err := s.QuestionRepo.FindByQuestionID(nextID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}
	return s.clientQuestion(question), nil
}

// SubmitAnswer 判题并落一条 QuestionAttempt
// 幂等：同一 (attempt, question) 的第二次提交不会改计数，也不再扣心
func (s *QuizService) SubmitAnswer(userID uint, attemptID, questionID string, payload AnswerPayload) (*SubmitResult, error) {
	var result *SubmitResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		attempt, err := s.AttemptRepo.FindByIDForUpdate(tx, attemptID)
		if err != nil {
			return util.ErrAttemptNotFound
		}
		if attempt.UserID != userID {
			return util.ErrAttemptNotFound
		}
		if attempt.Status == model.AttemptFinished {
			return util.ErrAttemptFinished
		}

		ids := attempt.QuestionIDList()
		if !contains(ids, questionID) {
			return util.ErrQuestionNotInQuiz
		}

		question, err := s.QuestionRepo.FindByQuestionID(questionID)
		if err != nil {
			return util.ErrQuestionNotFound
		}

		existing, err := s.AttemptRepo.FindQuestionAttempt(tx, attemptID, questionID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		r := &SubmitResult{
			AnswerReveal: Reveal(question),
		}

		if existing != nil && err == nil {
			// 重复提交：正确性从内容重算，不动计数不扣心
			r.AlreadyAnswered = true
			r.IsCorrect = existing.Correct
			r.XPEarned = 0
		} else {
			correct := CheckAnswer(question, payload)
			qa := &model.QuestionAttempt{
				AttemptID:  attemptID,
				QuestionID: questionID,
				Answer:     payload.Encode(),
				Correct:    correct,
			}
			if err := s.AttemptRepo.CreateQuestionAttempt(tx, qa); err != nil {
				return err
			}

			r.IsCorrect = correct
			if correct {
				attempt.CorrectCount++
				attempt.XPEarned += s.Config.Quiz.XPPerCorrect
				r.XPEarned = s.Config.Quiz.XPPerCorrect
			} else {
				_, spent, err := s.Hearts.SpendOnWrong(tx, userID)
				if err != nil {
					return err
				}
				if spent {
					monitoring.HeartsSpentCounter.Inc()
				}
			}
			if err := s.AttemptRepo.Save(tx, attempt); err != nil {
				return err
			}

			monitoring.QuizAnswerCounter.WithLabelValues(
				string(attempt.Mode), strconv.FormatBool(correct)).Inc()
		}

		answered, err := s.answeredSet(tx, attemptID)
		if err != nil {
			return err
		}
		r.Progress = ProgressCounters{
			AnsweredCount:  len(answered),
			CorrectCount:   attempt.CorrectCount,
			TotalQuestions: attempt.TotalQuestions,
		}

		nextID := firstUnanswered(ids, answered)
		if nextID == "" {
			r.NoMoreQuestions = true
		} else {
			next, err := s.QuestionRepo.FindByQuestionID(nextID)
			if err == nil {
				r.Next = s.clientQuestion(next)
			}
		}

		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 事务提交后读取结算过的红心状态
	hearts, err := s.Hearts.Status(userID)
	if err != nil {
		return nil, err
	}
	result.Hearts = hearts
	result.HeartsExhausted = hearts.Current == 0

	return result, nil
}

// Finish 封账：幂等，二次调用返回相同摘要
// 首次调用写 Score/FinishedAt 并恰好触发一次进度结算
func (s *QuizService) Finish(userID uint, attemptID string) (*FinishResult, error) {
	var result *FinishResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		attempt, err := s.AttemptRepo.FindByIDForUpdate(tx, attemptID)
		if err != nil {
			return util.ErrAttemptNotFound
		}
		if attempt.UserID != userID {
			return util.ErrAttemptNotFound
		}

		if attempt.Status == model.AttemptFinished {
			result = summaryOf(attempt)
			return nil
		}

		accuracy := 0.0
		if attempt.TotalQuestions > 0 {
			accuracy = float64(attempt.CorrectCount) / float64(attempt.TotalQuestions)
		}

		now := nowPtr()
		attempt.Status = model.AttemptFinished
		attempt.FinishedAt = now
		attempt.Score = accuracy
		if err := s.AttemptRepo.Save(tx, attempt); err != nil {
			return err
		}

		if err := s.Progression.RecordAttempt(tx, userID, attempt.LessonID, attempt.Mode, accuracy, attempt.XPEarned); err != nil {
			return err
		}

		status := "failed"
		if accuracy >= PassThreshold {
			status = "passed"
		}
		monitoring.QuizFinishCounter.WithLabelValues(string(attempt.Mode), status).Inc()

		result = summaryOf(attempt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Resume 恢复进行中的 attempt，没有则返回 ErrAttemptNotFound
func (s *QuizService) Resume(userID uint, lessonID string, mode model.Mode) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindActive(userID, lessonID, mode)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, err
}

func (s *QuizService) ownedAttempt(userID uint, attemptID string) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *QuizService) answeredSet(tx *gorm.DB, attemptID string) (map[string]bool, error) {
	qas, err := s.AttemptRepo.ListQuestionAttempts(tx, attemptID)
	if err != nil {
		return nil, err
	}
	answered := make(map[string]bool, len(qas))
	for _, qa := range qas {
		answered[qa.QuestionID] = true
	}
	return answered, nil
}

// clientQuestion 下发题面，听力题带上音频地址
func (s *QuizService) clientQuestion(q *model.Question) *ClientQuestion {
	audioURL := ""
	if q.Mode == model.ModeListening {
		if asset, err := s.AudioRepo.FindByQuestionID(q.QuestionID); err == nil {
			audioURL = asset.URL
		}
	}
	return NormalizeQuestion(q, audioURL)
}

func firstUnanswered(ids []string, answered map[string]bool) string {
	for _, id := range ids {
		if !answered[id] {
			return id
		}
	}
	return ""
}

func summaryOf(attempt *model.QuizAttempt) *FinishResult {
	return &FinishResult{
		AttemptID:      attempt.ID,
		CorrectCount:   attempt.CorrectCount,
		TotalQuestions: attempt.TotalQuestions,
		Accuracy:       attempt.Score,
		XPEarned:       attempt.XPEarned,
		Passed:         attempt.Score >= PassThreshold,
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
