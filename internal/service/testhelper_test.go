package service

import (
	"encoding/json"
	"fmt"
	"lingo_backend/internal/config"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Unit{},
		&model.Lesson{},
		&model.Question{},
		&model.QuizAttempt{},
		&model.QuestionAttempt{},
		&model.UserHearts{},
		&model.PlanetModeProgress{},
		&model.UnitProgress{},
		&model.UserProgress{},
		&model.AudioAsset{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Quiz:   config.QuizConfig{QuestionsPerQuiz: 5, XPPerCorrect: 10},
		Hearts: config.HeartsConfig{Max: 5, SecondsPerHeart: 1800},
	}
}

// seedPool 写入n道某模态的题，答案为 answer-<seq>
func seedPool(t *testing.T, db *gorm.DB, mode model.Mode, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		correct := fmt.Sprintf("answer-%d", i)
		choices, err := json.Marshal([]string{correct, "foo", "bar", "baz"})
		require.NoError(t, err)

		qtype := model.QuestionMCQ
		if mode == model.ModeWriting {
			qtype = model.QuestionTypeAnswer
		}
		q := model.Question{
			QuestionID:    fmt.Sprintf("q-%s-%03d", mode, i),
			Mode:          mode,
			Type:          qtype,
			Prompt:        fmt.Sprintf("prompt %d", i),
			Choices:       string(choices),
			CorrectAnswer: correct,
			Seq:           i,
		}
		require.NoError(t, db.Create(&q).Error)
	}
}

func seedLessons(t *testing.T, db *gorm.DB, unitID string, count int) []model.Lesson {
	t.Helper()
	unit := model.Unit{UnitID: unitID, Title: unitID, Order: 1, Published: true}
	require.NoError(t, db.Create(&unit).Error)

	lessons := make([]model.Lesson, 0, count)
	for i := 1; i <= count; i++ {
		lesson := model.Lesson{
			LessonID:  fmt.Sprintf("%s-lesson-%d", unitID, i),
			UnitID:    unitID,
			Title:     fmt.Sprintf("Lesson %d", i),
			Order:     i,
			Published: true,
		}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}
	return lessons
}

type testServices struct {
	db          *gorm.DB
	picker      *QuestionPickerService
	hearts      *HeartsService
	progression *ProgressionService
	quiz        *QuizService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()

	questionRepo := repository.NewQuestionRepository(db)
	attemptRepo := repository.NewQuizAttemptRepository(db)
	heartsRepo := repository.NewHeartsRepository(db)
	progressionRepo := repository.NewProgressionRepository(db)
	contentRepo := repository.NewContentRepository(db)
	audioRepo := repository.NewAudioRepository(db)

	picker := NewQuestionPickerService(questionRepo)
	hearts := NewHeartsService(heartsRepo, db, cfg)
	progression := NewProgressionService(progressionRepo, contentRepo, db)
	quiz := NewQuizService(attemptRepo, questionRepo, audioRepo, picker, hearts, progression, db, cfg)

	return &testServices{
		db:          db,
		picker:      picker,
		hearts:      hearts,
		progression: progression,
		quiz:        quiz,
	}
}

func correctAnswerFor(t *testing.T, db *gorm.DB, questionID string) string {
	t.Helper()
	var q model.Question
	require.NoError(t, db.Where("question_id = ?", questionID).First(&q).Error)
	return q.CorrectAnswer
}
