package service

import (
	"context"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLearningStack(t *testing.T) (*testServices, *LearningService) {
	t.Helper()
	ts := newTestServices(t)
	contentRepo := repository.NewContentRepository(ts.db)
	questionRepo := repository.NewQuestionRepository(ts.db)
	progressionRepo := repository.NewProgressionRepository(ts.db)

	content := NewContentService(contentRepo, questionRepo, nil, ts.db)
	learning := NewLearningService(content, ts.quiz, ts.hearts, ts.progression, progressionRepo)
	return ts, learning
}

func findMapLesson(t *testing.T, units []MapUnit, lessonID string) MapLesson {
	t.Helper()
	for _, u := range units {
		for _, l := range u.Lessons {
			if l.LessonID == lessonID {
				return l
			}
		}
	}
	t.Fatalf("lesson %s not in map", lessonID)
	return MapLesson{}
}

func TestLearningMapInitialState(t *testing.T) {
	ts, learning := newLearningStack(t)
	lessons := seedLessons(t, ts.db, "unit-01", 2)
	userID := uint(1)

	units, err := learning.GetLearningMap(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, units, 1)

	first := findMapLesson(t, units, lessons[0].LessonID)
	assert.True(t, first.Unlocked)
	assert.Equal(t, LessonCurrent, first.State)
	assert.Equal(t, 0, first.CompletedModes)
	assert.Equal(t, 4, first.TotalModes)
	assert.Zero(t, first.ProgressPercent)
	for _, m := range first.Modes {
		assert.Equal(t, model.ProgressAvailable, m.State)
	}

	second := findMapLesson(t, units, lessons[1].LessonID)
	assert.False(t, second.Unlocked)
	assert.Equal(t, LessonLocked, second.State)
	for _, m := range second.Modes {
		assert.Equal(t, model.ProgressLocked, m.State)
	}
}

func TestLearningMapAfterLessonCompleted(t *testing.T) {
	ts, learning := newLearningStack(t)
	lessons := seedLessons(t, ts.db, "unit-01", 2)
	userID := uint(2)

	for _, mode := range model.AllModes {
		require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessons[0].LessonID, mode, 0.8, 40))
	}

	units, err := learning.GetLearningMap(context.Background(), userID)
	require.NoError(t, err)

	first := findMapLesson(t, units, lessons[0].LessonID)
	assert.Equal(t, LessonCompleted, first.State)
	assert.Equal(t, 4, first.CompletedModes)
	assert.InDelta(t, 1.0, first.ProgressPercent, 1e-9)
	for _, m := range first.Modes {
		assert.Equal(t, model.ProgressCompleted, m.State)
		assert.InDelta(t, 0.8, m.BestScore, 1e-9)
	}

	second := findMapLesson(t, units, lessons[1].LessonID)
	assert.True(t, second.Unlocked)
	assert.Equal(t, LessonCurrent, second.State)
	for _, m := range second.Modes {
		assert.Equal(t, model.ProgressAvailable, m.State)
	}

	assert.Equal(t, 4, units[0].Mastery)
}

func TestStartQuizGating(t *testing.T) {
	ts, learning := newLearningStack(t)
	lessons := seedLessons(t, ts.db, "unit-01", 2)
	seedPool(t, ts.db, model.ModeReading, 25)
	userID := uint(3)

	_, err := learning.StartQuiz(userID, lessons[0].LessonID, "telepathy")
	assert.ErrorIs(t, err, util.ErrUnsupportedMode)

	_, err = learning.StartQuiz(userID, "no-such-lesson", "reading")
	assert.ErrorIs(t, err, util.ErrLessonNotFound)

	_, err = learning.StartQuiz(userID, lessons[1].LessonID, "reading")
	assert.ErrorIs(t, err, util.ErrLessonLocked)

	start, err := learning.StartQuiz(userID, lessons[0].LessonID, "reading")
	require.NoError(t, err)
	assert.Equal(t, model.ModeReading, start.Mode)
	assert.Equal(t, 5, start.TotalQuestions)
}

func TestStartQuizUnpublishedLessonHidden(t *testing.T) {
	ts, learning := newLearningStack(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	seedPool(t, ts.db, model.ModeReading, 25)

	require.NoError(t, ts.db.Model(&model.Lesson{}).
		Where("lesson_id = ?", lessons[0].LessonID).
		Update("published", false).Error)

	_, err := learning.StartQuiz(1, lessons[0].LessonID, "reading")
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestGetLessonModes(t *testing.T) {
	ts, learning := newLearningStack(t)
	lessons := seedLessons(t, ts.db, "unit-01", 2)
	userID := uint(4)

	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessons[0].LessonID, model.ModeReading, 0.9, 50))

	modes, err := learning.GetLessonModes(userID, lessons[0].LessonID)
	require.NoError(t, err)
	require.Len(t, modes, 4)

	byMode := make(map[model.Mode]MapMode)
	for _, m := range modes {
		byMode[m.Mode] = m
	}
	assert.Equal(t, model.ProgressCompleted, byMode[model.ModeReading].State)
	assert.Equal(t, model.ProgressAvailable, byMode[model.ModeWriting].State)
}

func TestGetUserSummary(t *testing.T) {
	ts, learning := newLearningStack(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	userID := uint(5)

	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessons[0].LessonID, model.ModeReading, 0.8, 40))

	summary, err := learning.GetUserSummary(userID)
	require.NoError(t, err)
	assert.Equal(t, 40, summary.TotalXP)
	assert.Equal(t, 1, summary.Streak)
	assert.Equal(t, 1, summary.UnitMastery["unit-01"])
	require.NotNil(t, summary.Hearts)
	assert.Equal(t, 5, summary.Hearts.Current)
}

func TestResumeQuizReturnsBreakpoint(t *testing.T) {
	ts, learning := newLearningStack(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	seedPool(t, ts.db, model.ModeReading, 25)
	userID := uint(7)

	_, err := learning.ResumeQuiz(userID, lessons[0].LessonID, "telepathy")
	assert.ErrorIs(t, err, util.ErrUnsupportedMode)

	_, err = learning.ResumeQuiz(userID, lessons[0].LessonID, "reading")
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	start, err := learning.StartQuiz(userID, lessons[0].LessonID, "reading")
	require.NoError(t, err)

	attempt, err := ts.quiz.AttemptRepo.FindByID(start.AttemptID)
	require.NoError(t, err)
	ids := attempt.QuestionIDList()

	_, err = learning.SubmitAnswer(userID, start.AttemptID, ids[0],
		textAnswer(correctAnswerFor(t, ts.db, ids[0])))
	require.NoError(t, err)

	resumed, err := learning.ResumeQuiz(userID, lessons[0].LessonID, "reading")
	require.NoError(t, err)
	assert.Equal(t, start.AttemptID, resumed.AttemptID)
	assert.Equal(t, 1, resumed.Progress.AnsweredCount)
	assert.Equal(t, 1, resumed.Progress.CorrectCount)
	require.NotNil(t, resumed.Question)
	assert.Equal(t, ids[1], resumed.Question.ID)
}

func TestPracticeHubWeakestFirst(t *testing.T) {
	ts, learning := newLearningStack(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	userID := uint(6)
	lessonID := lessons[0].LessonID

	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessonID, model.ModeReading, 0.95, 50))
	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessonID, model.ModeWriting, 0.6, 30))
	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessonID, model.ModeListening, 0.3, 20))

	recs, err := learning.GetPracticeHub(userID, 5)
	require.NoError(t, err)
	require.Len(t, recs, 2, "已通关的 reading 不算薄弱技能")
	assert.Equal(t, model.ModeListening, recs[0].Mode, "最薄弱的排最前")
	assert.Equal(t, model.ModeWriting, recs[1].Mode)

	recs, err = learning.GetPracticeHub(userID, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, model.ModeListening, recs[0].Mode)
}

func TestStartPractice(t *testing.T) {
	ts, learning := newLearningStack(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	seedPool(t, ts.db, model.ModeListening, 25)
	userID := uint(8)
	lessonID := lessons[0].LessonID

	// 无任何记录时退回地图上第一处未通关的模态（固定顺序里是 listening）
	start, err := learning.StartPractice(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, model.ModeListening, start.Mode)
	assert.Equal(t, lessonID, start.LessonID)

	// 有薄弱技能时从最薄弱的开始
	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessonID, model.ModeListening, 0.4, 10))
	start, err = learning.StartPractice(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, model.ModeListening, start.Mode)
}

func TestLessonOverview(t *testing.T) {
	ts, learning := newLearningStack(t)
	lessons := seedLessons(t, ts.db, "unit-01", 2)
	userID := uint(9)

	overview, err := learning.GetLessonOverview(userID, lessons[0].LessonID)
	require.NoError(t, err)
	assert.True(t, overview.Unlocked)
	assert.Equal(t, 5, overview.QuestionCount)
	assert.Equal(t, 50, overview.XPReward)
	assert.Len(t, overview.Modes, 4)
	require.NotNil(t, overview.Hearts)
	assert.Equal(t, 5, overview.Hearts.Current)

	locked, err := learning.GetLessonOverview(userID, lessons[1].LessonID)
	require.NoError(t, err)
	assert.False(t, locked.Unlocked)

	_, err = learning.GetLessonOverview(userID, "missing")
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestRefillHearts(t *testing.T) {
	ts, learning := newLearningStack(t)
	userID := uint(10)

	_, err := ts.hearts.Get(userID)
	require.NoError(t, err)
	require.NoError(t, ts.db.Model(&model.UserHearts{}).
		Where("user_id = ?", userID).
		Update("current", 0).Error)

	status, err := learning.RefillHearts(userID)
	require.NoError(t, err)
	assert.Equal(t, 5, status.Current)
	assert.Equal(t, 0, status.SecondsToNextHeart)
}
