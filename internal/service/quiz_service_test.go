package service

import (
	"lingo_backend/internal/model"
	"lingo_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startReadingQuiz(t *testing.T, ts *testServices, userID uint, lessonID string) (*StartResult, []string) {
	t.Helper()
	start, err := ts.quiz.Start(userID, "unit-01", lessonID, model.ModeReading)
	require.NoError(t, err)
	require.Equal(t, 5, start.TotalQuestions)
	require.NotNil(t, start.Question)

	attempt, err := ts.quiz.AttemptRepo.FindByID(start.AttemptID)
	require.NoError(t, err)
	ids := attempt.QuestionIDList()
	require.Len(t, ids, 5)
	require.Equal(t, ids[0], start.Question.ID)
	return start, ids
}

func TestQuizFullFlow(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 2)
	seedPool(t, ts.db, model.ModeReading, 25)
	userID := uint(1)

	start, ids := startReadingQuiz(t, ts, userID, lessons[0].LessonID)

	// 前4题答对
	for i := 0; i < 4; i++ {
		answer := correctAnswerFor(t, ts.db, ids[i])
		r, err := ts.quiz.SubmitAnswer(userID, start.AttemptID, ids[i], textAnswer(answer))
		require.NoError(t, err)
		assert.True(t, r.IsCorrect)
		assert.False(t, r.AlreadyAnswered)
		assert.Equal(t, 10, r.XPEarned)
		assert.Equal(t, i+1, r.Progress.AnsweredCount)
		assert.Equal(t, i+1, r.Progress.CorrectCount)
		assert.Equal(t, 5, r.Hearts.Current, "答对不扣心")
		require.NotNil(t, r.Next)
		assert.Equal(t, ids[i+1], r.Next.ID)
	}

	// 最后一题答错
	r, err := ts.quiz.SubmitAnswer(userID, start.AttemptID, ids[4], textAnswer("definitely wrong"))
	require.NoError(t, err)
	assert.False(t, r.IsCorrect)
	assert.Equal(t, 0, r.XPEarned)
	assert.Equal(t, correctAnswerFor(t, ts.db, ids[4]), r.CorrectAnswer)
	assert.Equal(t, 4, r.Hearts.Current, "答错扣一颗心")
	assert.False(t, r.HeartsExhausted)
	assert.True(t, r.NoMoreQuestions)
	assert.Nil(t, r.Next)

	finish, err := ts.quiz.Finish(userID, start.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, 4, finish.CorrectCount)
	assert.Equal(t, 5, finish.TotalQuestions)
	assert.InDelta(t, 0.8, finish.Accuracy, 1e-9)
	assert.Equal(t, 40, finish.XPEarned)
	assert.True(t, finish.Passed)

	// 结算落到进度
	var mp model.PlanetModeProgress
	require.NoError(t, ts.db.Where("user_id = ? AND lesson_id = ? AND mode = ?",
		userID, lessons[0].LessonID, model.ModeReading).First(&mp).Error)
	assert.Equal(t, model.ProgressCompleted, mp.State)
	assert.InDelta(t, 0.8, mp.BestScore, 1e-9)
	assert.Equal(t, 1, mp.Attempts)

	var up model.UserProgress
	require.NoError(t, ts.db.Where("user_id = ?", userID).First(&up).Error)
	assert.Equal(t, 40, up.TotalXP)
	assert.Equal(t, 1, up.Streak)
}

func TestSubmitAnswerIdempotent(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	seedPool(t, ts.db, model.ModeReading, 25)
	userID := uint(2)

	start, ids := startReadingQuiz(t, ts, userID, lessons[0].LessonID)

	first, err := ts.quiz.SubmitAnswer(userID, start.AttemptID, ids[0],
		textAnswer(correctAnswerFor(t, ts.db, ids[0])))
	require.NoError(t, err)
	require.True(t, first.IsCorrect)

	// 同一题重复提交：不改计数、不加XP、不扣心，判定来自首次存档
	second, err := ts.quiz.SubmitAnswer(userID, start.AttemptID, ids[0], textAnswer("wrong now"))
	require.NoError(t, err)
	assert.True(t, second.AlreadyAnswered)
	assert.True(t, second.IsCorrect)
	assert.Equal(t, 0, second.XPEarned)
	assert.Equal(t, 1, second.Progress.AnsweredCount)
	assert.Equal(t, 1, second.Progress.CorrectCount)
	assert.Equal(t, 5, second.Hearts.Current)

	attempt, err := ts.quiz.AttemptRepo.FindByID(start.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.CorrectCount)
	assert.Equal(t, 10, attempt.XPEarned)
}

func TestSubmitAnswerValidations(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	seedPool(t, ts.db, model.ModeReading, 25)
	userID := uint(3)

	start, ids := startReadingQuiz(t, ts, userID, lessons[0].LessonID)

	_, err := ts.quiz.SubmitAnswer(userID, start.AttemptID, "q-not-in-quiz", textAnswer("x"))
	assert.ErrorIs(t, err, util.ErrQuestionNotInQuiz)

	_, err = ts.quiz.SubmitAnswer(999, start.AttemptID, ids[0], textAnswer("x"))
	assert.ErrorIs(t, err, util.ErrAttemptNotFound, "他人的 attempt 不可见")

	_, err = ts.quiz.SubmitAnswer(userID, "no-such-attempt", ids[0], textAnswer("x"))
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestSubmitAfterFinishRejected(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	seedPool(t, ts.db, model.ModeReading, 25)
	userID := uint(4)

	start, ids := startReadingQuiz(t, ts, userID, lessons[0].LessonID)
	_, err := ts.quiz.Finish(userID, start.AttemptID)
	require.NoError(t, err)

	_, err = ts.quiz.SubmitAnswer(userID, start.AttemptID, ids[0], textAnswer("x"))
	assert.ErrorIs(t, err, util.ErrAttemptFinished)

	_, err = ts.quiz.CurrentQuestion(userID, start.AttemptID)
	assert.ErrorIs(t, err, util.ErrAttemptFinished)
}

func TestFinishIdempotent(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	seedPool(t, ts.db, model.ModeReading, 25)
	userID := uint(5)

	start, ids := startReadingQuiz(t, ts, userID, lessons[0].LessonID)
	_, err := ts.quiz.SubmitAnswer(userID, start.AttemptID, ids[0],
		textAnswer(correctAnswerFor(t, ts.db, ids[0])))
	require.NoError(t, err)

	first, err := ts.quiz.Finish(userID, start.AttemptID)
	require.NoError(t, err)
	second, err := ts.quiz.Finish(userID, start.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// 二次封账不重复累计XP
	var up model.UserProgress
	require.NoError(t, ts.db.Where("user_id = ?", userID).First(&up).Error)
	assert.Equal(t, 10, up.TotalXP)
}

func TestFinishZeroQuestions(t *testing.T) {
	ts := newTestServices(t)
	userID := uint(6)

	attempt := &model.QuizAttempt{
		UserID:   userID,
		UnitID:   "unit-01",
		LessonID: "ghost-lesson",
		Mode:     model.ModeReading,
		Status:   model.AttemptActive,
	}
	require.NoError(t, attempt.SetQuestionIDs([]string{}))
	require.NoError(t, ts.quiz.AttemptRepo.Create(attempt))

	finish, err := ts.quiz.Finish(userID, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, finish.Accuracy)
	assert.False(t, finish.Passed)
}

func TestCurrentQuestionDerivedFromAnsweredSet(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	seedPool(t, ts.db, model.ModeReading, 25)
	userID := uint(8)

	start, ids := startReadingQuiz(t, ts, userID, lessons[0].LessonID)

	cq, err := ts.quiz.CurrentQuestion(userID, start.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, ids[0], cq.ID)

	// 乱序作答也能推导出第一道未答的题
	_, err = ts.quiz.SubmitAnswer(userID, start.AttemptID, ids[2], textAnswer("x"))
	require.NoError(t, err)
	cq, err = ts.quiz.CurrentQuestion(userID, start.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, ids[0], cq.ID)

	for _, id := range []string{ids[0], ids[1], ids[3], ids[4]} {
		_, err = ts.quiz.SubmitAnswer(userID, start.AttemptID, id, textAnswer("x"))
		require.NoError(t, err)
	}

	_, err = ts.quiz.CurrentQuestion(userID, start.AttemptID)
	assert.ErrorIs(t, err, util.ErrNoCurrentQuestion)
}

func TestWrongAnswerAtZeroHearts(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	seedPool(t, ts.db, model.ModeReading, 25)
	userID := uint(9)

	_, err := ts.hearts.Get(userID)
	require.NoError(t, err)
	require.NoError(t, ts.db.Model(&model.UserHearts{}).
		Where("user_id = ?", userID).
		Update("current", 0).Error)

	start, ids := startReadingQuiz(t, ts, userID, lessons[0].LessonID)

	// 0心仍可作答，答错不会扣成负数
	r, err := ts.quiz.SubmitAnswer(userID, start.AttemptID, ids[0], textAnswer("wrong"))
	require.NoError(t, err)
	assert.False(t, r.IsCorrect)
	assert.Equal(t, 0, r.Hearts.Current)
	assert.True(t, r.HeartsExhausted)
}

func TestResume(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	seedPool(t, ts.db, model.ModeReading, 25)
	userID := uint(10)

	_, err := ts.quiz.Resume(userID, lessons[0].LessonID, model.ModeReading)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	start, _ := startReadingQuiz(t, ts, userID, lessons[0].LessonID)

	resumed, err := ts.quiz.Resume(userID, lessons[0].LessonID, model.ModeReading)
	require.NoError(t, err)
	assert.Equal(t, start.AttemptID, resumed.ID)

	_, err = ts.quiz.Finish(userID, start.AttemptID)
	require.NoError(t, err)
	_, err = ts.quiz.Resume(userID, lessons[0].LessonID, model.ModeReading)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestStartWithEmptyPool(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)

	_, err := ts.quiz.Start(1, "unit-01", lessons[0].LessonID, model.ModeWriting)
	assert.ErrorIs(t, err, util.ErrNoQuestionsForMode)
}
