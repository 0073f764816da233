package service

import (
	"lingo_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modeProgress(t *testing.T, ts *testServices, userID uint, lessonID string, mode model.Mode) *model.PlanetModeProgress {
	t.Helper()
	var p model.PlanetModeProgress
	require.NoError(t, ts.db.Where("user_id = ? AND lesson_id = ? AND mode = ?",
		userID, lessonID, mode).First(&p).Error)
	return &p
}

func TestRecordAttemptBelowThreshold(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 2)
	userID := uint(1)

	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessons[0].LessonID, model.ModeReading, 0.5, 20))

	p := modeProgress(t, ts, userID, lessons[0].LessonID, model.ModeReading)
	assert.Equal(t, model.ProgressAvailable, p.State, "未达线不判通关")
	assert.InDelta(t, 0.5, p.BestScore, 1e-9)
	assert.Equal(t, 1, p.Attempts)
	assert.Nil(t, p.CompletedAt)

	var up model.UserProgress
	require.NoError(t, ts.db.Where("user_id = ?", userID).First(&up).Error)
	assert.Equal(t, 20, up.TotalXP)
	assert.Equal(t, 1, up.Streak)
}

func TestRecordAttemptCompletionIsOneWay(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 2)
	userID := uint(2)
	lessonID := lessons[0].LessonID

	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessonID, model.ModeReading, 0.9, 50))
	p := modeProgress(t, ts, userID, lessonID, model.ModeReading)
	assert.Equal(t, model.ProgressCompleted, p.State)
	assert.InDelta(t, 0.9, p.BestScore, 1e-9)
	require.NotNil(t, p.CompletedAt)
	completedAt := *p.CompletedAt

	// 后续较差的成绩既不降级也不拉低最好成绩
	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessonID, model.ModeReading, 0.4, 10))
	p = modeProgress(t, ts, userID, lessonID, model.ModeReading)
	assert.Equal(t, model.ProgressCompleted, p.State)
	assert.InDelta(t, 0.9, p.BestScore, 1e-9)
	assert.Equal(t, 2, p.Attempts)
	require.NotNil(t, p.CompletedAt)
	assert.WithinDuration(t, completedAt, *p.CompletedAt, time.Second)
}

func TestFourModesCompletedUnlocksNextLesson(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 3)
	userID := uint(3)

	unlocked, err := ts.progression.IsLessonUnlocked(userID, &lessons[0])
	require.NoError(t, err)
	assert.True(t, unlocked, "单元第一课永远解锁")

	unlocked, err = ts.progression.IsLessonUnlocked(userID, &lessons[1])
	require.NoError(t, err)
	assert.False(t, unlocked)

	for _, mode := range model.AllModes {
		require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessons[0].LessonID, mode, 0.8, 40))
	}

	unlocked, err = ts.progression.IsLessonUnlocked(userID, &lessons[1])
	require.NoError(t, err)
	assert.True(t, unlocked)

	// 下一课四模态 available，而不是 completed
	for _, mode := range model.AllModes {
		p := modeProgress(t, ts, userID, lessons[1].LessonID, mode)
		assert.Equal(t, model.ProgressAvailable, p.State)
	}

	// 第三课仍然锁着
	unlocked, err = ts.progression.IsLessonUnlocked(userID, &lessons[2])
	require.NoError(t, err)
	assert.False(t, unlocked)

	var up model.UnitProgress
	require.NoError(t, ts.db.Where("user_id = ? AND unit_id = ?", userID, "unit-01").First(&up).Error)
	assert.Equal(t, 4, up.Mastery, "每个模态首次通关记一点")
	assert.Equal(t, 1, up.CompletedLessons)
	assert.Equal(t, 3, up.TotalLessons)
}

func TestUnlockNeverDowngrades(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 2)
	userID := uint(4)

	// 第二课的 reading 已提前通关（比如运营补偿）
	now := time.Now()
	require.NoError(t, ts.db.Create(&model.PlanetModeProgress{
		UserID:      userID,
		LessonID:    lessons[1].LessonID,
		Mode:        model.ModeReading,
		State:       model.ProgressCompleted,
		BestScore:   0.95,
		CompletedAt: &now,
	}).Error)

	for _, mode := range model.AllModes {
		require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessons[0].LessonID, mode, 0.75, 30))
	}

	p := modeProgress(t, ts, userID, lessons[1].LessonID, model.ModeReading)
	assert.Equal(t, model.ProgressCompleted, p.State, "解锁不得降级已有记录")
	assert.InDelta(t, 0.95, p.BestScore, 1e-9)
}

func TestMasteryCountsFirstCompletionOnly(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 2)
	userID := uint(5)
	lessonID := lessons[0].LessonID

	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessonID, model.ModeReading, 0.8, 40))
	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessonID, model.ModeReading, 0.9, 50))

	var up model.UnitProgress
	require.NoError(t, ts.db.Where("user_id = ? AND unit_id = ?", userID, "unit-01").First(&up).Error)
	assert.Equal(t, 1, up.Mastery, "重复通关同一模态不再累计")
}

func TestStreakIncrementsOncePerDay(t *testing.T) {
	ts := newTestServices(t)
	lessons := seedLessons(t, ts.db, "unit-01", 1)
	userID := uint(6)
	lessonID := lessons[0].LessonID

	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessonID, model.ModeReading, 0.5, 10))
	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessonID, model.ModeReading, 0.6, 10))

	var up model.UserProgress
	require.NoError(t, ts.db.Where("user_id = ?", userID).First(&up).Error)
	assert.Equal(t, 1, up.Streak, "同一天多次结算只算一次")
	assert.Equal(t, 20, up.TotalXP)

	// 跨天再结算加一
	require.NoError(t, ts.db.Model(&model.UserProgress{}).
		Where("user_id = ?", userID).
		Update("last_active_date", time.Now().AddDate(0, 0, -1)).Error)

	require.NoError(t, ts.progression.RecordAttempt(ts.db, userID, lessonID, model.ModeReading, 0.6, 10))
	require.NoError(t, ts.db.Where("user_id = ?", userID).First(&up).Error)
	assert.Equal(t, 2, up.Streak)
}

func TestGetUserProgressLazyInit(t *testing.T) {
	ts := newTestServices(t)

	p, err := ts.progression.GetUserProgress(77)
	require.NoError(t, err)
	assert.Equal(t, 0, p.TotalXP)
	assert.Equal(t, 0, p.Streak)

	again, err := ts.progression.GetUserProgress(77)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
}
