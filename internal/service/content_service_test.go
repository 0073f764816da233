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

func newContentService(t *testing.T) (*ContentService, *testServices) {
	t.Helper()
	ts := newTestServices(t)
	svc := NewContentService(
		repository.NewContentRepository(ts.db),
		repository.NewQuestionRepository(ts.db),
		nil,
		ts.db,
	)
	return svc, ts
}

func TestGetCatalogPublishedOnly(t *testing.T) {
	svc, ts := newContentService(t)
	seedLessons(t, ts.db, "unit-01", 2)

	require.NoError(t, ts.db.Create(&model.Unit{
		UnitID: "unit-draft", Title: "草稿单元", Order: 2, Published: false,
	}).Error)

	catalog, err := svc.GetCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Units, 1)
	assert.Equal(t, "unit-01", catalog.Units[0].UnitID)
	assert.Len(t, catalog.Lessons, 2)
}

func TestGetLessonNotFound(t *testing.T) {
	svc, _ := newContentService(t)

	_, err := svc.GetLesson("missing")
	assert.ErrorIs(t, err, util.ErrLessonNotFound)

	_, err = svc.GetUnit("missing")
	assert.ErrorIs(t, err, util.ErrUnitNotFound)
}

func TestUnitLifecycle(t *testing.T) {
	svc, ts := newContentService(t)
	ctx := context.Background()

	unit := &model.Unit{UnitID: "unit-10", Title: "第十单元", Order: 10, Published: true}
	require.NoError(t, svc.CreateUnit(ctx, unit))

	updated, err := svc.UpdateUnit(ctx, "unit-10", func(u *model.Unit) {
		u.Title = "第十单元·修订"
	})
	require.NoError(t, err)
	assert.Equal(t, "第十单元·修订", updated.Title)

	lesson := &model.Lesson{LessonID: "unit-10-lesson-1", UnitID: "unit-10", Title: "L1", Order: 1, Published: true}
	require.NoError(t, svc.CreateLesson(ctx, lesson))

	// 删除单元级联清掉课程
	require.NoError(t, svc.DeleteUnit(ctx, "unit-10"))
	var count int64
	require.NoError(t, ts.db.Model(&model.Lesson{}).Where("unit_id = ?", "unit-10").Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateLessonRequiresUnit(t *testing.T) {
	svc, _ := newContentService(t)
	err := svc.CreateLesson(context.Background(), &model.Lesson{
		LessonID: "orphan", UnitID: "ghost-unit", Title: "孤儿课", Order: 1,
	})
	assert.ErrorIs(t, err, util.ErrUnitNotFound)
}

func TestQuestionManagement(t *testing.T) {
	svc, ts := newContentService(t)
	seedPool(t, ts.db, model.ModeReading, 3)

	questions, err := svc.ListQuestions(model.ModeReading)
	require.NoError(t, err)
	assert.Len(t, questions, 3)

	_, err = svc.ListQuestions("juggling")
	assert.ErrorIs(t, err, util.ErrUnsupportedMode)

	err = svc.CreateQuestion(&model.Question{QuestionID: "q-x", Mode: "juggling", Prompt: "p"})
	assert.ErrorIs(t, err, util.ErrUnsupportedMode)

	updated, err := svc.UpdateQuestion("q-reading-001", func(q *model.Question) {
		q.Hint = "updated hint"
	})
	require.NoError(t, err)
	assert.Equal(t, "updated hint", updated.Hint)

	_, err = svc.UpdateQuestion("missing", func(q *model.Question) {})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	require.NoError(t, svc.DeleteQuestion("q-reading-001"))
	assert.ErrorIs(t, svc.DeleteQuestion("q-reading-001"), util.ErrQuestionNotFound)
}
