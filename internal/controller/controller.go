package controller

import (
	"errors"
	"lingo_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleServiceError 业务错误到HTTP状态码的统一映射
func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrUnitNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrNoQuestionsForMode),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrNoCurrentQuestion),
		errors.Is(err, util.ErrAudioNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrUnsupportedMode),
		errors.Is(err, util.ErrQuestionNotInQuiz):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAttemptFinished):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrLessonLocked),
		errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
