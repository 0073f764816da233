package controller

import (
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	LearningService *service.LearningService
}

func NewProgressController(learningService *service.LearningService) *ProgressController {
	return &ProgressController{LearningService: learningService}
}

// @Summary 进度概览
// @Description 账户级汇总：XP、连续天数、单元掌握度、红心
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress/summary [get]
func (c *ProgressController) GetSummary(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.LearningService.GetUserSummary(user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}
