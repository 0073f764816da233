package controller

import (
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AudioController struct {
	AudioService *service.AudioService
}

func NewAudioController(audioService *service.AudioService) *AudioController {
	return &AudioController{AudioService: audioService}
}

// @Summary 上传音频
// @Description 为听力题上传音频，非mp3自动转码
// @Tags 内容管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param questionId path string true "题目ID"
// @Param file formData file true "音频文件"
// @Success 201 {object} util.Response
// @Router /api/admin/questions/{questionId}/audio [post]
func (c *AudioController) Upload(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	asset, err := c.AudioService.Upload(ctx.Request.Context(), ctx.Param("questionId"), file, user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, asset)
}

// @Summary 查询音频
// @Tags 内容管理
// @Produce json
// @Security BearerAuth
// @Param questionId path string true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{questionId}/audio [get]
func (c *AudioController) Get(ctx *gin.Context) {
	asset, err := c.AudioService.Get(ctx.Param("questionId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, asset)
}

// @Summary 删除音频
// @Tags 内容管理
// @Produce json
// @Security BearerAuth
// @Param questionId path string true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{questionId}/audio [delete]
func (c *AudioController) Delete(ctx *gin.Context) {
	if err := c.AudioService.Delete(ctx.Request.Context(), ctx.Param("questionId")); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "audio deleted"})
}
