package controller

import (
	"lingo_backend/internal/model"
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ContentController 内容管理，编辑和管理员可用
type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// @Summary 课程目录
// @Description 获取已发布的单元和课程
// @Tags 内容
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/content/catalog [get]
func (c *ContentController) GetCatalog(ctx *gin.Context) {
	catalog, err := c.ContentService.GetCatalog(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, catalog)
}

type UnitRequest struct {
	UnitID    string `json:"unitId" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Order     int    `json:"order"`
	Published *bool  `json:"published"`
}

// @Summary 创建单元
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UnitRequest true "单元信息"
// @Success 201 {object} util.Response
// @Router /api/admin/units [post]
func (c *ContentController) CreateUnit(ctx *gin.Context) {
	var req UnitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	unit := &model.Unit{
		UnitID:    req.UnitID,
		Title:     req.Title,
		Order:     req.Order,
		Published: req.Published == nil || *req.Published,
	}
	if err := c.ContentService.CreateUnit(ctx.Request.Context(), unit); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, unit)
}

// @Summary 更新单元
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param unitId path string true "单元ID"
// @Param request body UnitRequest true "单元信息"
// @Success 200 {object} util.Response
// @Router /api/admin/units/{unitId} [put]
func (c *ContentController) UpdateUnit(ctx *gin.Context) {
	var req UnitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	unit, err := c.ContentService.UpdateUnit(ctx.Request.Context(), ctx.Param("unitId"), func(u *model.Unit) {
		u.Title = req.Title
		u.Order = req.Order
		if req.Published != nil {
			u.Published = *req.Published
		}
	})
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, unit)
}

// @Summary 删除单元
// @Description 连同其下课程一起删除
// @Tags 内容管理
// @Produce json
// @Security BearerAuth
// @Param unitId path string true "单元ID"
// @Success 200 {object} util.Response
// @Router /api/admin/units/{unitId} [delete]
func (c *ContentController) DeleteUnit(ctx *gin.Context) {
	if err := c.ContentService.DeleteUnit(ctx.Request.Context(), ctx.Param("unitId")); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "unit deleted"})
}

type LessonRequest struct {
	LessonID         string `json:"lessonId" binding:"required"`
	UnitID           string `json:"unitId" binding:"required"`
	Title            string `json:"title" binding:"required"`
	Subtitle         string `json:"subtitle"`
	Order            int    `json:"order"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
	Published        *bool  `json:"published"`
}

// @Summary 创建课程
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LessonRequest true "课程信息"
// @Success 201 {object} util.Response
// @Router /api/admin/lessons [post]
func (c *ContentController) CreateLesson(ctx *gin.Context) {
	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson := &model.Lesson{
		LessonID:         req.LessonID,
		UnitID:           req.UnitID,
		Title:            req.Title,
		Subtitle:         req.Subtitle,
		Order:            req.Order,
		EstimatedMinutes: req.EstimatedMinutes,
		Published:        req.Published == nil || *req.Published,
	}
	if err := c.ContentService.CreateLesson(ctx.Request.Context(), lesson); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary 更新课程
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "课程ID"
// @Param request body LessonRequest true "课程信息"
// @Success 200 {object} util.Response
// @Router /api/admin/lessons/{lessonId} [put]
func (c *ContentController) UpdateLesson(ctx *gin.Context) {
	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.ContentService.UpdateLesson(ctx.Request.Context(), ctx.Param("lessonId"), func(l *model.Lesson) {
		l.Title = req.Title
		l.Subtitle = req.Subtitle
		l.Order = req.Order
		l.EstimatedMinutes = req.EstimatedMinutes
		if req.Published != nil {
			l.Published = *req.Published
		}
	})
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 删除课程
// @Tags 内容管理
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/admin/lessons/{lessonId} [delete]
func (c *ContentController) DeleteLesson(ctx *gin.Context) {
	if err := c.ContentService.DeleteLesson(ctx.Request.Context(), ctx.Param("lessonId")); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "lesson deleted"})
}

// @Summary 题库列表
// @Description 按模态列出题目
// @Tags 内容管理
// @Produce json
// @Security BearerAuth
// @Param mode query string true "模态" Enums(listening, speaking, reading, writing)
// @Success 200 {object} util.Response
// @Router /api/admin/questions [get]
func (c *ContentController) ListQuestions(ctx *gin.Context) {
	questions, err := c.ContentService.ListQuestions(model.Mode(ctx.Query("mode")))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

type QuestionRequest struct {
	QuestionID    string `json:"questionId" binding:"required"`
	Mode          string `json:"mode" binding:"required"`
	Type          string `json:"type"`
	Prompt        string `json:"prompt" binding:"required"`
	Choices       string `json:"choices"`
	CorrectAnswer string `json:"correctAnswer" binding:"required"`
	CaseSensitive bool   `json:"caseSensitive"`
	Explanation   string `json:"explanation"`
	Hint          string `json:"hint"`
	Seq           int    `json:"seq"`
}

// @Summary 创建题目
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body QuestionRequest true "题目信息"
// @Success 201 {object} util.Response
// @Router /api/admin/questions [post]
func (c *ContentController) CreateQuestion(ctx *gin.Context) {
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	qtype := model.QuestionType(req.Type)
	if qtype == "" {
		qtype = model.QuestionMCQ
	}
	question := &model.Question{
		QuestionID:    req.QuestionID,
		Mode:          model.Mode(req.Mode),
		Type:          qtype,
		Prompt:        req.Prompt,
		Choices:       req.Choices,
		CorrectAnswer: req.CorrectAnswer,
		CaseSensitive: req.CaseSensitive,
		Explanation:   req.Explanation,
		Hint:          req.Hint,
		Seq:           req.Seq,
	}
	if err := c.ContentService.CreateQuestion(question); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary 更新题目
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param questionId path string true "题目ID"
// @Param request body QuestionRequest true "题目信息"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{questionId} [put]
func (c *ContentController) UpdateQuestion(ctx *gin.Context) {
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.ContentService.UpdateQuestion(ctx.Param("questionId"), func(q *model.Question) {
		q.Prompt = req.Prompt
		q.Choices = req.Choices
		q.CorrectAnswer = req.CorrectAnswer
		q.CaseSensitive = req.CaseSensitive
		q.Explanation = req.Explanation
		q.Hint = req.Hint
		q.Seq = req.Seq
	})
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary 删除题目
// @Tags 内容管理
// @Produce json
// @Security BearerAuth
// @Param questionId path string true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{questionId} [delete]
func (c *ContentController) DeleteQuestion(ctx *gin.Context) {
	if err := c.ContentService.DeleteQuestion(ctx.Param("questionId")); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "question deleted"})
}
