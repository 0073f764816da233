package controller

import (
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
}

func NewLearningController(learningService *service.LearningService) *LearningController {
	return &LearningController{LearningService: learningService}
}

// @Summary 学习地图
// @Description 获取全部单元、课程及当前用户的解锁与通关状态
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/learning/map [get]
func (c *LearningController) GetMap(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	units, err := c.LearningService.GetLearningMap(ctx.Request.Context(), user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, units)
}

// @Summary 课程模态
// @Description 获取某课程四个练习模态的状态
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/learning/lessons/{lessonId}/modes [get]
func (c *LearningController) GetLessonModes(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	modes, err := c.LearningService.GetLessonModes(user.UserID, ctx.Param("lessonId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, modes)
}

// @Summary 课程概览
// @Description 进入课程前的信息：题量、可得XP、模态状态和红心快照
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/learning/lessons/{lessonId}/overview [get]
func (c *LearningController) GetLessonOverview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.LearningService.GetLessonOverview(user.UserID, ctx.Param("lessonId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, overview)
}

type StartQuizRequest struct {
	LessonID string `json:"lessonId" binding:"required"`
	Mode     string `json:"mode" binding:"required"`
}

// @Summary 开始测验
// @Description 按课程和模态确定性选题并创建测验，返回第一题
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StartQuizRequest true "课程与模态"
// @Success 201 {object} util.Response
// @Router /api/quiz/start [post]
func (c *LearningController) StartQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.LearningService.StartQuiz(user.UserID, req.LessonID, req.Mode)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// @Summary 恢复测验
// @Description 找回该课程模态下进行中的测验，返回断点处的题目
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param lessonId query string true "课程ID"
// @Param mode query string true "练习模态"
// @Success 200 {object} util.Response
// @Router /api/quiz/resume [get]
func (c *LearningController) ResumeQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.LearningService.ResumeQuiz(user.UserID, ctx.Query("lessonId"), ctx.Query("mode"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 当前题目
// @Description 返回该测验中第一道未作答的题目
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param attemptId path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quiz/{attemptId}/current [get]
func (c *LearningController) CurrentQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	question, err := c.LearningService.CurrentQuestion(user.UserID, ctx.Param("attemptId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

type SubmitAnswerRequest struct {
	QuestionID string                `json:"questionId" binding:"required"`
	Answer     service.AnswerPayload `json:"answer" binding:"required"`
}

// @Summary 提交答案
// @Description 判题并返回对错、正确答案、红心和下一题；重复提交幂等
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attemptId path string true "测验ID"
// @Param request body SubmitAnswerRequest true "题目与答案"
// @Success 200 {object} util.Response
// @Router /api/quiz/{attemptId}/answer [post]
func (c *LearningController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.LearningService.SubmitAnswer(user.UserID, ctx.Param("attemptId"), req.QuestionID, req.Answer)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 结束测验
// @Description 封账并结算进度，重复调用返回相同摘要
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param attemptId path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quiz/{attemptId}/finish [post]
func (c *LearningController) FinishQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.LearningService.FinishQuiz(user.UserID, ctx.Param("attemptId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 红心状态
// @Description 获取当前红心余量和下一颗恢复倒计时
// @Tags 红心
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/hearts [get]
func (c *LearningController) GetHearts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	hearts, err := c.LearningService.GetHearts(user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, hearts)
}

// @Summary 红心回满
// @Description 练习入口的恢复操作，直接回满红心
// @Tags 红心
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/hearts/refill [post]
func (c *LearningController) RefillHearts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	hearts, err := c.LearningService.RefillHearts(user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, hearts)
}

// @Summary 开始练习
// @Description 从最薄弱技能直接开一场测验，没有薄弱技能时从地图断点开始
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response
// @Router /api/learning/practice/start [post]
func (c *LearningController) StartPractice(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.LearningService.StartPractice(ctx.Request.Context(), user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// @Summary 练习中心
// @Description 从已通关模态里按薄弱程度推荐复习
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Param limit query int false "推荐数量，默认5"
// @Success 200 {object} util.Response
// @Router /api/learning/practice [get]
func (c *LearningController) GetPracticeHub(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "5"))
	recs, err := c.LearningService.GetPracticeHub(user.UserID, limit)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, recs)
}
