package controller

import (
	"errors"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

func handleQuizErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrLessonNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrQuizNotPublished):
		util.Error(ctx, 403, "测验尚未发布")
	case errors.Is(err, util.ErrMaxAttemptsReached):
		util.Error(ctx, 403, "答题次数已用尽")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// GetQuiz godoc
// @Summary 学生获取测验
// @Description 返回不含答案键的测验题目；开启乱序时题目顺序随机
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.StudentQuiz} "成功"
// @Failure 403 {object} util.Response "测验未发布"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	quiz, err := c.QuizService.GetForStudent(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		handleQuizErr(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// SubmitQuiz godoc
// @Summary 提交答题
// @Description 按题目顺序提交作答，返回判分结果。作答列表与题目按
// @Description 位置对齐：缺失的作答按答错计，多余的作答忽略。
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body service.SubmitReq true "作答列表"
// @Success 200 {object} util.Response{data=service.SubmitResult} "判分结果"
// @Failure 403 {object} util.Response "测验未发布或次数用尽"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.SubmitReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.Submit(claims.UserID, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		handleQuizErr(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// MyAttempts godoc
// @Summary 我的答题记录
// @Description 学生查看自己在某测验的全部答题记录
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt} "成功"
// @Router /api/quizzes/{id}/attempts [get]
func (c *QuizController) MyAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	attempts, err := c.QuizService.ListMyAttempts(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}

// ListLessonQuizzes godoc
// @Summary 课文下的测验列表
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课文ID"
// @Success 200 {object} util.Response{data=[]model.Quiz} "成功"
// @Router /api/lessons/{id}/quizzes [get]
func (c *QuizController) ListLessonQuizzes(ctx *gin.Context) {
	quizzes, err := c.QuizService.ListByLesson(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}

// CreateQuiz godoc
// @Summary 创建测验
// @Description 教师在课文下创建测验，可同时提交题目列表
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课文ID"
// @Param   body body service.QuizReq true "测验与题目"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "题目校验失败"
// @Router /api/teacher/lessons/{id}/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Create(claims.UserID, util.MustParseUint(ctx.Param("id")), claims.Role == model.Admin, req)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) || errors.Is(err, util.ErrPermissionDenied) || errors.Is(err, util.ErrCourseNotFound) {
			handleQuizErr(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, quiz)
}

// GetQuizForTeacher godoc
// @Summary 教师获取测验
// @Description 返回含答案键的完整测验，仅创建者或管理员可见
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/teacher/quizzes/{id} [get]
func (c *QuizController) GetQuizForTeacher(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	quiz, questions, err := c.QuizService.GetForTeacher(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin)
	if err != nil {
		handleQuizErr(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"quiz": quiz, "questions": questions})
}

// UpdateQuiz godoc
// @Summary 更新测验
// @Description 更新测验设置，提交题目列表时按ID增删改并重算总分
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body service.QuizReq true "测验与题目"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 400 {object} util.Response "题目校验失败"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/teacher/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Update(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin, req)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) || errors.Is(err, util.ErrPermissionDenied) {
			handleQuizErr(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/teacher/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.QuizService.Delete(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin); err != nil {
		handleQuizErr(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// QuizAttempts godoc
// @Summary 测验答题记录
// @Description 教师分页查看测验的全部答题记录
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/teacher/quizzes/{id}/attempts [get]
func (c *QuizController) QuizAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	attempts, total, err := c.QuizService.ListAttempts(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin, page, limit)
	if err != nil {
		handleQuizErr(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: attempts, Total: total, Page: page, Limit: limit})
}

// QuizStats godoc
// @Summary 测验统计
// @Description 基于全部答题记录汇总：次数、平均分、最高/最低分、通过率
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=grading.Stats} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/teacher/quizzes/{id}/stats [get]
func (c *QuizController) QuizStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	stats, err := c.QuizService.Stats(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin)
	if err != nil {
		handleQuizErr(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
