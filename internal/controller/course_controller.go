package controller

import (
	"errors"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// handleCourseErr 把课程域错误映射为HTTP响应
func handleCourseErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrCourseNotPublished):
		util.Error(ctx, 403, "课程尚未发布")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrNotEnrolled):
		util.Error(ctx, 403, "尚未选修该课程")
	default:
		util.LogInternalError(ctx, err)
	}
}

// ListCourses godoc
// @Summary 课程目录
// @Description 分页浏览已发布课程，支持按CEFR等级和主题过滤
// @Tags 课程
// @Produce  json
// @Param   level query string false "CEFR等级 (A1-C2)"
// @Param   topic query string false "主题"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	courses, total, err := c.CourseService.ListPublished(ctx.Query("level"), ctx.Query("topic"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// GetCourse godoc
// @Summary 课程详情
// @Description 获取课程及课文列表，附带选课状态
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 403 {object} util.Response "课程未发布"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var userID uint
	isStaff := false
	if claims != nil {
		userID = claims.UserID
		isStaff = claims.Role == model.Admin
	}

	course, enrollment, err := c.CourseService.GetForStudent(util.MustParseUint(ctx.Param("id")), userID, isStaff)
	if err != nil {
		handleCourseErr(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"course": course, "enrollment": enrollment})
}

// CreateCourse godoc
// @Summary 创建课程
// @Description 教师创建新课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CourseReq true "课程字段"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/teacher/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(claims.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Description 作者或管理员更新课程字段，含发布/下架
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body service.CourseReq true "课程字段"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/teacher/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin, req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) || errors.Is(err, util.ErrPermissionDenied) {
			handleCourseErr(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Description 作者或管理员删除课程
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/teacher/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.CourseService.Delete(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin); err != nil {
		handleCourseErr(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// MyCourses godoc
// @Summary 我创建的课程
// @Description 教师查看自己创建的全部课程（含未发布）
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course} "成功"
// @Router /api/teacher/courses [get]
func (c *CourseController) MyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	courses, err := c.CourseService.ListByAuthor(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// Enroll godoc
// @Summary 选修课程
// @Description 学生选修已发布课程，重复选修幂等返回
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Enrollment} "成功"
// @Failure 403 {object} util.Response "课程未发布"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	enrollment, err := c.CourseService.Enroll(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		handleCourseErr(ctx, err)
		return
	}

	util.Success(ctx, enrollment)
}

// EnrolledCourses godoc
// @Summary 我选修的课程
// @Description 学生查看自己选修的课程及学习进度
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.EnrolledCourse} "成功"
// @Router /api/my/courses [get]
func (c *CourseController) EnrolledCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	courses, err := c.CourseService.ListEnrolled(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}
