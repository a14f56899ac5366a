package controller

import (
	"errors"
	"fmt"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LessonController struct {
	LessonService  *service.LessonService
	StorageService *service.StorageService
}

func NewLessonController(lessonService *service.LessonService, storageService *service.StorageService) *LessonController {
	return &LessonController{
		LessonService:  lessonService,
		StorageService: storageService,
	}
}

func handleLessonErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrLessonNotFound), errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// GetLesson godoc
// @Summary 课文详情
// @Description 学生获取课文内容、词汇表条目与完课状态
// @Tags 课文
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课文ID"
// @Success 200 {object} util.Response{data=service.LessonDetail} "成功"
// @Failure 404 {object} util.Response "课文不存在"
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	detail, err := c.LessonService.GetForStudent(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		handleLessonErr(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// CreateLesson godoc
// @Summary 创建课文
// @Description 在指定课程下新建课文
// @Tags 课文
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body service.LessonReq true "课文字段"
// @Success 201 {object} util.Response{data=model.Lesson} "创建成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/teacher/courses/{id}/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.LessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Create(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin, req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) || errors.Is(err, util.ErrPermissionDenied) {
			handleLessonErr(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary 更新课文
// @Description 更新课文内容、词汇表或顺序
// @Tags 课文
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课文ID"
// @Param   body body service.LessonReq true "课文字段"
// @Success 200 {object} util.Response{data=model.Lesson} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "课文不存在"
// @Router /api/teacher/lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.LessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Update(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin, req)
	if err != nil {
		handleLessonErr(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary 删除课文
// @Tags 课文
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课文ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "课文不存在"
// @Router /api/teacher/lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.LessonService.Delete(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin); err != nil {
		handleLessonErr(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// CompleteLessonRequest 完课上报
type CompleteLessonRequest struct {
	Duration int `json:"duration"` // 学习时长（秒）
}

// CompleteLesson godoc
// @Summary 标记完课
// @Description 学生标记课文学习完成并刷新课程进度，重复调用幂等
// @Tags 课文
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课文ID"
// @Param   body body CompleteLessonRequest false "学习时长"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课文不存在"
// @Router /api/lessons/{id}/complete [post]
func (c *LessonController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req CompleteLessonRequest
	_ = ctx.ShouldBindJSON(&req)

	err := c.LessonService.Complete(claims.UserID, util.MustParseUint(ctx.Param("id")), req.Duration)
	if err != nil {
		if errors.Is(err, util.ErrNotEnrolled) {
			util.Error(ctx, 403, "尚未选修该课程")
		} else {
			handleLessonErr(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// UploadAudio godoc
// @Summary 上传课文朗读音频
// @Description 上传音频文件，探测时长后绑定到课文
// @Tags 课文
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课文ID"
// @Param   file formData file true "音频文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件无效"
// @Router /api/teacher/lessons/{id}/audio [post]
func (c *LessonController) UploadAudio(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lessonID := util.MustParseUint(ctx.Param("id"))

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}
	if fileHeader.Size > 50<<20 {
		util.BadRequest(ctx, "音频不能超过50MB")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowed := false
	for _, e := range util.AllowedAudioExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		util.BadRequest(ctx, "不支持的音频格式: "+ext)
		return
	}

	// 先落到临时文件，探测音频流与时长后再上传到存储
	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+ext)
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	info, err := util.GetAudioInfo(tmpPath)
	if err != nil {
		util.BadRequest(ctx, "音频文件无效: "+err.Error())
		return
	}

	filename := fmt.Sprintf("lessons/%d/audio/%s%s", lessonID, uuid.New().String(), ext)
	url, err := c.StorageService.UploadFile(ctx.Request.Context(), filename, tmpPath, util.MimeAudio+strings.TrimPrefix(ext, "."))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.LessonService.SetAudio(lessonID, claims.UserID, claims.Role == model.Admin, url, info.Duration); err != nil {
		handleLessonErr(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url, "duration": info.Duration, "format": info.Format})
}
