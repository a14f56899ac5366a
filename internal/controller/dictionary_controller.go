package controller

import (
	"errors"
	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DictionaryController struct {
	DictService *service.DictionaryService
}

func NewDictionaryController(dictService *service.DictionaryService) *DictionaryController {
	return &DictionaryController{DictService: dictService}
}

// Search godoc
// @Summary 词典检索
// @Description 前缀匹配德语词或模糊匹配译文，支持按等级与词性过滤
// @Tags 词典
// @Produce  json
// @Param   q query string false "检索词"
// @Param   level query string false "CEFR等级"
// @Param   pos query string false "词性"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/dictionary [get]
func (c *DictionaryController) Search(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	entries, total, err := c.DictService.Search(ctx.Query("q"), ctx.Query("level"), ctx.Query("pos"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: entries, Total: total, Page: page, Limit: limit})
}

// GetEntry godoc
// @Summary 词条详情
// @Tags 词典
// @Produce  json
// @Param   id path int true "词条ID"
// @Success 200 {object} util.Response{data=model.DictionaryEntry} "成功"
// @Failure 404 {object} util.Response "词条不存在"
// @Router /api/dictionary/{id} [get]
func (c *DictionaryController) GetEntry(ctx *gin.Context) {
	entry, err := c.DictService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrEntryNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, entry)
}

// WordOfTheDay godoc
// @Summary 每日一词
// @Description 当天固定返回同一个随机词条
// @Tags 词典
// @Produce  json
// @Success 200 {object} util.Response{data=model.DictionaryEntry} "成功"
// @Router /api/dictionary/word-of-day [get]
func (c *DictionaryController) WordOfTheDay(ctx *gin.Context) {
	entry, err := c.DictService.WordOfTheDay(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, util.ErrEntryNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, entry)
}

// Practice godoc
// @Summary 单词卡练习
// @Description 随机抽取词条生成选择题式单词卡
// @Tags 词典
// @Produce  json
// @Security BearerAuth
// @Param   level query string false "CEFR等级"
// @Param   count query int false "卡片数量（默认10，最多50）"
// @Success 200 {object} util.Response{data=[]service.PracticeCard} "成功"
// @Router /api/dictionary/practice [get]
func (c *DictionaryController) Practice(ctx *gin.Context) {
	count := int(util.MustParseUint(ctx.Query("count")))

	cards, err := c.DictService.Practice(ctx.Query("level"), count)
	if err != nil {
		if errors.Is(err, util.ErrEntryNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, cards)
}

// SaveWord godoc
// @Summary 收藏生词
// @Description 将词条加入生词本，重复收藏幂等
// @Tags 词典
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "词条ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "词条不存在"
// @Router /api/dictionary/{id}/save [post]
func (c *DictionaryController) SaveWord(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.DictService.SaveWord(claims.UserID, util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrEntryNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// UnsaveWord godoc
// @Summary 取消收藏生词
// @Tags 词典
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "词条ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/dictionary/{id}/save [delete]
func (c *DictionaryController) UnsaveWord(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.DictService.UnsaveWord(claims.UserID, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// SavedWords godoc
// @Summary 我的生词本
// @Tags 词典
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.DictionaryEntry} "成功"
// @Router /api/my/words [get]
func (c *DictionaryController) SavedWords(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	entries, err := c.DictService.ListSaved(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

// CreateEntry godoc
// @Summary 创建词条
// @Description 教师或管理员新增词典条目
// @Tags 词典
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.DictionaryEntryReq true "词条字段"
// @Success 201 {object} util.Response{data=model.DictionaryEntry} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/teacher/dictionary [post]
func (c *DictionaryController) CreateEntry(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.DictionaryEntryReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entry, err := c.DictService.Create(claims.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, entry)
}

// UpdateEntry godoc
// @Summary 更新词条
// @Tags 词典
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "词条ID"
// @Param   body body service.DictionaryEntryReq true "词条字段"
// @Success 200 {object} util.Response{data=model.DictionaryEntry} "成功"
// @Failure 404 {object} util.Response "词条不存在"
// @Router /api/teacher/dictionary/{id} [put]
func (c *DictionaryController) UpdateEntry(ctx *gin.Context) {
	var req service.DictionaryEntryReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entry, err := c.DictService.Update(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrEntryNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, entry)
}

// DeleteEntry godoc
// @Summary 删除词条
// @Tags 词典
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "词条ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "词条不存在"
// @Router /api/teacher/dictionary/{id} [delete]
func (c *DictionaryController) DeleteEntry(ctx *gin.Context) {
	if err := c.DictService.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrEntryNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
