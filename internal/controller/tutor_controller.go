package controller

import (
	"errors"
	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TutorController struct {
	TutorService *service.TutorService
}

func NewTutorController(tutorService *service.TutorService) *TutorController {
	return &TutorController{TutorService: tutorService}
}

// AskRequest 辅导提问请求
// swagger:model AskRequest
type AskRequest struct {
	SessionID string `json:"sessionId"` // 为空时新建会话
	Question  string `json:"question" binding:"required"`
}

// Ask godoc
// @Summary AI辅导提问
// @Description 先检索词典背景知识再调用大模型回答，非流式
// @Tags 辅导
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body AskRequest true "问题内容"
// @Success 200 {object} util.Response{data=service.AskResult} "成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 429 {object} util.Response "辅导额度已用尽"
// @Router /api/tutor/ask [post]
func (c *TutorController) Ask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.TutorService.Ask(claims.UserID, req.SessionID, req.Question)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// AskStream godoc
// @Summary AI辅导流式提问
// @Description SSE流式返回回答增量，最后以end事件结束
// @Tags 辅导
// @Accept  json
// @Produce  text/event-stream
// @Security BearerAuth
// @Param   body body AskRequest true "问题内容"
// @Success 200 {string} string "SSE事件流"
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 429 {object} util.Response "辅导额度已用尽"
// @Router /api/tutor/ask/stream [post]
func (c *TutorController) AskStream(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	stream, errChan, sessionID, err := c.TutorService.AskStream(claims.UserID, req.SessionID, req.Question)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	// 设置SSE响应头
	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	ctx.SSEvent("session", sessionID)
	ctx.Writer.Flush()

	for content := range stream {
		ctx.SSEvent("message", content)
		ctx.Writer.Flush()
	}

	if err, ok := <-errChan; ok && err != nil {
		ctx.SSEvent("error", err.Error())
		ctx.Writer.Flush()
	}

	ctx.SSEvent("end", "done")
	ctx.Writer.Flush()
}

// ListSessions godoc
// @Summary 会话列表
// @Description 按最近活跃排序返回当前用户的辅导会话
// @Tags 辅导
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.TutorSession} "成功"
// @Router /api/tutor/sessions [get]
func (c *TutorController) ListSessions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	sessions, err := c.TutorService.ListSessions(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sessions)
}

// GetSession godoc
// @Summary 会话详情
// @Description 返回会话及其全部消息
// @Tags 辅导
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionDetail} "成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/tutor/sessions/{id} [get]
func (c *TutorController) GetSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	detail, err := c.TutorService.GetSession(ctx.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}

// DeleteSession godoc
// @Summary 删除会话
// @Description 删除会话及其消息
// @Tags 辅导
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/tutor/sessions/{id} [delete]
func (c *TutorController) DeleteSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.TutorService.DeleteSession(ctx.Param("id"), claims.UserID); err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
