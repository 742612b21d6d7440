package handler

import (
	supportRequest "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/application/dto/request"
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/application/service"
	supportEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/entity"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/back"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type SupportHandler struct {
	chatSvc service.SupportChatService
}

func NewSupportHandler(chatSvc service.SupportChatService) *SupportHandler {
	return &SupportHandler{chatSvc: chatSvc}
}

// SendMessage is the public widget endpoint: customers are not
// authenticated, identity comes from the denormalized contact fields.
func (h *SupportHandler) SendMessage(c *gin.Context) {
	var req supportRequest.SendSupportMessageRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.chatSvc.SendUserMessage(req)
	back.Result(c, data, err)
}

func (h *SupportHandler) Reply(c *gin.Context) {
	var req supportRequest.SendAgentReplyRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.chatSvc.SendAgentReply(c.GetString("uuid"), req)
	back.Result(c, data, err)
}

func (h *SupportHandler) GetSessionMessages(c *gin.Context) {
	var req supportRequest.SessionMessagesRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.chatSvc.GetSessionMessages(req.SessionId, req.Page, req.PageSize)
	back.Result(c, data, err)
}

func (h *SupportHandler) MarkRead(c *gin.Context) {
	var req supportRequest.SessionRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	// Operators mark customer messages read.
	err := h.chatSvc.MarkSessionRead(req.SessionId, supportEntity.SenderUser)
	back.Result(c, nil, err)
}

func (h *SupportHandler) CloseSession(c *gin.Context) {
	var req supportRequest.SessionRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	err := h.chatSvc.CloseSession(req.SessionId)
	back.Result(c, nil, err)
}
