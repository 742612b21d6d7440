package handler

import (
	userRequest "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/application/dto/request"
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/application/service"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/back"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc       service.UserService
	agentRole string
}

func NewUserHandler(svc service.UserService, agentRole string) *UserHandler {
	return &UserHandler{svc: svc, agentRole: agentRole}
}

func (h *UserHandler) Login(c *gin.Context) {
	var req userRequest.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Login(req)
	back.Result(c, data, err)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req userRequest.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Register(req)
	back.Result(c, data, err)
}

func (h *UserHandler) ListAgents(c *gin.Context) {
	data, err := h.svc.ListAgents(h.agentRole)
	back.Result(c, data, err)
}
