package handler

import (
	supportRequest "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/application/dto/request"
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/application/service"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/back"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	assignSvc      service.AssignmentService
	consolidateSvc service.ConsolidationService
}

func NewAssignmentHandler(assignSvc service.AssignmentService, consolidateSvc service.ConsolidationService) *AssignmentHandler {
	return &AssignmentHandler{assignSvc: assignSvc, consolidateSvc: consolidateSvc}
}

func (h *AssignmentHandler) AutoAssign(c *gin.Context) {
	var req supportRequest.SessionRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.assignSvc.AutoAssign(req.SessionId)
	back.Result(c, data, err)
}

func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req supportRequest.AssignRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	ok, err := h.assignSvc.Assign(req.SessionId, req.AgentUuid, req.AssignmentStatus)
	back.Result(c, gin.H{"assigned": ok}, err)
}

func (h *AssignmentHandler) Unassign(c *gin.Context) {
	var req supportRequest.SessionRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	err := h.assignSvc.Unassign(req.SessionId)
	back.Result(c, nil, err)
}

func (h *AssignmentHandler) GetSessionAssignment(c *gin.Context) {
	var req supportRequest.SessionRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.assignSvc.GetSessionAssignment(req.SessionId)
	back.Result(c, data, err)
}

// ListMySessions returns the calling operator's open sessions.
func (h *AssignmentHandler) ListMySessions(c *gin.Context) {
	data, err := h.assignSvc.ListAssignedSessions(c.GetString("uuid"))
	back.Result(c, data, err)
}

func (h *AssignmentHandler) ListUnassignedSessions(c *gin.Context) {
	data, err := h.assignSvc.ListUnassignedSessions()
	back.Result(c, data, err)
}

func (h *AssignmentHandler) ConsolidateUser(c *gin.Context) {
	var req supportRequest.ConsolidateRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.consolidateSvc.ConsolidateUserSessions(req.UserId)
	back.Result(c, data, err)
}

func (h *AssignmentHandler) ConsolidateAll(c *gin.Context) {
	data, err := h.consolidateSvc.ConsolidateAllDuplicateSessions()
	back.Result(c, data, err)
}
