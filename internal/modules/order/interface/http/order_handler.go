package handler

import (
	"strconv"

	orderRequest "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/application/dto/request"
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/application/service"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/back"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req orderRequest.CreateOrderRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.CreateOrder(req)
	back.Result(c, data, err)
}

func (h *OrderHandler) MarkPaid(c *gin.Context) {
	var req orderRequest.MarkPaidRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.MarkPaid(req)
	back.Result(c, data, err)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	var req orderRequest.OrderNoRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	err := h.svc.CancelOrder(req.OrderNo)
	back.Result(c, nil, err)
}

func (h *OrderHandler) Get(c *gin.Context) {
	var req orderRequest.OrderNoRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.GetOrder(req.OrderNo)
	back.Result(c, data, err)
}

func (h *OrderHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	data, err := h.svc.ListRecentOrders(limit)
	back.Result(c, data, err)
}
