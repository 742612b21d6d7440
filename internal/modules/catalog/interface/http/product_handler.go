package handler

import (
	catalogRequest "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/application/dto/request"
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/application/service"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/back"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc service.ProductService
}

func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogRequest.CreateProductRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.CreateProduct(req)
	back.Result(c, data, err)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req catalogRequest.UpdateProductRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.UpdateProduct(req)
	back.Result(c, data, err)
}

func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var req catalogRequest.AdjustStockRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.AdjustStock(req)
	back.Result(c, data, err)
}

func (h *ProductHandler) List(c *gin.Context) {
	activeOnly := c.Query("all") == ""
	data, err := h.svc.ListProducts(activeOnly)
	back.Result(c, data, err)
}
