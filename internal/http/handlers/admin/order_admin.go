package admin

import (
	"net/http"

	"github.com/ninetytwo-orders/internal/export"
	handlershared "github.com/ninetytwo-orders/internal/http/handlers/shared"
	"github.com/ninetytwo-orders/internal/http/response"
	"github.com/ninetytwo-orders/internal/service"

	"github.com/gin-gonic/gin"
)

// ExportArchiveRequest 导出归档请求
type ExportArchiveRequest struct {
	Mode string `json:"mode"`
}

// ListOrders 订单列表（新建在前）
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.OrderService.ListOrders()
	if err != nil {
		respondError(c, http.StatusInternalServerError, handlershared.MsgInternal, err)
		return
	}
	response.OK(c, gin.H{"orders": orders})
}

// CreateOrder 按表单设置创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, handlershared.MsgInvalidBody, err)
		return
	}
	order, err := h.OrderService.CreateFromRequest(req)
	if err != nil {
		respondServiceError(c, err, http.StatusBadRequest)
		return
	}
	response.Done(c, gin.H{"slug": order.Slug})
}

// UpdateOrder 局部更新订单设置
func (h *Handler) UpdateOrder(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, handlershared.MsgInvalidBody, err)
		return
	}
	if err := h.OrderService.UpdateSettings(handlershared.SlugParam(c), req); err != nil {
		respondServiceError(c, err, http.StatusBadRequest)
		return
	}
	response.Done(c, nil)
}

// DeleteOrder 删除订单及其全部行
func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.OrderService.RemoveOrder(handlershared.SlugParam(c)); err != nil {
		respondServiceError(c, err, http.StatusInternalServerError)
		return
	}
	response.Done(c, nil)
}

// RequestExportArchive 请求归档打印文档，队列启用时返回 202
func (h *Handler) RequestExportArchive(c *gin.Context) {
	var req ExportArchiveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, handlershared.MsgInvalidBody, err)
			return
		}
	}
	mode, err := export.ParseMode(req.Mode)
	if err != nil {
		respondServiceError(c, err, http.StatusBadRequest)
		return
	}
	result, err := h.ExportService.RequestArchive(handlershared.SlugParam(c), mode)
	if err != nil {
		respondServiceError(c, err, http.StatusInternalServerError)
		return
	}
	if result.Queued {
		c.JSON(http.StatusAccepted, result)
		return
	}
	response.OK(c, result)
}
