package public

import (
	"net/http"

	handlershared "github.com/ninetytwo-orders/internal/http/handlers/shared"
	"github.com/ninetytwo-orders/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RowUpdateRequest 行数据写入请求，data 为整行覆盖
type RowUpdateRequest struct {
	Data map[string]interface{} `json:"data"`
}

// GetOrder 获取完整订单文档
func (h *Handler) GetOrder(c *gin.Context) {
	doc, err := h.OrderService.GetOrderBySlug(handlershared.SlugParam(c))
	if err != nil {
		respondServiceError(c, err, http.StatusInternalServerError)
		return
	}
	if doc == nil {
		respondError(c, http.StatusNotFound, handlershared.MsgOrderNotFound, nil)
		return
	}
	response.OK(c, doc)
}

// AddRow 追加空行
func (h *Handler) AddRow(c *gin.Context) {
	id, err := h.OrderService.AddRowBySlug(handlershared.SlugParam(c))
	if err != nil {
		respondServiceError(c, err, http.StatusBadRequest)
		return
	}
	response.OK(c, gin.H{"id": id})
}

// UpdateRow 覆盖写入行数据
func (h *Handler) UpdateRow(c *gin.Context) {
	slug := handlershared.SlugParam(c)
	rowID, ok := h.rowID(c, slug)
	if !ok {
		return
	}
	var req RowUpdateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, handlershared.MsgInvalidBody, err)
			return
		}
	}
	if req.Data == nil {
		req.Data = map[string]interface{}{}
	}
	if err := h.OrderService.SaveRow(slug, rowID, req.Data); err != nil {
		respondServiceError(c, err, http.StatusBadRequest)
		return
	}
	response.Done(c, nil)
}

// DeleteRow 删除行
func (h *Handler) DeleteRow(c *gin.Context) {
	slug := handlershared.SlugParam(c)
	rowID, ok := h.rowID(c, slug)
	if !ok {
		return
	}
	if err := h.OrderService.RemoveRow(slug, rowID); err != nil {
		respondServiceError(c, err, http.StatusBadRequest)
		return
	}
	response.Done(c, nil)
}

// rowID 解析行 ID；订单不存在优先于行 ID 非法
func (h *Handler) rowID(c *gin.Context, slug string) (uint, bool) {
	rowID, ok := handlershared.RowIDParam(c)
	if ok {
		return rowID, true
	}
	if _, err := h.OrderService.ResolveOrderID(slug); err != nil {
		respondServiceError(c, err, http.StatusBadRequest)
		return 0, false
	}
	respondError(c, http.StatusNotFound, handlershared.MsgRowNotFound, nil)
	return 0, false
}
