package public

import (
	"net/http"
	"strconv"
	"strings"

	handlershared "github.com/ninetytwo-orders/internal/http/handlers/shared"
	"github.com/ninetytwo-orders/internal/http/response"
	"github.com/ninetytwo-orders/internal/sizing"

	"github.com/gin-gonic/gin"
)

// GetCatalog 建单表单配置
func (h *Handler) GetCatalog(c *gin.Context) {
	response.OK(c, h.OrderService.Catalog(c.Query("sport"), c.Query("lang")))
}

// SuggestSize 按身高体重推荐尺码
func (h *Handler) SuggestSize(c *gin.Context) {
	height := parseMeasure(c.Query("height"))
	weight := parseMeasure(c.Query("weight"))
	suggestion, ok := sizing.Suggest(height, weight, c.Query("sport"))
	if !ok {
		respondError(c, http.StatusNotFound, handlershared.MsgNoSuggestion, nil)
		return
	}
	response.OK(c, suggestion)
}

func parseMeasure(raw string) float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
