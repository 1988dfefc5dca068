package public

import (
	"net/http"
	"strings"

	"github.com/ninetytwo-orders/internal/export"
	handlershared "github.com/ninetytwo-orders/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// ExportOrder 返回打印用 HTML 文档；print=1 时加载后自动调起打印
func (h *Handler) ExportOrder(c *gin.Context) {
	mode, err := export.ParseMode(c.Query("mode"))
	if err != nil {
		respondServiceError(c, err, http.StatusBadRequest)
		return
	}
	autoPrint := strings.TrimSpace(c.Query("print")) == "1"
	body, err := h.ExportService.Render(handlershared.SlugParam(c), mode, autoPrint)
	if err != nil {
		respondServiceError(c, err, http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
