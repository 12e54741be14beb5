package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"dellasoft/internal/apierror"
	"dellasoft/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler { return &ReportsHandler{svc: svc} }

// period reads month/year; missing values mean the current month.
func period(c *gin.Context) (int, int, bool) {
	var month, year int
	var err error
	if v := c.Query("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "mes inválido"))
			return 0, 0, false
		}
	}
	if v := c.Query("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "año inválido"))
			return 0, 0, false
		}
	}
	return month, year, true
}

// Dashboard godoc
// @Summary Rotación de stock, productos más vendidos y pedidos por día del mes
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Param month query int false "Mes (1-12)"
// @Param year query int false "Año"
// @Success 200 {object} dto.DashboardResponse
// @Router /v1/reports/dashboard [get]
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	month, year, ok := period(c)
	if !ok {
		return
	}
	resp, err := h.svc.Dashboard(c.Request.Context(), month, year)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF godoc
// @Summary Reporte mensual en PDF
// @Tags reportes
// @Produce application/pdf
// @Security BearerAuth
// @Param month query int false "Mes (1-12)"
// @Param year query int false "Año"
// @Router /v1/reports/monthly.pdf [get]
func (h *ReportsHandler) PDF(c *gin.Context) {
	month, year, ok := period(c)
	if !ok {
		return
	}
	out, err := h.svc.MonthlyPDF(c.Request.Context(), month, year)
	if err != nil {
		writeError(c, err)
		return
	}
	attachment(c, "reporte.pdf", "application/pdf", out)
}

// XLSX godoc
// @Summary Reporte mensual en Excel
// @Tags reportes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param month query int false "Mes (1-12)"
// @Param year query int false "Año"
// @Router /v1/reports/monthly.xlsx [get]
func (h *ReportsHandler) XLSX(c *gin.Context) {
	month, year, ok := period(c)
	if !ok {
		return
	}
	out, err := h.svc.MonthlyXLSX(c.Request.Context(), month, year)
	if err != nil {
		writeError(c, err)
		return
	}
	attachment(c, "reporte.xlsx", xlsxContentType, out)
}

func attachment(c *gin.Context, name, contentType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, contentType, body)
}
