package handler

import (
	"net/http"
	"time"

	"dellasoft/internal/apierror"
	"dellasoft/internal/dto"
	"dellasoft/internal/middleware"
	"dellasoft/internal/service"

	"github.com/gin-gonic/gin"
)

type POSHandler struct {
	svc   service.POSService
	clock service.Clock
}

func NewPOSHandler(svc service.POSService, clock service.Clock) *POSHandler {
	return &POSHandler{svc: svc, clock: clock}
}

// Open godoc
// @Summary Abre la caja del día
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenPOSRequest true "Monto inicial"
// @Success 201 {object} dto.POSResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/pos [post]
func (h *POSHandler) Open(c *gin.Context) {
	var req dto.OpenPOSRequest
	if !bindAndValidate(c, &req) {
		return
	}
	date := service.Today(h.clock)
	if req.PosDate != "" {
		date, _ = time.Parse("2006-01-02", req.PosDate)
	}
	p, err := h.svc.OpenSession(c.Request.Context(), middleware.UserID(c), req.InitialAmount, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.ToPOSResponse(p))
}

// Today godoc
// @Summary Caja abierta para el día de hoy
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.POSResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/pos/today [get]
func (h *POSHandler) Today(c *gin.Context) {
	p, err := h.svc.Today(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, apierror.WithCode("till_closed", service.ErrTillClosed.Error()))
		return
	}
	c.JSON(http.StatusOK, service.ToPOSResponse(p))
}

func (h *POSHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ToPOSResponse(p))
}

// History godoc
// @Summary Historial de cajas, la más reciente primero
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Router /v1/pos [get]
func (h *POSHandler) History(c *gin.Context) {
	page, limit := pageParams(c)
	rows, total, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	data := make([]dto.POSResponse, 0, len(rows))
	for i := range rows {
		data = append(data, service.ToPOSResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total})
}

func (h *POSHandler) Transactions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rows, err := h.svc.Transactions(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	data := make([]dto.TransactionResponse, 0, len(rows))
	for i := range rows {
		data = append(data, service.ToTransactionResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, data)
}
