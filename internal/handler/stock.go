package handler

import (
	"net/http"

	"dellasoft/internal/apierror"
	"dellasoft/internal/dto"
	"dellasoft/internal/model"
	"dellasoft/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// Create godoc
// @Summary Crea el registro de stock de un producto o ingrediente
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateStockRequest true "Stock inicial"
// @Success 201 {object} dto.StockResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/stock [post]
func (h *StockHandler) Create(c *gin.Context) {
	var req dto.CreateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ownerID, _ := uuid.Parse(req.OwnerID)
	s, err := h.svc.CreateStock(c.Request.Context(), model.StockOwner(req.OwnerKind), ownerID, req.Quantity, req.MinQuantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.ToStockResponse(s))
}

// GetByOwner godoc
// @Summary Obtiene el stock de un producto o ingrediente
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Param owner_kind query string true "product | ingredient"
// @Param owner_id query string true "ID del producto o ingrediente"
// @Success 200 {object} dto.StockResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/stock [get]
func (h *StockHandler) GetByOwner(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Query("owner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "owner_id inválido"))
		return
	}
	s, err := h.svc.GetStock(c.Request.Context(), model.StockOwner(c.Query("owner_kind")), ownerID)
	if err != nil {
		writeError(c, err)
		return
	}
	if s == nil {
		c.JSON(http.StatusNotFound, apierror.WithCode("not_found", "Sin registro de stock"))
		return
	}
	c.JSON(http.StatusOK, service.ToStockResponse(s))
}

func (h *StockHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ToStockResponse(s))
}

// Adjust godoc
// @Summary Ajusta la cantidad en stock (positivo ingresa, negativo descuenta)
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del stock"
// @Param body body dto.AdjustStockRequest true "Ajuste"
// @Success 200 {object} dto.StockResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/stock/{id}/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s, err := h.svc.AdjustQuantity(c.Request.Context(), id, req.Delta, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ToStockResponse(s))
}

func (h *StockHandler) Movements(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)
	rows, total, err := h.svc.ListMovements(c.Request.Context(), id, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	data := make([]dto.StockMovementResponse, 0, len(rows))
	for i := range rows {
		data = append(data, service.ToStockMovementResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total})
}

// Low godoc
// @Summary Lista el stock en o por debajo del mínimo
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.StockResponse
// @Router /v1/stock/low [get]
func (h *StockHandler) Low(c *gin.Context) {
	rows, err := h.svc.ListLowStock(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	data := make([]dto.StockResponse, 0, len(rows))
	for i := range rows {
		data = append(data, service.ToStockResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, data)
}
