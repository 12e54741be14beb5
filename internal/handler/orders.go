package handler

import (
	"net/http"
	"path/filepath"

	"dellasoft/internal/dto"
	"dellasoft/internal/middleware"
	"dellasoft/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct {
	orders   service.OrderService
	payments service.PaymentService
	invoices service.InvoiceService
}

func NewOrdersHandler(orders service.OrderService, payments service.PaymentService, invoices service.InvoiceService) *OrdersHandler {
	return &OrdersHandler{orders: orders, payments: payments, invoices: invoices}
}

// Create godoc
// @Summary Crea un pedido con sus productos
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateOrderRequest true "Pedido"
// @Success 201 {object} dto.OrderResponse
// @Router /v1/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary Lista pedidos con filtro por cliente y rango de fechas
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param search query string false "Nombre o apellido del cliente"
// @Param from query string false "Desde (YYYY-MM-DD)"
// @Param to query string false "Hasta (YYYY-MM-DD)"
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Success 200 {object} dto.OrderListResponse
// @Router /v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.orders.UpdateDetails(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Pending(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pending, err := h.orders.Pending(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id.String(), "pending": pending})
}

// Pay godoc
// @Summary Registra un pago parcial o total del pedido en la caja del día
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del pedido"
// @Param body body dto.PaymentRequest true "Pago"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/orders/{id}/payments [post]
func (h *OrdersHandler) Pay(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	posID := uuid.Nil
	if req.POSID != "" {
		posID, _ = uuid.Parse(req.POSID)
	}
	result, err := h.payments.ApplyPayment(c.Request.Context(), service.PaymentRequest{
		OrderID:     id,
		POSID:       posID,
		UserID:      middleware.UserID(c),
		Amount:      req.Amount,
		Observation: req.Observation,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.ToPaymentResponse(result))
}

func (h *OrdersHandler) Transactions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orders.Transactions(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Invoice godoc
// @Summary Descarga la última factura emitida del pedido
// @Tags pedidos
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID del pedido"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/orders/{id}/invoice [get]
func (h *OrdersHandler) Invoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	path, err := h.invoices.LatestPDF(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
