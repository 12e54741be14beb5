package handler

import (
	"errors"
	"net/http"
	"strconv"

	"dellasoft/internal/apierror"
	"dellasoft/internal/middleware"
	"dellasoft/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery binds query-string filters (form tags).
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "Parámetros inválidos: "+err.Error()))
		return false
	}
	return true
}

func validateStruct(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// errorStatus maps service error kinds to HTTP status and a stable code.
var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{service.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{service.ErrValidation, http.StatusBadRequest, "validation"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrAlreadyOpen, http.StatusConflict, "already_open"},
	{service.ErrDuplicateStock, http.StatusConflict, "duplicate_stock"},
	{service.ErrOverpayment, http.StatusUnprocessableEntity, "overpayment"},
	{service.ErrInsufficientStock, http.StatusUnprocessableEntity, "insufficient_stock"},
	{service.ErrTillClosed, http.StatusUnprocessableEntity, "till_closed"},
}

// writeError renders a service error. Storage and unknown errors become a
// generic 500 and are logged; their text never reaches the client.
func writeError(c *gin.Context, err error) {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			c.JSON(m.status, apierror.WithCode(m.code, err.Error()))
			return
		}
	}
	log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.FullPath()).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, apierror.WithCode("storage", "Error interno del servidor"))
}

// parseID reads a uuid path parameter, writing a 400 when malformed.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads page/limit query params; normalization happens downstream.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}
