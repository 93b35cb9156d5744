package handler

import (
	"errors"
	"net/http"
	"strings"

	"smartstock/internal/apierror"
	"smartstock/internal/dto"
	"smartstock/internal/middleware"
	"smartstock/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHandler struct{ svc service.LedgerService }

func NewStockHandler(svc service.LedgerService) *StockHandler {
	return &StockHandler{svc: svc}
}

func (h *StockHandler) List(c *gin.Context) {
	resp, err := h.svc.ListMovements(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list stock movements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) Record(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordMovement(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		case strings.HasPrefix(err.Error(), "insufficient stock"):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// actorFrom resolves the acting username from the JWT claims, falling back
// to empty (the service records "system") on unauthenticated paths.
func actorFrom(c *gin.Context) string {
	v, ok := c.Get(middleware.ClaimsKey)
	if !ok {
		return ""
	}
	if claims, ok := v.(*middleware.JWTClaims); ok {
		return claims.Username
	}
	return ""
}
