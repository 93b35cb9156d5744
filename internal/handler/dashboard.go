package handler

import (
	"net/http"
	"strconv"

	"smartstock/internal/apierror"
	"smartstock/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats never fails on individual aggregate errors; those degrade to zero
// inside the service, so the only error path here is a total store outage.
func (h *DashboardHandler) Stats(c *gin.Context) {
	resp, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute dashboard stats"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) TopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	resp, err := h.svc.TopProducts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to rank products"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) MonthlySales(c *gin.Context) {
	resp, err := h.svc.MonthlyTrend(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute monthly sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
