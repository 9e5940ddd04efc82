package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fornecelist/backend/internal/domain"
	"github.com/fornecelist/backend/internal/repository/ports"
	"github.com/fornecelist/backend/internal/service"
	"github.com/fornecelist/backend/internal/util"
)

type SupplierHandler struct {
	service *service.SupplierService
}

func RegisterSuppliers(e *echo.Echo, auth *service.AuthService, svc *service.SupplierService, enabled bool) {
	if !enabled || svc == nil {
		return
	}
	handler := &SupplierHandler{service: svc}

	group := e.Group("/api/v1/suppliers", OptionalAuth(auth))
	group.GET("", handler.list)
	group.GET("/:code", handler.getByCode)
}

func (h *SupplierHandler) list(c echo.Context) error {
	user, _ := CurrentUser(c)

	filter, err := parseSupplierFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	suppliers, decision, err := h.service.List(c.Request().Context(), service.CurrentUserID(user), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not list suppliers"))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"suppliers": suppliers,
		"access":    decision.Access,
	})
}

func (h *SupplierHandler) getByCode(c echo.Context) error {
	user, _ := CurrentUser(c)

	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		return c.JSON(http.StatusBadRequest, util.Error("supplier code is required"))
	}
	supplier, err := h.service.GetByCode(c.Request().Context(), service.CurrentUserID(user), code)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error("supplier not found"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"supplier": supplier})
}

func parseSupplierFilter(c echo.Context) (ports.SupplierFilter, error) {
	filter := ports.SupplierFilter{
		State:  strings.TrimSpace(c.QueryParam("state")),
		City:   strings.TrimSpace(c.QueryParam("city")),
		Search: strings.TrimSpace(c.QueryParam("search")),
	}

	for _, raw := range strings.Split(c.QueryParam("categories"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid category id")
		}
		filter.CategoryIDs = append(filter.CategoryIDs, id)
	}

	if raw := strings.TrimSpace(c.QueryParam("avg_price")); raw != "" {
		price, err := domain.ParsePriceRange(raw)
		if err != nil {
			return filter, err
		}
		filter.AvgPrice = &price
	}

	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filter.Offset, _ = strconv.Atoi(c.QueryParam("offset"))
	return filter, nil
}
