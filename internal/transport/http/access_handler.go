package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fornecelist/backend/internal/service"
	"github.com/fornecelist/backend/internal/util"
)

type AccessHandler struct {
	gate *service.AccessGateService
}

func RegisterAccess(e *echo.Echo, auth *service.AuthService, gate *service.AccessGateService) {
	if gate == nil {
		return
	}
	handler := &AccessHandler{gate: gate}

	group := e.Group("/api/v1/access", OptionalAuth(auth))
	group.GET("/:feature", handler.check)
}

// check exposes the gate decision itself so clients can render locked
// states without fetching the feature's entities first.
func (h *AccessHandler) check(c echo.Context) error {
	user, _ := CurrentUser(c)

	feature := strings.TrimSpace(c.Param("feature"))
	if feature == "" {
		return c.JSON(http.StatusBadRequest, util.Error("feature key is required"))
	}

	decision := h.gate.CheckAccess(c.Request().Context(), service.CurrentUserID(user), feature)
	return c.JSON(http.StatusOK, util.Envelope{"decision": decision})
}
