package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fornecelist/backend/internal/service"
	"github.com/fornecelist/backend/internal/util"
)

type ArticleHandler struct {
	service *service.ArticleService
}

func RegisterArticles(e *echo.Echo, auth *service.AuthService, svc *service.ArticleService, enabled bool) {
	if !enabled || svc == nil {
		return
	}
	handler := &ArticleHandler{service: svc}

	group := e.Group("/api/v1/articles", OptionalAuth(auth))
	group.GET("", handler.list)
	group.GET("/:slug", handler.getBySlug)
}

func (h *ArticleHandler) list(c echo.Context) error {
	user, _ := CurrentUser(c)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	articles, decision, err := h.service.ListPublished(c.Request().Context(), service.CurrentUserID(user), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not list articles"))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"articles": articles,
		"access":   decision.Access,
	})
}

func (h *ArticleHandler) getBySlug(c echo.Context) error {
	user, _ := CurrentUser(c)

	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		return c.JSON(http.StatusBadRequest, util.Error("article slug is required"))
	}
	article, err := h.service.GetBySlug(c.Request().Context(), service.CurrentUserID(user), slug)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error("article not found"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"article": article})
}
