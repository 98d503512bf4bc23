package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Resolver maps an opaque slug to the owning principal's public handle.
type Resolver interface {
	Resolve(ctx context.Context, slug string) (string, error)
}

// LinkHandler serves the public link-resolution endpoint visitors hit when
// they open a shared link.
type LinkHandler struct {
	svc    Resolver
	logger *zap.Logger
}

func NewLinkHandler(svc Resolver, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{svc: svc, logger: logger}
}

// Resolve handles GET /v1/links/:slug
//
// Anyone holding the link may resolve it; only the username is exposed.
func (h *LinkHandler) Resolve(c *gin.Context) {
	username, err := h.svc.Resolve(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username})
}
