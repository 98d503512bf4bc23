package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pookiesms/pookiesms/internal/middleware"
	"github.com/pookiesms/pookiesms/internal/models"
	"go.uber.org/zap"
)

// Registrar binds a handle to a freshly issued slug.
type Registrar interface {
	Register(ctx context.Context, username string) (*models.Principal, error)
}

type RegisterHandler struct {
	svc    Registrar
	logger *zap.Logger
}

func NewRegisterHandler(svc Registrar, logger *zap.Logger) *RegisterHandler {
	return &RegisterHandler{svc: svc, logger: logger}
}

// Register handles POST /v1/register
//
// The handle comes from the signed-in principal, never from the request
// body. The slug is server-issued and returned on the created record; a
// handle that is already registered gets a conflict, its original slug
// binding is never touched.
func (h *RegisterHandler) Register(c *gin.Context) {
	username := middleware.GetUsername(c)

	p, err := h.svc.Register(c.Request.Context(), username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}
