package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pookiesms/pookiesms/internal/apperr"
	"github.com/pookiesms/pookiesms/internal/auth"
	"github.com/pookiesms/pookiesms/internal/middleware"
	"github.com/pookiesms/pookiesms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeService stubs the service layer with function fields, one per
// operation, so each test declares exactly the behavior it needs.
type fakeService struct {
	resolve  func(slug string) (string, error)
	register func(username string) (*models.Principal, error)
	ingest   func(slug, nickname, content string, category models.Category) (*models.Message, error)
	list     func(username string, before int64, limit int) ([]models.Message, error)
}

func (f *fakeService) Resolve(_ context.Context, slug string) (string, error) {
	return f.resolve(slug)
}

func (f *fakeService) Register(_ context.Context, username string) (*models.Principal, error) {
	return f.register(username)
}

func (f *fakeService) Ingest(_ context.Context, slug, nickname, content string, category models.Category) (*models.Message, error) {
	return f.ingest(slug, nickname, content, category)
}

func (f *fakeService) ListMessages(_ context.Context, username string, before int64, limit int) ([]models.Message, error) {
	return f.list(username, before, limit)
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doRequest(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLinkHandlerResolve(t *testing.T) {
	t.Run("bound slug returns the handle", func(t *testing.T) {
		svc := &fakeService{resolve: func(slug string) (string, error) {
			assert.Equal(t, "abc123", slug)
			return "alice", nil
		}}
		r := newRouter()
		r.GET("/v1/links/:slug", NewLinkHandler(svc, zap.NewNop()).Resolve)

		w := doRequest(r, "GET", "/v1/links/abc123", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"username":"alice"}`, w.Body.String())
	})

	t.Run("unbound slug is 404", func(t *testing.T) {
		svc := &fakeService{resolve: func(string) (string, error) {
			return "", apperr.ErrRecipientNotFound
		}}
		r := newRouter()
		r.GET("/v1/links/:slug", NewLinkHandler(svc, zap.NewNop()).Resolve)

		w := doRequest(r, "GET", "/v1/links/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("storage failure is a generic 500", func(t *testing.T) {
		svc := &fakeService{resolve: func(string) (string, error) {
			return "", apperr.ErrStorage(assert.AnError)
		}}
		r := newRouter()
		r.GET("/v1/links/:slug", NewLinkHandler(svc, zap.NewNop()).Resolve)

		w := doRequest(r, "GET", "/v1/links/abc123", "", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestMessageHandlerSend(t *testing.T) {
	t.Run("valid message is created", func(t *testing.T) {
		svc := &fakeService{ingest: func(slug, nickname, content string, category models.Category) (*models.Message, error) {
			assert.Equal(t, "abc123", slug)
			return &models.Message{
				ID:          1,
				PrincipalID: uuid.New(),
				Nickname:    nickname,
				Content:     content,
				Category:    category,
				SentAt:      time.Now(),
			}, nil
		}}
		r := newRouter()
		r.POST("/v1/links/:slug/messages", NewMessageHandler(svc, zap.NewNop()).Send)

		w := doRequest(r, "POST", "/v1/links/abc123/messages",
			`{"nickname":"bob","content":"hi","category":"fun"}`, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var msg models.Message
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
		assert.Equal(t, "hi", msg.Content)
		assert.Equal(t, models.CategoryFun, msg.Category)
	})

	t.Run("missing content fails binding", func(t *testing.T) {
		svc := &fakeService{ingest: func(string, string, string, models.Category) (*models.Message, error) {
			t.Fatal("service must not be called")
			return nil, nil
		}}
		r := newRouter()
		r.POST("/v1/links/:slug/messages", NewMessageHandler(svc, zap.NewNop()).Send)

		w := doRequest(r, "POST", "/v1/links/abc123/messages",
			`{"nickname":"bob","category":"fun"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid category is 400", func(t *testing.T) {
		svc := &fakeService{ingest: func(string, string, string, models.Category) (*models.Message, error) {
			return nil, apperr.ErrInvalidCategory
		}}
		r := newRouter()
		r.POST("/v1/links/:slug/messages", NewMessageHandler(svc, zap.NewNop()).Send)

		w := doRequest(r, "POST", "/v1/links/abc123/messages",
			`{"content":"hi","category":"gossip"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unbound slug is 404", func(t *testing.T) {
		svc := &fakeService{ingest: func(string, string, string, models.Category) (*models.Message, error) {
			return nil, apperr.ErrRecipientNotFound
		}}
		r := newRouter()
		r.POST("/v1/links/:slug/messages", NewMessageHandler(svc, zap.NewNop()).Send)

		w := doRequest(r, "POST", "/v1/links/nope/messages",
			`{"content":"hi","category":"fun"}`, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMessageHandlerList(t *testing.T) {
	t.Run("missing username is 400", func(t *testing.T) {
		svc := &fakeService{}
		r := newRouter()
		r.GET("/v1/messages", NewMessageHandler(svc, zap.NewNop()).List)

		w := doRequest(r, "GET", "/v1/messages", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("defaults and cursor params reach the service", func(t *testing.T) {
		svc := &fakeService{list: func(username string, before int64, limit int) ([]models.Message, error) {
			assert.Equal(t, "alice", username)
			assert.Equal(t, int64(42), before)
			assert.Equal(t, 10, limit)
			return []models.Message{}, nil
		}}
		r := newRouter()
		r.GET("/v1/messages", NewMessageHandler(svc, zap.NewNop()).List)

		w := doRequest(r, "GET", "/v1/messages?username=alice&before=42&limit=10", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("limit is capped at 100", func(t *testing.T) {
		svc := &fakeService{list: func(_ string, _ int64, limit int) ([]models.Message, error) {
			assert.Equal(t, 100, limit)
			return []models.Message{}, nil
		}}
		r := newRouter()
		r.GET("/v1/messages", NewMessageHandler(svc, zap.NewNop()).List)

		w := doRequest(r, "GET", "/v1/messages?username=alice&limit=999", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid before is 400", func(t *testing.T) {
		svc := &fakeService{}
		r := newRouter()
		r.GET("/v1/messages", NewMessageHandler(svc, zap.NewNop()).List)

		w := doRequest(r, "GET", "/v1/messages?username=alice&before=xyz", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown recipient is 404", func(t *testing.T) {
		svc := &fakeService{list: func(string, int64, int) ([]models.Message, error) {
			return nil, apperr.ErrRecipientNotFound
		}}
		r := newRouter()
		r.GET("/v1/messages", NewMessageHandler(svc, zap.NewNop()).List)

		w := doRequest(r, "GET", "/v1/messages?username=nobody", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRegisterHandler(t *testing.T) {
	const secret = "test-secret"
	provider := auth.NewTokenProvider(secret)

	authedRouter := func(svc Registrar) *gin.Engine {
		r := newRouter()
		g := r.Group("/v1")
		g.Use(middleware.AuthMiddleware(provider))
		g.POST("/register", NewRegisterHandler(svc, zap.NewNop()).Register)
		return r
	}

	t.Run("signed-in principal registers and gets a slug", func(t *testing.T) {
		svc := &fakeService{register: func(username string) (*models.Principal, error) {
			assert.Equal(t, "alice", username)
			return &models.Principal{
				ID:        uuid.New(),
				Username:  username,
				Slug:      "fresh-slug",
				CreatedAt: time.Now(),
			}, nil
		}}

		token, err := auth.GenerateToken("alice", secret, time.Hour)
		require.NoError(t, err)

		w := doRequest(authedRouter(svc), "POST", "/v1/register", "",
			map[string]string{"Authorization": "Bearer " + token})
		require.Equal(t, http.StatusCreated, w.Code)

		var p models.Principal
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, "fresh-slug", p.Slug)
	})

	t.Run("duplicate handle is 409", func(t *testing.T) {
		svc := &fakeService{register: func(string) (*models.Principal, error) {
			return nil, apperr.ErrUsernameTaken
		}}

		token, err := auth.GenerateToken("alice", secret, time.Hour)
		require.NoError(t, err)

		w := doRequest(authedRouter(svc), "POST", "/v1/register", "",
			map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("no token is 401 and the handler never runs", func(t *testing.T) {
		svc := &fakeService{register: func(string) (*models.Principal, error) {
			t.Fatal("handler must not run without a principal")
			return nil, nil
		}}

		w := doRequest(authedRouter(svc), "POST", "/v1/register", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
