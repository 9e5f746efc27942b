package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/logger"
	"marketplace/models"
	"marketplace/web"
)

const cookieName = "test_session"

type fakeResolver struct {
	users map[string]*models.User
	err   error
}

func (f *fakeResolver) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[token]
	if !ok {
		return nil, models.ErrSessionInvalid
	}
	return user, nil
}

func newEngine(t *testing.T, resolver SessionResolver, chain ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	handlers := append([]gin.HandlerFunc{AuthMiddleware(resolver, cookieName, logger.Nop())}, chain...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).ID.String())
	})
	r.GET("/:userId/page", handlers...)
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	seller := &models.User{ID: uuid.New(), Category: models.CategorySeller}
	resolver := &fakeResolver{users: map[string]*models.User{"good": seller}}
	r := newEngine(t, resolver)

	t.Run("no cookie redirects to login", func(t *testing.T) {
		w := get(r, "/"+seller.ID.String()+"/page", "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("invalid session redirects and clears cookie", func(t *testing.T) {
		w := get(r, "/"+seller.ID.String()+"/page", "stale")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Contains(t, w.Header().Get("Set-Cookie"), cookieName+"=;")
	})

	t.Run("valid session passes", func(t *testing.T) {
		w := get(r, "/"+seller.ID.String()+"/page", "good")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, seller.ID.String(), w.Body.String())
	})
}

func TestAuthMiddleware_StoreFailure(t *testing.T) {
	r := newEngine(t, &fakeResolver{err: errors.New("redis down")})

	w := get(r, "/x/page", "any")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireOwner(t *testing.T) {
	alice := &models.User{ID: uuid.New(), Category: models.CategoryCustomer}
	bob := &models.User{ID: uuid.New(), Category: models.CategoryCustomer}
	resolver := &fakeResolver{users: map[string]*models.User{"alice": alice, "bob": bob}}
	r := newEngine(t, resolver, RequireOwner())

	assert.Equal(t, http.StatusOK, get(r, "/"+alice.ID.String()+"/page", "alice").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/"+alice.ID.String()+"/page", "bob").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/not-a-uuid/page", "bob").Code)
}

func TestRequireCategory(t *testing.T) {
	seller := &models.User{ID: uuid.New(), Category: models.CategorySeller}
	customer := &models.User{ID: uuid.New(), Category: models.CategoryCustomer}
	fresh := &models.User{ID: uuid.New()}
	resolver := &fakeResolver{users: map[string]*models.User{
		"seller":   seller,
		"customer": customer,
		"fresh":    fresh,
	}}
	r := newEngine(t, resolver, RequireOwner(), RequireCategory(models.CategorySeller))

	assert.Equal(t, http.StatusOK, get(r, "/"+seller.ID.String()+"/page", "seller").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/"+customer.ID.String()+"/page", "customer").Code)

	w := get(r, "/"+fresh.ID.String()+"/page", "fresh")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/"+fresh.ID.String()+"/profile", w.Header().Get("Location"))
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	r := gin.New()
	r.Use(RequestLogger(logger.NewWithWriter(&buf, 0)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	get(r, "/ok", "")
	assert.Contains(t, buf.String(), "path=/ok")
	assert.Contains(t, buf.String(), "status=204")

	buf.Reset()
	get(r, "/fail", "")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "boom")
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware("https://shop.example.com"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
