package website

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestRouter() (*Router, *RouteBuilder) {
	router := &Router{}
	rb := &RouteBuilder{Router: router}
	return router, rb
}

func TestRouterMatching(t *testing.T) {
	router, rb := newTestRouter()
	rb.GET(regexp.MustCompile(`^/thread/(?P<threadid>\d+)$`), func(c *RequestContext) ResponseData {
		id, ok := c.PathParamInt("threadid")
		assert.True(t, ok)
		assert.Equal(t, 42, id)

		var res ResponseData
		res.WriteJson(map[string]any{"id": id}, nil)
		return res
	})
	rb.AnyMethod(regexp.MustCompile(`^/`), FourOhFour)

	t.Run("match with path param", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/thread/42", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "42")
	})

	t.Run("trailing slashes are ignored", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/thread/42/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("HEAD routes like GET but sends no body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/thread/42", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, rec.Body.Len())
	})

	t.Run("wrong method falls through to the wildcard", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/thread/42", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown path is a 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouterRequiresAnchoredRegexes(t *testing.T) {
	_, rb := newTestRouter()
	assert.Panics(t, func() {
		rb.GET(regexp.MustCompile(`/unanchored`), func(c *RequestContext) ResponseData {
			return ResponseData{}
		})
	})
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(h Handler) Handler {
			return func(c *RequestContext) ResponseData {
				order = append(order, name)
				return h(c)
			}
		}
	}

	router, rb := newTestRouter()
	wrapped := rb.WithMiddleware(mw("outer"), mw("inner"))
	wrapped.GET(regexp.MustCompile(`^/$`), func(c *RequestContext) ResponseData {
		order = append(order, "handler")
		var res ResponseData
		res.WriteJson(map[string]any{"ok": true}, nil)
		return res
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestPanicCatcher(t *testing.T) {
	router, rb := newTestRouter()
	wrapped := rb.WithMiddleware(panicCatcherMiddleware)
	wrapped.GET(regexp.MustCompile(`^/boom$`), func(c *RequestContext) ResponseData {
		panic("oh no")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
