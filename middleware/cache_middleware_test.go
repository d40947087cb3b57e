package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/service/cache/provider/primitive"
)

type cacheMiddlewareSuite struct {
	suite.Suite
}

func (s *cacheMiddlewareSuite) SetupSuite() {
	SetupCache(primitive.NewPrimitive("httpCacheMiddlewareTest", 1))
}

func TestCacheMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(cacheMiddlewareSuite))
}

func (s *cacheMiddlewareSuite) serve(path, body string, status int) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h := func(c echo.Context) error {
		return c.String(status, body)
	}

	c := e.NewContext(req, rec)
	c.Set("ctx", ctx.WithValue(ctx.Background(), "requestID", "test"))
	s.Require().NoError(CacheHttp(30 * time.Second)(h)(c))
	return rec
}

func (s *cacheMiddlewareSuite) TestCacheMiddleware() {
	rec := s.serve("/latest?b=2&a=1", "Hello, World", http.StatusOK)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Hello, World", rec.Body.String())

	// same query in another order hits the cache
	rec = s.serve("/latest?a=1&b=2", "Hello, again", http.StatusOK)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Hello, World", rec.Body.String())
}

func (s *cacheMiddlewareSuite) TestErrorsAreNotCached() {
	rec := s.serve("/missing", "nope", http.StatusNotFound)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.serve("/missing", "found", http.StatusOK)
	s.Equal("found", rec.Body.String())
}
