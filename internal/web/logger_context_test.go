// Package web tests context-aware logger usage in handlers.
package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	gmw "github.com/Laisky/gin-middlewares/v7"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/searchhub/internal/hub"
	"github.com/Laisky/searchhub/internal/session"
)

func newLoggerTestFrontend(t *testing.T) *Frontend {
	t.Helper()
	h, err := hub.New(&recordingSearcher{results: threeResults()})
	require.NoError(t, err)

	frontend, err := NewFrontend(h, session.NewMemoryStore(0))
	require.NoError(t, err)
	return frontend
}

func TestFrontendLoggerInGinHandler(t *testing.T) {
	setupGinTestMode()
	t.Parallel()

	frontend := newLoggerTestFrontend(t)
	router := gin.New()
	router.Use(gmw.NewLoggerMiddleware(
		gmw.WithLogger(logSDK.Shared.Named("test_frontend_logger")),
	))

	var (
		loggerNotNil  bool
		ctxHasLogger  bool
		stdCtxWorking bool
	)
	router.GET("/test/:q", func(c *gin.Context) {
		logger := frontend.logger(c).With(zap.String("query", c.Param("q")))
		loggerNotNil = logger != nil
		logger.Debug("handling search")

		_, ctxHasLogger = gmw.GetGinCtxFromStdCtx(c)

		// service layers only get a context.Context
		if l := gmw.GetLogger(context.Context(c)); l != nil {
			l.Debug("service layer log")
			stdCtxWorking = true
		}

		c.JSON(http.StatusOK, gin.H{"q": c.Param("q")})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test/golang", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "golang")
	require.True(t, loggerNotNil)
	require.True(t, ctxHasLogger, "gin context should be reachable from std context")
	require.True(t, stdCtxWorking)
}

func TestFrontendLoggerWithoutMiddleware(t *testing.T) {
	setupGinTestMode()
	t.Parallel()

	frontend := newLoggerTestFrontend(t)
	router := gin.New()

	var called bool
	router.GET("/test", func(c *gin.Context) {
		logger := frontend.logger(c)
		require.NotNil(t, logger)
		logger.Debug("fallback logger test")
		called = true
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusNoContent, w.Code)
	require.True(t, called)
}

func TestLoggerFallbackWhenNoGinContext(t *testing.T) {
	t.Parallel()

	logger := gmw.GetLogger(context.Background())
	require.NotNil(t, logger, "logger should have a fallback when no gin context")
	logger.Debug("fallback logger test")
}
