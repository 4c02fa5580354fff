// Package web gin server
package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/searchhub/library/log"
)

// EngineOption customises NewEngine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	mcpHandler     http.Handler
	allowedOrigins []string
}

// WithMCPHandler mounts an MCP transport at /mcp.
func WithMCPHandler(h http.Handler) EngineOption {
	return func(o *engineOptions) {
		o.mcpHandler = h
	}
}

// WithAllowedOrigins lets browsers on these hosts, and their subdomains, call /api.
func WithAllowedOrigins(hosts []string) EngineOption {
	return func(o *engineOptions) {
		for _, host := range hosts {
			if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
				o.allowedOrigins = append(o.allowedOrigins, host)
			}
		}
	}
}

// NewEngine builds the gin engine serving the frontend.
func NewEngine(frontend *Frontend, opts ...EngineOption) (*gin.Engine, error) {
	if frontend == nil {
		return nil, errors.New("frontend is required")
	}

	o := &engineOptions{}
	for _, opt := range opts {
		opt(o)
	}

	server := gin.New()
	server.Use(
		gin.Recovery(),
		gmw.NewLoggerMiddleware(
			gmw.WithLogger(log.Logger.Named("gin")),
		),
	)

	server.Any("/health", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world")
	})

	if err := frontend.Register(server, newCORSMiddleware(o.allowedOrigins)); err != nil {
		return nil, errors.Wrap(err, "register frontend")
	}

	if o.mcpHandler != nil {
		server.Any("/mcp", gin.WrapH(o.mcpHandler))
	}

	return server, nil
}

// RunServer serves engine on addr until ctx is done, then shuts down gracefully.
func RunServer(ctx context.Context, addr string, engine http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var pool errgroup.Group
	pool.Go(func() error {
		log.Logger.Info("listening on http", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server exit")
		}
		return nil
	})
	pool.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		log.Logger.Info("shutting down http server")
		return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown http server")
	})

	return pool.Wait()
}

// newCORSMiddleware allows cross-origin calls from allowedHosts and their subdomains.
func newCORSMiddleware(allowedHosts []string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		allowedOrigin := ""

		if origin != "" {
			parsedOriginURL, err := url.Parse(origin)
			if err == nil {
				host := strings.ToLower(parsedOriginURL.Hostname())
				for _, allowed := range allowedHosts {
					if host == allowed || strings.HasSuffix(host, "."+allowed) {
						allowedOrigin = origin
						break
					}
				}
			}
		}

		if allowedOrigin != "" {
			ctx.Header("Access-Control-Allow-Origin", allowedOrigin)
			ctx.Header("Access-Control-Allow-Credentials", "true")
			ctx.Header("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
			ctx.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
			ctx.Header("Access-Control-Max-Age", "86400") // 24 hours
			ctx.Header("Vary", "Origin")

			if ctx.Request.Method == http.MethodOptions {
				ctx.AbortWithStatus(http.StatusNoContent)
				return
			}
		} else if origin != "" && ctx.Request.Method == http.MethodOptions {
			// preflight from an origin we do not know
			ctx.AbortWithStatus(http.StatusForbidden)
			return
		}

		ctx.Next()
	}
}
