package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/searchhub/internal/global"
	"github.com/Laisky/searchhub/internal/mcp"
	"github.com/Laisky/searchhub/internal/mcp/tools"
	"github.com/Laisky/searchhub/internal/web"
	"github.com/Laisky/searchhub/library/config"
	"github.com/Laisky/searchhub/library/log"
)

var apiCMD = &cobra.Command{
	Use:   "api",
	Short: "api",
	Long:  `serve the search pages, the JSON API and the MCP endpoint`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := runAPI(ctx); err != nil {
			log.Logger.Panic("run api", zap.Error(err))
		}
	},
}

func init() {
	rootCMD.AddCommand(apiCMD)
}

func runAPI(ctx context.Context) error {
	svcs, err := global.SetupServices(ctx)
	if err != nil {
		return errors.Wrap(err, "setup services")
	}

	frontend, err := web.NewFrontend(svcs.Hub, svcs.Sessions,
		web.WithCookieName(config.StringOr("settings.session.cookie_name", web.DefaultCookieName)),
		web.WithCookieTTL(global.SessionTTL()),
	)
	if err != nil {
		return errors.Wrap(err, "new frontend")
	}

	opts := []web.EngineOption{
		web.WithAllowedOrigins(gconfig.Shared.GetStringSlice("settings.web.allowed_origins")),
	}
	if config.BoolOr("settings.mcp.enabled", true) {
		var limiter tools.Limiter
		if svcs.Throttle != nil {
			limiter = svcs.Throttle
		}

		mcpServer, err := mcp.NewServer(svcs.Adapter, limiter, log.Logger.Named("mcp"))
		if err != nil {
			return errors.Wrap(err, "new mcp server")
		}
		opts = append(opts, web.WithMCPHandler(mcpServer.Handler()))
	}

	engine, err := web.NewEngine(frontend, opts...)
	if err != nil {
		return errors.Wrap(err, "new engine")
	}

	return web.RunServer(ctx, gconfig.Shared.GetString("listen"), engine)
}
