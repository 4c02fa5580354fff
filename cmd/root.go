package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/searchhub/library/config"
	"github.com/Laisky/searchhub/library/log"
)

var rootCMD = &cobra.Command{
	Use:   "searchhub",
	Short: "searchhub",
	Long:  `privacy-focused web search front end powered by DuckDuckGo`,
	Args:  gcmd.NoExtraArgs,
}

func initialize(ctx context.Context, cmd *cobra.Command) error {
	if err := gconfig.Shared.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind pflags")
	}

	setupSettings(ctx, cmd.ErrOrStderr())
	setupLogger(ctx)

	if err := validateStartupConfig(); err != nil {
		return errors.Wrap(err, "validate config")
	}

	return nil
}

// setupSettings writes the run mode to w, which is stderr so stdout stays
// clean for command output.
func setupSettings(_ context.Context, w io.Writer) {
	// mode
	if gconfig.Shared.GetBool("debug") {
		fmt.Fprintln(w, "run in debug mode")
		gconfig.Shared.Set("log-level", "debug")
	} else { // prod mode
		fmt.Fprintln(w, "run in prod mode")
	}

	// load configuration
	cfgPath := gconfig.Shared.GetString("config")
	config.LoadFromFile(cfgPath)
}

func setupLogger(_ context.Context) {
	lvl := gconfig.Shared.GetString("log-level")
	if err := log.Logger.ChangeLevel(glog.Level(lvl)); err != nil {
		log.Logger.Panic("change log level", zap.Error(err), zap.String("level", lvl))
	}
}

func init() {
	rootCMD.PersistentFlags().Bool("debug", false, "run in debug mode")
	rootCMD.PersistentFlags().String("listen", "localhost:8080", "like `localhost:8080`")
	rootCMD.PersistentFlags().StringP("config", "c", "", "config file path, empty means built-in defaults")
	rootCMD.PersistentFlags().String("log-level", "info", "`debug/info/error`")
}

// exitError ends the process with code. Its message has already been
// written to stderr by the command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Execute execute root command
func Execute() {
	if err := rootCMD.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}

		glog.Shared.Panic("start", zap.Error(err))
	}
}
