// Package log is a logging package that provides functions to log messages.
package log

import (
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
)

// Logger writes console logs to stderr, stdout belongs to command output.
var Logger logSDK.Logger

func init() {
	var err error
	if Logger, err = logSDK.New(
		logSDK.WithName("searchhub"),
		logSDK.WithEncoding(logSDK.EncodingConsole),
		logSDK.WithLevel(logSDK.LevelInfo),
		logSDK.WithOutputPaths([]string{"stderr"}),
	); err != nil {
		logSDK.Shared.Panic("new logger", zap.Error(err))
	}
}
