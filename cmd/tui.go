// Package cmd command line
package cmd

import (
	"context"
	"fmt"
	"os"

	errors "github.com/Laisky/errors/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Laisky/searchhub/cmd/tui"
	"github.com/Laisky/searchhub/internal/global"
	"github.com/Laisky/searchhub/internal/hub"
	"github.com/Laisky/searchhub/library/log"
)

var tuiCMD = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI",
	Long: `Launch the searchhub Terminal User Interface.

The TUI has four tabs:
  • Search    web search with "I'm Feeling Lucky"
  • News      searches "<query> news"
  • Images    searches "<query> images"
  • Settings  safe search, results per page and search history

Example:
  searchhub tui

Keyboard shortcuts:
  Tab / Shift+Tab  Switch tabs
  Enter            Search
  Ctrl+L           I'm Feeling Lucky
  ↑/↓              Recall recent searches
  Esc              Quit`,
	Args: gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTUI(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCMD.AddCommand(tuiCMD)
}

// runTUI starts the interactive Terminal User Interface and returns any start/run error.
func runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// console logs would tear the alternate screen
	if err := log.Logger.ChangeLevel(glog.Level("error")); err != nil {
		return errors.Wrap(err, "change log level")
	}

	adapter, err := global.NewAdapter()
	if err != nil {
		return errors.Wrap(err, "new search adapter")
	}
	h, err := hub.New(adapter)
	if err != nil {
		return errors.Wrap(err, "new hub")
	}

	p := tea.NewProgram(
		tui.NewModel(ctx, h),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	return errors.WithStack(err)
}
