package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/searchhub/internal/global"
	"github.com/Laisky/searchhub/internal/hub"
	"github.com/Laisky/searchhub/internal/session"
	"github.com/Laisky/searchhub/library/log"
	"github.com/Laisky/searchhub/library/search"
)

var searchCMD = &cobra.Command{
	Use:   "search <query...>",
	Short: "run one search and print the results",
	Long: `Run one search against DuckDuckGo and print the numbered results.

Example:
  searchhub search golang generics
  searchhub search --variant news --json election`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PreRun: func(cmd *cobra.Command, args []string) {
		// keep stderr down to the notice
		if !cmd.Flags().Changed("log-level") {
			gconfig.Shared.Set("log-level", "error")
		}

		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runSearch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), strings.Join(args, " "))
		if err == nil {
			return nil
		}

		if !errors.Is(err, errNothingSearched) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return &exitError{code: 1, err: err}
	},
}

// errNothingSearched means the query was rejected before reaching the engine.
// The reason is the notice already printed.
var errNothingSearched = errors.New("nothing searched")

func init() {
	searchCMD.Flags().String("variant", string(search.VariantWeb), "`web/news/images`")
	searchCMD.Flags().Bool("lucky", false, "only print the first result")
	searchCMD.Flags().Bool("json", false, "print the raw response as JSON")
	searchCMD.Flags().IntP("results-per-page", "n", session.DefaultResultsPerPage,
		fmt.Sprintf("results to print, %d to %d", session.MinResultsPerPage, session.MaxResultsPerPage))
	rootCMD.AddCommand(searchCMD)
}

func runSearch(ctx context.Context, stdout, stderr io.Writer, query string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	variant, err := search.ParseVariant(gconfig.Shared.GetString("variant"))
	if err != nil {
		return errors.WithStack(err)
	}

	adapter, err := global.NewAdapter()
	if err != nil {
		return errors.Wrap(err, "new search adapter")
	}
	h, err := hub.New(adapter)
	if err != nil {
		return errors.Wrap(err, "new hub")
	}

	st := session.NewState(session.NewID())
	if _, err := h.UpdateSettings(st, string(st.Settings.SafeSearch),
		gconfig.Shared.GetInt("results-per-page")); err != nil {
		return errors.Wrap(err, "results per page")
	}

	out := h.Submit(ctx, st, hub.Request{
		Query:   query,
		Variant: variant,
		Lucky:   gconfig.Shared.GetBool("lucky"),
	})
	return printOutcome(stdout, stderr, out, gconfig.Shared.GetBool("json"))
}

// printOutcome writes results to stdout and the notice to stderr.
// A transport failure is only a notice. errNothingSearched is returned when
// the query never reached the engine.
func printOutcome(stdout, stderr io.Writer, out *hub.Outcome, asJSON bool) error {
	if out.Notice != nil {
		fmt.Fprintln(stderr, out.Notice.Message)
	}
	if !out.Searched() {
		return errNothingSearched
	}
	if out.Response.Failed() {
		return nil
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return errors.WithStack(enc.Encode(&search.Response{
			Query:     out.SentQuery,
			CreatedAt: out.Response.CreatedAt,
			Results:   out.Results,
		}))
	}

	if out.Request.Lucky && len(out.Results) > 0 {
		fmt.Fprintf(stdout, "Lucky Pick! %s\n   %s\n", out.Results[0].Title, out.Results[0].Link)
		return nil
	}
	for i, r := range out.Results {
		fmt.Fprintf(stdout, "%d. %s\n   %s\n", i+1, r.Title, r.Link)
	}
	return nil
}
