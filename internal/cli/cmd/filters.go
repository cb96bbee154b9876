package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/wayfinder/internal/cli"
	"github.com/bnema/wayfinder/internal/infrastructure/filtering"
	"github.com/bnema/wayfinder/internal/logging"
)

var (
	checkFirstParty string
	checkType       string
	checkRefresh    bool
	checkJSON       bool

	filtersJSON bool
)

var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Decide whether a request would be blocked",
	Long: `Evaluate one request against the cached filter lists.

Examples:
  wayfinder check https://ads.example.net/x.js --first-party https://example.com/
  wayfinder check https://phish.test/ --type mainFrame --refresh`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Inspect and refresh the filter lists",
}

var filtersStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every filter list and its state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withFilters(false, func(a *cli.App, f *cli.FilterStack) error {
			return renderStatuses(cmd.OutOrStdout(), a, f.Manager.Statuses(), filtersJSON)
		})
	},
}

var filtersRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download every enabled filter list now",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withFilters(true, func(a *cli.App, f *cli.FilterStack) error {
			return renderStatuses(cmd.OutOrStdout(), a, f.Manager.Statuses(), filtersJSON)
		})
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage custom filter rules",
}

var rulesSetCmd = &cobra.Command{
	Use:   "set [file]",
	Short: "Replace the custom rules with the contents of file (or stdin)",
	Long: `Replace the custom rule list, one rule per line, and save it to config.toml.
A running 'wayfinder serve' rebuilds the custom list after a short debounce.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRulesSet,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the custom rules",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), a.Config.Adblock.CustomRules)
		return err
	},
}

func init() {
	rootCmd.AddCommand(checkCmd, filtersCmd, rulesCmd)
	filtersCmd.AddCommand(filtersStatusCmd, filtersRefreshCmd)
	rulesCmd.AddCommand(rulesSetCmd, rulesShowCmd)

	checkCmd.Flags().StringVar(&checkFirstParty, "first-party", "", "URL of the page making the request")
	checkCmd.Flags().StringVar(&checkType, "type", filtering.ResourceTypeScript, "resource type (mainFrame, subFrame, script, image, stylesheet, object, xhr, other)")
	checkCmd.Flags().BoolVar(&checkRefresh, "refresh", false, "download the lists before checking")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output as JSON")
	filtersCmd.PersistentFlags().BoolVar(&filtersJSON, "json", false, "output as JSON")
}

// withFilters initializes the filter lists from the cache, optionally
// refreshing them, runs fn and tears everything down.
func withFilters(refresh bool, fn func(*cli.App, *cli.FilterStack) error) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := a.Ctx()

	filters, err := a.NewFilterStack(nil, false)
	if err != nil {
		return err
	}
	defer filters.Close()

	if err := filters.Manager.Init(ctx); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("filter initialization incomplete")
	}
	if refresh {
		if err := filters.RefreshAll(ctx); err != nil {
			return err
		}
	}
	return fn(a, filters)
}

func runCheck(cmd *cobra.Command, args []string) error {
	firstParty := checkFirstParty
	if firstParty == "" && checkType == filtering.ResourceTypeMainFrame {
		firstParty = args[0]
	}
	if firstParty == "" {
		return fmt.Errorf("--first-party is required for sub-resource requests")
	}
	if _, ok := filtering.FilterOptionFor(checkType); !ok {
		return fmt.Errorf("unknown resource type %q", checkType)
	}

	return withFilters(checkRefresh, func(a *cli.App, f *cli.FilterStack) error {
		pipeline := filtering.NewPipeline(a.Ctx(), f.Manager, nil)
		decision := pipeline.Evaluate(filtering.RequestDetails{
			URL:           args[0],
			ResourceType:  checkType,
			FirstPartyURL: firstParty,
		})

		out := cmd.OutOrStdout()
		if checkJSON {
			return json.NewEncoder(out).Encode(decision)
		}
		_, err := fmt.Fprintf(out, "%s %s\n", a.Theme.DecisionBadge(decision), args[0])
		return err
	})
}

func renderStatuses(w io.Writer, a *cli.App, statuses []filtering.ResourceStatus, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}
	_, err := fmt.Fprintln(w, a.Theme.ResourceTable(statuses))
	return err
}

func runRulesSet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read rules: %w", err)
	}

	rules := strings.ReplaceAll(string(data), "\r\n", "\n")
	if err := a.Settings.SetCustomRules(rules); err != nil {
		return err
	}
	count := 0
	for _, line := range strings.Split(rules, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Theme.SuccessStyle.Render(fmt.Sprintf("saved %d custom rule lines", count)))
	return err
}
