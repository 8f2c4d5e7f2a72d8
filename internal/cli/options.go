package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/confdoc/internal/collection"
	"github.com/mvp-joe/confdoc/internal/storage"
)

var optionsJSONFlag bool

// optionsCmd represents the options command
var optionsCmd = &cobra.Command{
	Use:   "options <Rule>",
	Short: "Show the options of a rule from the last recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDir, err := projectRoot()
		if err != nil {
			return err
		}
		return runOptions(cmd.Context(), rootDir, dbFlag, args[0], optionsJSONFlag, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	optionsCmd.Flags().BoolVar(&optionsJSONFlag, "json", false, "Output as JSON")
	optionsCmd.Flags().StringVar(&dbFlag, "db", "", "History database path (overrides storage.path)")
}

func runOptions(ctx context.Context, rootDir, dbPath, rule string, asJSON bool, out io.Writer) error {
	cfg, err := loadProject(ctx, rootDir)
	if err != nil {
		return err
	}
	if dbPath == "" {
		dbPath = cfg.Storage.Path
	}
	if dbPath == "" {
		return fmt.Errorf("no history database configured (set storage.path or --db)")
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	reader := storage.NewReader(db)
	run, err := reader.LatestRun(ctx)
	if err != nil {
		return err
	}
	opts, err := reader.Options(ctx, run.ID, rule)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(opts)
	}

	fmt.Fprintf(out, "%s (recorded %s", rule, run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if run.Branch != "" {
		fmt.Fprintf(out, " on %s@%s", run.Branch, run.Commit)
	}
	fmt.Fprintln(out, ")")

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPTION\tDEFAULT\tDESCRIPTION")
	for _, opt := range opts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", opt.Name, describeDefault(opt), describeOption(opt))
	}
	return tw.Flush()
}

func describeDefault(opt collection.Option) string {
	value := opt.DefaultValue.PlainString()
	if opt.DefaultPlatformValue != nil {
		value += " (android: " + opt.DefaultPlatformValue.PlainString() + ")"
	}
	return value
}

func describeOption(opt collection.Option) string {
	if opt.IsDeprecated() {
		return fmt.Sprintf("%s [deprecated: %s]", opt.Description, *opt.Deprecated)
	}
	return opt.Description
}
