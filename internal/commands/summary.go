package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/basbook/internal/config"
	"github.com/cleared-dev/basbook/internal/importer"
	"github.com/cleared-dev/basbook/internal/model"
	"github.com/cleared-dev/basbook/internal/report"
)

// sourceFlags pick the input CSV(s) and the normalization variant.
type sourceFlags struct {
	dir     string
	variant string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dir, "dir", "", "read every *.csv in this directory instead of a single file")
	cmd.Flags().StringVar(&f.variant, "variant", "", "normalization variant: standard or inferred (default from config)")
}

// load parses the file named in args, or every CSV in --dir, into one
// record set. Files in a directory are concatenated in name order.
func (f *sourceFlags) load(cfg *config.Config, args []string) (model.RecordSet, error) {
	reg, err := newRegistry(cfg)
	if err != nil {
		return model.RecordSet{}, err
	}
	variant := f.variant
	if variant == "" {
		variant = cfg.Import.Variant
	}
	parser, err := reg.Lookup(variant)
	if err != nil {
		return model.RecordSet{}, err
	}

	switch {
	case len(args) == 1 && f.dir != "":
		return model.RecordSet{}, errors.New("give either a file or --dir, not both")
	case len(args) == 1:
		return importer.ParseFile(parser, args[0])
	}

	dir := f.dir
	if dir == "" {
		dir = cfg.Import.Dir
	}
	files, err := importer.Scan(dir)
	if err != nil {
		return model.RecordSet{}, err
	}
	if len(files) == 0 {
		return model.RecordSet{}, fmt.Errorf("no CSV files in %s", dir)
	}

	var all []model.Transaction
	for _, fi := range files {
		set, err := importer.ParseFile(parser, fi.Path)
		if err != nil {
			return model.RecordSet{}, err
		}
		all = append(all, set.All()...)
	}
	return model.NewRecordSet(all), nil
}

func newSummaryCommand(configPath *string) *cobra.Command {
	var src sourceFlags
	var sel selectorFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary [file.csv]",
		Short: "Summarize income, expenses and GST for a period",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			selector, err := sel.selector()
			if err != nil {
				return err
			}
			set, err := src.load(cfg, args)
			if err != nil {
				return err
			}
			rep, err := report.Build(set, selector)
			if err != nil {
				return err
			}

			if asJSON {
				return writeSummaryJSON(cmd.OutOrStdout(), rep)
			}
			return writeSummaryTable(cmd.OutOrStdout(), rep)
		},
	}

	src.register(cmd)
	sel.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	return cmd
}

type summaryJSON struct {
	Period       string        `json:"period"`
	Transactions int           `json:"transactions"`
	Summary      model.Summary `json:"summary"`
}

func writeSummaryJSON(w io.Writer, rep report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaryJSON{
		Period:       report.Label(rep.Selector),
		Transactions: rep.Transactions.Len(),
		Summary:      rep.Summary,
	})
}

func writeSummaryTable(w io.Writer, rep report.Report) error {
	s := rep.Summary
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Period\t%s\t\n", report.Label(rep.Selector))
	fmt.Fprintf(tw, "Transactions\t%d\t\n", rep.Transactions.Len())
	fmt.Fprintf(tw, "Income\t%s\t\n", s.Income.StringFixed(2))
	fmt.Fprintf(tw, "Expenses\t%s\t\n", s.Expenses.StringFixed(2))
	fmt.Fprintf(tw, "Profit/loss\t%s\t\n", s.ProfitLoss.StringFixed(2))
	fmt.Fprintf(tw, "Assets\t%s\t\n", s.Assets.StringFixed(2))
	fmt.Fprintf(tw, "Liabilities\t%s\t\n", s.Liabilities.StringFixed(2))
	fmt.Fprintf(tw, "GST collected\t%s\t\n", s.GSTCollected.StringFixed(2))
	fmt.Fprintf(tw, "GST paid\t%s\t\n", s.GSTPaid.StringFixed(2))
	fmt.Fprintf(tw, "GST net\t%s\t\n", s.GSTNet.StringFixed(2))
	return tw.Flush()
}
