package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/basbook/internal/ledger"
	"github.com/cleared-dev/basbook/internal/model"
	"github.com/cleared-dev/basbook/internal/period"
	"github.com/cleared-dev/basbook/internal/report"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

func newTransactionsCommand(configPath *string) *cobra.Command {
	var src sourceFlags
	var sel selectorFlags
	var format string

	cmd := &cobra.Command{
		Use:   "transactions [file.csv]",
		Short: "List the normalized transactions in a period",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatTable, formatCSV, formatJSON:
			default:
				return fmt.Errorf("unknown format %q (want table, csv or json)", format)
			}

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

			out := cmd.OutOrStdout()
			switch format {
			case formatCSV:
				return ledger.WriteTransactions(out, rep.Transactions)
			case formatJSON:
				return writeTransactionsJSON(out, rep.Transactions)
			}
			return writeTransactionsTable(out, rep.Transactions)
		},
	}

	src.register(cmd)
	sel.register(cmd)
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, csv or json")

	return cmd
}

type transactionJSON struct {
	Date          *string         `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Category      model.Category  `json:"category"`
	GST           decimal.Decimal `json:"gst"`
	FinancialYear int             `json:"financial_year,omitempty"`
}

func writeTransactionsJSON(w io.Writer, set model.RecordSet) error {
	out := make([]transactionJSON, 0, set.Len())
	for _, t := range set.All() {
		j := transactionJSON{
			Description: t.Description,
			Amount:      t.Amount,
			Category:    t.Category,
			GST:         t.GST,
		}
		if t.Dated() {
			d := t.Date.Format("2006-01-02")
			j.Date = &d
			j.FinancialYear = period.FinancialYearOf(t.Date)
		}
		out = append(out, j)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeTransactionsTable(w io.Writer, set model.RecordSet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tPERIOD\tDESCRIPTION\tCATEGORY\tAMOUNT\tGST")
	for _, t := range set.All() {
		date, when := "-", "-"
		if t.Dated() {
			date = t.Date.Format("2006-01-02")
			when = fmt.Sprintf("FY%d %s", period.FinancialYearOf(t.Date), period.QuarterOf(t.Date))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			date, when, t.Description, t.Category, t.Amount.StringFixed(2), t.GST.StringFixed(2))
	}
	return tw.Flush()
}
