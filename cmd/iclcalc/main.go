// Command iclcalc computes a loan interest ledger from a transactions CSV,
// entirely offline: no database, no server.
//
//	iclcalc compute --start 2023-04-01 --rate 12 --tds 10 \
//	    --method compound --as-of 2023-07-01 transactions.csv
//
// The transactions file uses the header "date,amount_paid,amount_repaid".
// Output is a table by default, or CSV with --format csv.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/interest-engine/accrual"
	"github.com/warp/interest-engine/icl"
)

// timeNow is a seam for tests.
var timeNow = time.Now

func main() {
	rootCmd := &cobra.Command{
		Use:   "iclcalc",
		Short: "Interest ledger calculator for interest-bearing credit lines",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newComputeCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newComputeCommand() *cobra.Command {
	var (
		startStr  string
		endStr    string
		rateStr   string
		tdsStr    string
		methodStr string
		asOfStr   string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "compute <transactions.csv>",
		Short: "Compute the full ledger for one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, err := buildTerms(startStr, endStr, rateStr, tdsStr, methodStr)
			if err != nil {
				return err
			}

			asOf := accrual.DateOf(timeNow())
			if asOfStr != "" {
				asOf, err = accrual.ParseDate(asOfStr)
				if err != nil {
					return fmt.Errorf("invalid --as-of %q: want YYYY-MM-DD", asOfStr)
				}
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			txs, err := icl.ReadTransactions(f)
			if err != nil {
				return err
			}

			rows, err := accrual.Compute(terms, txs, asOf)
			if err != nil {
				return err
			}

			if format == "csv" {
				return icl.WriteLedger(cmd.OutOrStdout(), rows)
			}
			return printTable(cmd, rows)
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "account start date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&endStr, "end", "", "account end date (YYYY-MM-DD, optional)")
	cmd.Flags().StringVar(&rateStr, "rate", "0", "annual interest rate in percent")
	cmd.Flags().StringVar(&tdsStr, "tds", "0", "TDS rate in percent")
	cmd.Flags().StringVar(&methodStr, "method", "simple", "interest method: simple or compound")
	cmd.Flags().StringVar(&asOfStr, "as-of", "", "current date for open accounts (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table or csv")
	cobra.CheckErr(cmd.MarkFlagRequired("start"))

	return cmd
}

func buildTerms(startStr, endStr, rateStr, tdsStr, methodStr string) (accrual.AccountTerms, error) {
	start, err := accrual.ParseDate(startStr)
	if err != nil {
		return accrual.AccountTerms{}, fmt.Errorf("invalid --start %q: want YYYY-MM-DD", startStr)
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return accrual.AccountTerms{}, fmt.Errorf("invalid --rate %q", rateStr)
	}
	tds, err := decimal.NewFromString(tdsStr)
	if err != nil {
		return accrual.AccountTerms{}, fmt.Errorf("invalid --tds %q", tdsStr)
	}

	terms := accrual.AccountTerms{
		StartDate:  start,
		AnnualRate: rate,
		TDSRate:    tds,
		Method:     accrual.InterestMethod(methodStr),
	}
	if endStr != "" {
		end, err := accrual.ParseDate(endStr)
		if err != nil {
			return accrual.AccountTerms{}, fmt.Errorf("invalid --end %q: want YYYY-MM-DD", endStr)
		}
		terms.EndDate = &end
	}
	return terms, terms.Validate()
}

func printTable(cmd *cobra.Command, rows []accrual.LedgerRow) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tKIND\tPAID\tREPAID\tPRINCIPAL\tGROSS\tTDS\tNET\tCUM NET\tDAYS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			r.Date, r.Kind,
			r.AmountPaid.StringFixed(2), r.AmountRepaid.StringFixed(2),
			r.Principal.StringFixed(2),
			r.GrossInterest.StringFixed(2), r.TDS.StringFixed(2), r.NetInterest.StringFixed(2),
			r.CumulativeNetInterest.StringFixed(2),
			r.DaysInPeriod)
		for _, w := range r.Warnings {
			fmt.Fprintf(tw, "\t! %s\t\t\t\t\t\t\t\t\n", w.Message)
		}
	}
	return tw.Flush()
}
