package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/zac-t-smith/restoration-intel/service"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print payment recommendations for a tenant",
		Long: `Allocate available cash across a tenant's unpaid expenses and print the
result. Without --cash the tenant's latest recorded balance is used.`,
		RunE: runRecommend,
	}
	cmd.Flags().String("tenant", "", "tenant whose ledger to read (required)")
	cmd.Flags().String("cash", "", "available cash; defaults to the latest recorded balance")
	cmd.Flags().Int("days", 0, "forecast horizon in days")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	tenant, _ := cmd.Flags().GetString("tenant")
	cashFlag, _ := cmd.Flags().GetString("cash")
	days, _ := cmd.Flags().GetInt("days")

	req := service.RecommendRequest{DaysForecast: days}
	if cashFlag != "" {
		cash, err := decimal.NewFromString(cashFlag)
		if err != nil {
			return fmt.Errorf("invalid --cash %q: %w", cashFlag, err)
		}
		req.AvailableCash = &cash
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.services.Payables.Recommend(cmd.Context(), tenant, req)
	if err != nil {
		return err
	}
	return printReport(cmd.OutOrStdout(), report)
}

func printReport(out io.Writer, report *service.Report) error {
	titleStyle := lipgloss.NewStyle().Bold(true)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

	s := report.Summary
	fmt.Fprintln(out, titleStyle.Render("Payment recommendations as of "+report.AsOf))
	fmt.Fprintf(out, "Available %s  Pending %s  Recommended %s  Remaining %s  Coverage %.1f%%\n\n",
		s.AvailableCash.StringFixed(2),
		s.TotalPending.StringFixed(2),
		s.TotalRecommended.StringFixed(2),
		s.RemainingCash.StringFixed(2),
		s.CashCoverageRatio*100,
	)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	headers := []string{"ID", "Vendor", "Due", "Amount", "Class", "Status", "Pay", "Score", "Rationale"}
	for i, h := range headers {
		headers[i] = headerStyle.Render(h)
	}
	if _, err := fmt.Fprintln(w, strings.Join(headers, "\t")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range report.Recommendations {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.0f\t%s\n",
			r.ObligationID,
			r.Vendor,
			r.DueDate,
			r.Amount.StringFixed(2),
			r.Classification,
			r.PaymentStatus,
			r.PaymentAmount.StringFixed(2),
			r.PriorityScore,
			r.Rationale,
		); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, skip := range report.Skipped {
		fmt.Fprintf(out, "skipped %s: %s\n", skip.ObligationID, skip.Reason)
	}
	return nil
}
