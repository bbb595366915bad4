package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"ptacheck/internal/verification/handler"
)

func newVerifyCmd(root *rootOptions) *cobra.Command {
	var (
		headless   string
		maxRetries int
		fresh      bool
	)
	cmd := &cobra.Command{
		Use:   "verify <imei>",
		Short: "Verify one IMEI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(root)
			if err != nil {
				return err
			}
			q := url.Values{}
			if headless != "" {
				if _, err := strconv.ParseBool(headless); err != nil {
					return fmt.Errorf("invalid --headless: %w", err)
				}
				q.Set("headless", headless)
			}
			if cmd.Flags().Changed("max-retries") {
				q.Set("max_retries", strconv.Itoa(maxRetries))
			}
			if fresh {
				q.Set("fresh", "true")
			}

			raw, err := c.do(cmd.Context(), http.MethodPost, "/verify", q, handler.VerifyRequest{IMEI: args[0]})
			if err != nil {
				return err
			}
			if root.json {
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			}
			var resp handler.VerifyResponse
			if err := json.Unmarshal(raw, &resp); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			printVerify(cmd.OutOrStdout(), resp)
			if !resp.Success {
				return fmt.Errorf("verification did not complete: %s", resp.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&headless, "headless", "", "override browser headless mode (true/false)")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 0, "override retry budget (0-10)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "bypass cached verdicts")
	return cmd
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func printVerify(w io.Writer, r handler.VerifyResponse) {
	// Field names sit in the first column, so it is styled like a header.
	t := newTable().StyleFunc(func(_, col int) lipgloss.Style {
		if col == 0 {
			return headerStyle
		}
		return cellStyle
	})
	t.Row("IMEI", r.IMEI)
	t.Row("Status", string(r.Status))
	if r.Details != nil && r.Details.DeviceModel != "" {
		t.Row("Device", r.Details.DeviceModel)
	}
	t.Row("Message", r.Message)
	if r.ErrorMessage != nil {
		t.Row("Error", *r.ErrorMessage)
	}
	if r.RetryCount > 0 {
		t.Row("Retries", strconv.Itoa(r.RetryCount))
	}
	fmt.Fprintln(w, t.Render())
}

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var (
		id    string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored verdicts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(root)
			if err != nil {
				return err
			}
			q := url.Values{"limit": {strconv.Itoa(limit)}}
			if id != "" {
				q.Set("imei", id)
			}
			raw, err := c.do(cmd.Context(), http.MethodGet, "/history", q, nil)
			if err != nil {
				return err
			}
			if root.json {
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			}
			var resp handler.HistoryResponse
			if err := json.Unmarshal(raw, &resp); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			t := newTable().Headers("VERIFIED AT", "IMEI", "STATUS", "DEVICE")
			for _, rec := range resp.Records {
				device := ""
				if rec.Details != nil {
					device = rec.Details.DeviceModel
				}
				t.Row(rec.VerificationDate, rec.IMEI, string(rec.Status), device)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
	cmd.Flags().StringVar(&id, "imei", "", "only this IMEI")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum records (1-100)")
	return cmd
}

func newHealthCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(root)
			if err != nil {
				return err
			}
			raw, err := c.do(cmd.Context(), http.MethodGet, "/health", nil, nil)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
}
