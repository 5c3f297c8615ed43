package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "splitbook-cli",
		Short: "Splitbook CLI tool",
		Long:  `A command line interface for interacting with the Splitbook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Splitbook API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("SPLITBOOK_TOKEN"), "Bearer token for authentication")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	accountsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your owned and shared accounts",
		Run: func(cmd *cobra.Command, args []string) {
			listAccounts()
		},
	})

	transferCmd := &cobra.Command{
		Use:   "transfer <sender> <receiver> <amount> <currency>",
		Short: "Move value between two accounts",
		Args:  cobra.ExactArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			description, _ := cmd.Flags().GetString("description")
			category, _ := cmd.Flags().GetString("category")
			performTransfer(args[0], args[1], args[2], args[3], category, description)
		},
	}
	transferCmd.Flags().String("description", "", "Transfer description")
	transferCmd.Flags().String("category", "", "Transfer category")

	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(transferCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func doRequest(method, path string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			pterm.Error.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		pterm.Error.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		pterm.Error.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody
}

func listAccounts() {
	status, body := doRequest(http.MethodGet, "/api/v1/accounts", nil)
	if status != http.StatusOK {
		pterm.Error.Printf("Listing accounts failed (status %d): %s\n", status, string(body))
		os.Exit(1)
	}

	var accounts []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Currency string `json:"currency"`
		Balance  string `json:"balance"`
		OwnerID  string `json:"owner_id"`
	}
	if err := json.Unmarshal(body, &accounts); err != nil {
		pterm.Error.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	rows := pterm.TableData{{"ID", "Name", "Currency", "Balance", "Owner"}}
	for _, a := range accounts {
		rows = append(rows, []string{a.ID, a.Name, a.Currency, a.Balance, a.OwnerID})
	}

	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func performTransfer(sender, receiver, amount, currency, category, description string) {
	status, body := doRequest(http.MethodPost, "/api/v1/transfers", map[string]any{
		"sender_account_id":   sender,
		"receiver_account_id": receiver,
		"amount":              json.Number(amount),
		"currency":            currency,
		"category":            category,
		"description":         description,
	})
	if status != http.StatusCreated {
		pterm.Error.Printf("Transfer failed (status %d): %s\n", status, string(body))
		os.Exit(1)
	}

	var result struct {
		SenderTransactionID   string `json:"sender_transaction_id"`
		ReceiverTransactionID string `json:"receiver_transaction_id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		pterm.Error.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	pterm.Success.Println("Transfer completed")
	pterm.Info.Printf("Sender record:   %s\n", result.SenderTransactionID)
	pterm.Info.Printf("Receiver record: %s\n", result.ReceiverTransactionID)
}
