package cmd

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe a running dashboard's /health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		retries, _ := cmd.Flags().GetInt("retries")

		client := retryablehttp.NewClient()
		client.Logger = log.New(io.Discard, "", 0)
		client.RetryMax = retries
		client.HTTPClient.Timeout = 10 * time.Second

		resp, err := client.Get(url + "/health")
		if err != nil {
			return fmt.Errorf("dashboard unreachable: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != 200 {
			return fmt.Errorf("dashboard unhealthy: HTTP %d", resp.StatusCode)
		}

		doc := gjson.ParseBytes(body)
		fmt.Printf("status: %s\n", doc.Get("status").String())
		fmt.Printf("version: %s\n", doc.Get("version").String())
		if v := doc.Get("lastAuditDate"); v.Exists() && v.Type != gjson.Null {
			fmt.Printf("last audit: %s\n", v.String())
		}
		if v := doc.Get("healthScore"); v.Exists() && v.Type != gjson.Null {
			fmt.Printf("health score: %d\n", v.Int())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().String("url", "http://127.0.0.1:3000", "Base URL of the running dashboard")
	checkCmd.Flags().Int("retries", 3, "Max retries before giving up")
}
