// Command meterctl is a local debug client for a running gatewayd: a
// readline shell and a handful of one-shot subcommands that issue
// requests against its local HTTP API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/srcful/zap-gateway/cmd/meterctl/interactive"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "meterctl",
		Short: "Debug client for a running gatewayd instance",
	}
	root.PersistentFlags().String("addr", "http://127.0.0.1:8080", "gatewayd local API base URL")
	_ = v.BindPFlag("addr", root.PersistentFlags().Lookup("addr"))
	v.SetEnvPrefix("METERCTL")
	v.AutomaticEnv()

	root.AddCommand(newInteractiveCmd(v))
	root.AddCommand(newGetCmd(v))
	root.AddCommand(newPostCmd(v))

	return root
}

func newInteractiveCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start a readline shell against gatewayd's local API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return interactive.New(v.GetString("addr")).Run()
		},
	}
}

func newGetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Issue a single GET request and print the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return oneShot(v.GetString("addr"), http.MethodGet, args[0], nil)
		},
	}
}

func newPostCmd(v *viper.Viper) *cobra.Command {
	var bodyFlag string
	cmd := &cobra.Command{
		Use:   "post <path>",
		Short: "Issue a single POST request and print the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body io.Reader
			if bodyFlag != "" {
				body = strings.NewReader(bodyFlag)
			}
			return oneShot(v.GetString("addr"), http.MethodPost, args[0], body)
		},
	}
	cmd.Flags().StringVar(&bodyFlag, "body", "", "JSON request body")
	return cmd
}

func oneShot(baseURL, method, path string, body io.Reader) error {
	req, err := http.NewRequest(method, strings.TrimRight(baseURL, "/")+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		fmt.Printf("%d %s\n", resp.StatusCode, string(data))
		return nil
	}
	fmt.Printf("%d %s\n", resp.StatusCode, buf.String())
	return nil
}
