// Command brewjournal is a command line client for the brew journal API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tangled.org/arabica.social/brewjournal/internal/client"
)

// app carries the state shared by every subcommand
type app struct {
	server  string
	json    bool
	timeout time.Duration
	today   func() string

	api *client.Client
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{
		today: func() string { return time.Now().Format(time.DateOnly) },
	}

	root := &cobra.Command{
		Use:   "brewjournal",
		Short: "Track coffee beans, brews and cafe visits",
		Long: `brewjournal talks to a running brewjournal-server.

Available command groups:
  beans   - Inventory of purchased coffee
  brews   - Logged brewing sessions
  presets - Saved recipes
  cafe    - Coffee bought at cafes`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			api, err := client.New(a.server)
			if err != nil {
				return err
			}
			a.api = api
			return nil
		},
	}

	server := os.Getenv("BREWJOURNAL_SERVER")
	if server == "" {
		server = client.DefaultBaseURL
	}
	root.PersistentFlags().StringVar(&a.server, "server", server, "brewjournal-server base URL (env BREWJOURNAL_SERVER)")
	root.PersistentFlags().BoolVar(&a.json, "json", false, "print raw JSON instead of tables")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(
		a.beansCmd(),
		a.brewsCmd(),
		a.presetsCmd(),
		a.cafeCmd(),
		a.costCmd(),
		a.statsCmd(),
		a.suggestCmd(),
	)
	return root
}

// context returns the request context for one command invocation.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.timeout)
}

// print writes v as indented JSON when --json is set, otherwise calls table.
func (a *app) print(cmd *cobra.Command, v interface{}, table func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if a.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
