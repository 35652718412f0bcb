package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tangled.org/arabica.social/brewjournal/internal/client"
	"tangled.org/arabica.social/brewjournal/internal/models"
	"tangled.org/arabica.social/brewjournal/internal/suggestions"
)

func (a *app) costCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cost <beanId> <dose>",
		Short: "Price a dose of coffee from a bean",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dose, err := strconv.ParseFloat(args[1], 64)
			if err != nil || !models.Finite(dose) || dose <= 0 {
				return fmt.Errorf("dose must be a positive number of grams, got %q", args[1])
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			est, err := a.api.Cost(ctx, args[0], dose)
			if err != nil {
				return err
			}
			return a.print(cmd, est, func(w io.Writer) {
				fmt.Fprintf(w, "%gg of %s costs %s (%s per gram)\n",
					est.Dose, est.BeanID, money(est.Cost), strconv.FormatFloat(est.PricePerGram, 'f', 4, 64))
			})
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show journal totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			stats, err := a.api.Stats(ctx)
			if err != nil {
				return err
			}
			return a.print(cmd, stats, func(w io.Writer) {
				fmt.Fprintf(w, "Active beans\t%d\n", stats.ActiveBeans)
				fmt.Fprintf(w, "Finished beans\t%d\n", stats.FinishedBeans)
				fmt.Fprintf(w, "Brews\t%d\n", stats.Brews)
				fmt.Fprintf(w, "Presets\t%d\n", stats.Presets)
				fmt.Fprintf(w, "Brew spend\t%s\n", money(stats.TotalBrewCost))
				fmt.Fprintf(w, "Average brew\t%s\n", money(stats.AverageBrewCost))
				fmt.Fprintf(w, "Cafe visits\t%d\n", stats.CafeVisits)
				fmt.Fprintf(w, "Cafe spend\t%s\n", money(stats.CafeSpend))
				fmt.Fprintf(w, "Cafes\t%d\n", stats.DistinctCafes)
			})
		},
	}
}

func (a *app) suggestCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:       "suggest <kind> [query]",
		Short:     "Show previously entered values",
		Long:      "Show previously entered values. Kinds: " + strings.Join(suggestions.Kinds, ", "),
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: suggestions.Kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &client.SuggestOptions{Limit: limit}
			if len(args) == 2 {
				opts.Query = args[1]
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			results, err := a.api.Suggest(ctx, args[0], opts)
			if err != nil {
				return err
			}
			return a.print(cmd, results, func(w io.Writer) {
				for _, s := range results {
					fmt.Fprintf(w, "%s\t%d\n", s.Name, s.Count)
				}
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of values")
	return cmd
}
