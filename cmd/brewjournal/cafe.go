package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tangled.org/arabica.social/brewjournal/internal/models"
)

func (a *app) cafeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cafe",
		Short: "Record coffee bought at cafes",
	}
	cmd.AddCommand(a.cafeListCmd(), a.cafeAddCmd())
	return cmd
}

func (a *app) cafeListCmd() *cobra.Command {
	var grouped bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cafe visits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			if grouped {
				groups, err := a.api.GroupedCafeLogs(ctx)
				if err != nil {
					return err
				}
				return a.print(cmd, groups, func(w io.Writer) {
					fmt.Fprintln(w, "CAFE\tVISITS\tSPENT")
					for _, g := range groups {
						spent := make([]float64, 0, len(g.Logs))
						for _, l := range g.Logs {
							spent = append(spent, l.Price)
						}
						fmt.Fprintf(w, "%s\t%d\t%s\n", g.CafeName, len(g.Logs), money(models.SumCosts(spent...)))
					}
				})
			}

			logs, err := a.api.ListCafeLogs(ctx)
			if err != nil {
				return err
			}
			return a.print(cmd, logs, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tDATE\tCAFE\tBEAN\tPRICE\tNOTES")
				for _, l := range logs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						l.ID, l.Date, l.CafeName, l.BeanName, money(l.Price), strings.Join(l.FlavorNotes, ", "))
				}
			})
		},
	}
	cmd.Flags().BoolVar(&grouped, "grouped", false, "group visits by cafe")
	return cmd
}

func (a *app) cafeAddCmd() *cobra.Command {
	var req models.CreateCafeLogRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a cafe visit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Date == "" {
				req.Date = a.today()
			}
			if err := req.Validate(); err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			entry, err := a.api.CreateCafeLog(ctx, &req)
			if err != nil {
				return err
			}
			return a.print(cmd, entry, func(w io.Writer) {
				fmt.Fprintf(w, "Logged %s at %s\n", entry.BeanName, entry.CafeName)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.CafeName, "cafe", "", "cafe name (required)")
	f.StringVar(&req.BeanName, "bean", "", "coffee ordered (required)")
	f.Float64Var(&req.Price, "price", 0, "price paid")
	f.StringVar(&req.Date, "date", "", "visit date, YYYY-MM-DD (default today)")
	f.StringVar(&req.Review, "review", "", "review")
	f.StringSliceVar(&req.FlavorNotes, "notes", nil, "comma separated flavor notes")
	return cmd
}
