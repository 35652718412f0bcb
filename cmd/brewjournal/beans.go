package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tangled.org/arabica.social/brewjournal/internal/client"
	"tangled.org/arabica.social/brewjournal/internal/models"
)

func (a *app) beansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "beans",
		Short: "Manage the bean inventory",
	}
	cmd.AddCommand(
		a.beansListCmd(),
		a.beansAddCmd(),
		a.beanStatusCmd("finish", "Mark a bean as finished", models.BeanStatusFinished),
		a.beanStatusCmd("reactivate", "Move a finished bean back to the active inventory", models.BeanStatusActive),
	)
	return cmd
}

func (a *app) beansListCmd() *cobra.Command {
	var opts client.BeanListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List beans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			beans, err := a.api.ListBeans(ctx, &opts)
			if err != nil {
				return err
			}
			return a.print(cmd, beans, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tROASTER\tORIGIN\tPROCESS\tWEIGHT\tPRICE\tSTATUS")
				for _, b := range beans {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%s\t%s\n",
						b.ID, b.Roaster, origin(b), b.Process, b.Weight, money(b.Price), b.Status)
				}
			})
		},
	}
	cmd.Flags().StringVar(&opts.Status, "status", "", "only show beans with this status (Active or Finished)")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "free text search")
	return cmd
}

// origin joins country and region for display
func origin(b *models.Bean) string {
	if b.Region == "" {
		return b.Country
	}
	return b.Country + ", " + b.Region
}

func (a *app) beansAddCmd() *cobra.Command {
	var req models.CreateBeanRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bean to the inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.PurchaseDate == "" {
				req.PurchaseDate = a.today()
			}
			if err := req.Validate(); err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			bean, err := a.api.CreateBean(ctx, &req)
			if err != nil {
				return err
			}
			return a.print(cmd, bean, func(w io.Writer) {
				fmt.Fprintf(w, "Added bean %s (%s %s)\n", bean.ID, bean.Roaster, origin(bean))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Roaster, "roaster", "", "roaster name (required)")
	f.StringVar(&req.Country, "country", "", "origin country (required)")
	f.StringVar(&req.Region, "region", "", "origin region")
	f.StringVar(&req.Farm, "farm", "", "farm or washing station")
	f.StringVar(&req.Variety, "variety", "", "coffee variety")
	f.StringVar(&req.Process, "process", "", "processing method")
	f.StringVar(&req.Altitude, "altitude", "", "growing altitude")
	f.Float64Var(&req.Weight, "weight", 0, "bag weight in grams (required)")
	f.Float64Var(&req.Price, "price", 0, "price paid for the bag")
	f.StringVar(&req.PurchaseDate, "date", "", "purchase date, YYYY-MM-DD (default today)")
	f.StringSliceVar(&req.FlavorNotes, "notes", nil, "comma separated flavor notes")
	return cmd
}

func (a *app) beanStatusCmd(use, short, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <beanId>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			bean, err := a.api.SetBeanStatus(ctx, args[0], status)
			if err != nil {
				return err
			}
			return a.print(cmd, bean, func(w io.Writer) {
				fmt.Fprintf(w, "Bean %s is now %s\n", bean.ID, bean.Status)
			})
		},
	}
}
