package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tangled.org/arabica.social/brewjournal/internal/client"
	"tangled.org/arabica.social/brewjournal/internal/models"
)

func (a *app) brewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brews",
		Short: "List and log brews",
	}
	cmd.AddCommand(a.brewsListCmd(), a.brewsLogCmd())
	return cmd
}

func (a *app) brewsListCmd() *cobra.Command {
	var opts client.BrewListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List brews, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			brews, err := a.api.ListBrews(ctx, &opts)
			if err != nil {
				return err
			}
			return a.print(cmd, brews, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tDATE\tBEAN\tRECIPE\tDOSE\tRATIO\tCOST")
				for _, b := range brews {
					bean := b.BeanID
					if b.Bean != nil {
						bean = b.Bean.Roaster + " " + b.Bean.Country
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%s\t%s\n",
						b.ID, b.Date, bean, b.RecipeName, b.Dose, b.Ratio(), money(b.CalculatedCost))
				}
			})
		},
	}
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "free text search")
	return cmd
}

// brewFlags are the values brews log accepts on the command line
type brewFlags struct {
	preset  string
	req     models.CreateBrewRequest
	pourArg string
}

func (a *app) brewsLogCmd() *cobra.Command {
	var bf brewFlags
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a brew",
		Long: `Log a brew against a bean.

With --preset the recipe fields are filled from a saved preset first; any
other flag given explicitly overrides the preset value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			req := &bf.req
			if bf.preset != "" {
				draft, err := a.api.ApplyPreset(ctx, bf.preset, &client.ApplyOptions{BeanID: bf.req.BeanID})
				if err != nil {
					return fmt.Errorf("apply preset %q: %w", bf.preset, err)
				}
				overrideBrew(cmd, draft, &bf.req)
				req = draft
			}
			if cmd.Flags().Changed("pours") {
				steps := models.ParsePourSequence(bf.pourArg)
				if steps == nil {
					return fmt.Errorf("--pours must be a JSON array of {time, amount} steps")
				}
				req.PourSteps = steps
			}
			if req.Date == "" {
				req.Date = a.today()
			}
			if err := req.Validate(); err != nil {
				return err
			}

			brew, err := a.api.LogBrew(ctx, req)
			if err != nil {
				return err
			}
			return a.print(cmd, brew, func(w io.Writer) {
				fmt.Fprintf(w, "Logged brew %s (%s, cost %s)\n", brew.ID, brew.Ratio(), money(brew.CalculatedCost))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&bf.preset, "preset", "", "preset id or recipe name to start from")
	f.StringVar(&bf.req.BeanID, "bean", "", "bean id (required)")
	f.StringVar(&bf.req.Date, "date", "", "brew date, YYYY-MM-DD (default today)")
	f.StringVar(&bf.req.RecipeName, "recipe", "", "recipe name")
	f.StringVar(&bf.req.Grinder, "grinder", "", "grinder")
	f.IntVar(&bf.req.Clicks, "clicks", 0, "grind setting")
	f.StringVar(&bf.req.Dripper, "dripper", "", "dripper")
	f.StringVar(&bf.req.FilterType, "filter", "", "filter type")
	f.Float64Var(&bf.req.WaterTemp, "temp", 0, "water temperature")
	f.Float64Var(&bf.req.Dose, "dose", 0, "coffee dose in grams")
	f.StringVar(&bf.pourArg, "pours", "", `pour steps as JSON, e.g. '[{"time":"0:00","amount":50}]'`)
	f.StringVar(&bf.req.TotalTime, "time", "", "total brew time, m:ss")
	f.StringVar(&bf.req.TasteReview, "review", "", "taste notes")
	return cmd
}

// overrideBrew copies every explicitly set flag value from flags onto draft.
func overrideBrew(cmd *cobra.Command, draft, flags *models.CreateBrewRequest) {
	changed := cmd.Flags().Changed
	if changed("bean") {
		draft.BeanID = flags.BeanID
	}
	if changed("date") {
		draft.Date = flags.Date
	}
	if changed("recipe") {
		draft.RecipeName = flags.RecipeName
	}
	if changed("grinder") {
		draft.Grinder = flags.Grinder
	}
	if changed("clicks") {
		draft.Clicks = flags.Clicks
	}
	if changed("dripper") {
		draft.Dripper = flags.Dripper
	}
	if changed("filter") {
		draft.FilterType = flags.FilterType
	}
	if changed("temp") {
		draft.WaterTemp = flags.WaterTemp
	}
	if changed("dose") {
		draft.Dose = flags.Dose
	}
	if changed("time") {
		draft.TotalTime = flags.TotalTime
	}
	if changed("review") {
		draft.TasteReview = flags.TasteReview
	}
}
