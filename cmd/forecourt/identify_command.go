package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/forecourt/internal/cars"
	"github.com/JaimeStill/forecourt/internal/identify"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var (
		d         identify.Descriptor
		inventory string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Resolve a vehicle descriptor against the inventory",
		Long: `Run the identification cascade for one descriptor and print the outcome
with every step of the trace. Nothing is written.

Examples:
  forecourt identify --make toyota --model hilux --description "white ute"
  forecourt identify --rego ABC123 --rego-low-confidence
  forecourt identify --inventory cars.json --model corolla --location "back lot"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if d.Empty() {
				return fmt.Errorf("descriptor is empty: set at least one of --make, --model, --badge, --rego, --description, --location")
			}

			logger := ctx.logger(cmd.ErrOrStderr())
			run := func(store identify.Store) error {
				out, err := identify.New(store, logger).Identify(cmd.Context(), d)
				if err != nil {
					return fmt.Errorf("identify: %w", err)
				}
				if asJSON {
					return writeJSON(cmd, out)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderOutcome(out))
				return nil
			}

			if inventory != "" {
				store, err := loadInventory(inventory)
				if err != nil {
					return err
				}
				return run(store)
			}

			return ctx.withDatabase(cmd.Context(), logger, func(db *sql.DB) error {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				return run(cars.New(db, nil, logger, cfg.API.Pagination, 0))
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&d.Make, "make", "", "Vehicle make")
	flags.StringVar(&d.Model, "model", "", "Vehicle model")
	flags.StringVar(&d.Badge, "badge", "", "Trim badge")
	flags.StringVar(&d.Rego, "rego", "", "Registration plate")
	flags.StringVar(&d.Description, "description", "", "Free-text description")
	flags.StringVar(&d.Location, "location", "", "Reported location")
	flags.BoolVar(&d.RegoLowConfidence, "rego-low-confidence", false, "Treat the rego as unreliable")
	flags.StringVar(&inventory, "inventory", "", "JSON inventory file to match against instead of the database")
	flags.BoolVar(&asJSON, "json", false, "Print the outcome as JSON")

	return cmd
}

func loadInventory(path string) (*identify.MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	defer f.Close()

	return identify.LoadMemoryStore(f)
}

func renderOutcome(out identify.Outcome) string {
	car := "-"
	if out.Record != nil {
		r := out.Record
		car = fmt.Sprintf("%s (%s %s %s, %s)", r.ID, r.Make, r.Model, orDash(r.Badge), orDash(r.Rego))
	}

	summary := renderTable(
		[]string{"Status", "Stage", "Car"},
		[][]string{{out.Status.String(), out.Stage, car}},
		nil,
	)

	if len(out.Trace) == 0 {
		return summary
	}

	rows := make([][]string, len(out.Trace))
	for i, s := range out.Trace {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			s.Stage,
			s.Criteria.String(),
			strconv.Itoa(s.Matches),
			s.Decision,
		}
	}
	trace := renderTable(
		[]string{"#", "Stage", "Criteria", "Matches", "Decision"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	)

	return summary + "\n" + trace
}
