package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/forecourt/internal/verifications"
	"github.com/JaimeStill/forecourt/pkg/pagination"
)

func newVerificationsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "verifications",
		Aliases: []string{"queue"},
		Short:   "Inspect and work the manual verification queue",
	}

	cmd.AddCommand(newVerificationsListCommand(ctx))
	cmd.AddCommand(newVerificationsResolveCommand(ctx))
	cmd.AddCommand(newVerificationsDismissCommand(ctx))

	return cmd
}

func newVerificationsListCommand(ctx *commandContext) *cobra.Command {
	var (
		status, reason, source string
		page, pageSize         int
		asJSON                 bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued verifications, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filters verifications.Filters
			if status != "" {
				filters.Status = &status
			}
			if reason != "" {
				filters.Reason = &reason
			}
			if source != "" {
				filters.Source = &source
			}

			logger := ctx.logger(cmd.ErrOrStderr())
			return withQueue(ctx, cmd, logger, func(sys verifications.System) error {
				result, err := sys.List(cmd.Context(), pagination.PageRequest{Page: page, PageSize: pageSize}, filters)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, result)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderVerifications(result.Data))
				fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d total)\n", result.Page, result.TotalPages, result.Total)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&status, "status", verifications.StatusPending, "Filter by status (pending, resolved, dismissed); empty for all")
	flags.StringVar(&reason, "reason", "", "Filter by reason (not_found, multiple_found)")
	flags.StringVar(&source, "source", "", "Filter by chat source")
	flags.IntVar(&page, "page", 1, "Page number")
	flags.IntVar(&pageSize, "page-size", 0, "Page size (0 uses the configured default)")
	flags.BoolVar(&asJSON, "json", false, "Print the page as JSON")

	return cmd
}

func newVerificationsResolveCommand(ctx *commandContext) *cobra.Command {
	var car, by string

	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Link a pending verification to the car it describes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid verification id %q", args[0])
			}
			carID, err := uuid.Parse(car)
			if err != nil {
				return fmt.Errorf("invalid car id %q", car)
			}

			logger := ctx.logger(cmd.ErrOrStderr())
			return withQueue(ctx, cmd, logger, func(sys verifications.System) error {
				v, err := sys.Resolve(cmd.Context(), id, verifications.ResolveCommand{CarID: carID, By: operator(by)})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "verification %s resolved to car %s by %s\n", v.ID, carID, v.ResolvedBy)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&car, "car", "", "ID of the matching car")
	cmd.Flags().StringVar(&by, "by", "", "Reviewer name (defaults to $USER)")
	_ = cmd.MarkFlagRequired("car")

	return cmd
}

func newVerificationsDismissCommand(ctx *commandContext) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "dismiss <id>",
		Short: "Close a pending verification without a car",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid verification id %q", args[0])
			}

			logger := ctx.logger(cmd.ErrOrStderr())
			return withQueue(ctx, cmd, logger, func(sys verifications.System) error {
				v, err := sys.Dismiss(cmd.Context(), id, verifications.DismissCommand{By: operator(by)})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "verification %s dismissed by %s\n", v.ID, v.ResolvedBy)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "Reviewer name (defaults to $USER)")

	return cmd
}

// withQueue runs fn against the database-backed verification queue.
func withQueue(ctx *commandContext, cmd *cobra.Command, logger *slog.Logger, fn func(verifications.System) error) error {
	return ctx.withDatabase(cmd.Context(), logger, func(db *sql.DB) error {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return err
		}
		return fn(verifications.New(db, logger, cfg.API.Pagination))
	})
}

func operator(by string) string {
	if by != "" {
		return by
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "cli"
}

func renderVerifications(items []verifications.Verification) string {
	if len(items) == 0 {
		return "No verifications"
	}

	rows := make([][]string, len(items))
	for i, v := range items {
		car := "-"
		if v.CarID != nil {
			car = v.CarID.String()
		}
		rows[i] = []string{
			v.ID.String(),
			v.Status,
			v.Reason,
			orDash(v.Stage),
			orDash(v.Source),
			v.Descriptor.String(),
			car,
			v.CreatedAt.Local().Format(time.DateTime),
			strconv.Itoa(len(v.Trace)),
		}
	}

	return renderTable(
		[]string{"ID", "Status", "Reason", "Stage", "Source", "Descriptor", "Car", "Queued", "Steps"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}
