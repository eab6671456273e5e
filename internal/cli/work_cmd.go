package cli

import (
	"fmt"
	"strconv"

	"github.com/media2net-app/byeauto/internal/cli/formatter"
	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/media2net-app/byeauto/internal/service"
	"github.com/spf13/cobra"
)

func newWorkCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "work",
		Aliases: []string{"w"},
		Short:   "Manage work items on the board",
	}

	cmd.AddCommand(
		newWorkAddCmd(app),
		newWorkListCmd(app),
		newWorkShowCmd(app),
		newWorkUpdateCmd(app),
		newWorkStatusCmd(app),
		newWorkHoursCmd(app),
		newWorkDeleteCmd(app),
		newWorkSummaryCmd(app),
	)

	return cmd
}

func newWorkAddCmd(app *App) *cobra.Command {
	var (
		v           workItemFormValues
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a work item to the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive || (v.Vehicle == "" && app.interactive()) {
				if err := wizardWorkItem(app.Config.Roster, &v).Run(); err != nil {
					return err
				}
			}
			if v.Vehicle == "" {
				return fmt.Errorf("--vehicle is required")
			}

			w, err := app.WorkItems.Add(cmd.Context(), v.toNew())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created work item %s (%s)\n", w.Vehicle, formatter.TruncID(w.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&v.Vehicle, "vehicle", "", "Vehicle, e.g. \"BMW X5\"")
	cmd.Flags().StringVar(&v.Client, "client", "", "Client name")
	cmd.Flags().StringVar(&v.WorkType, "type", "", "Work type, e.g. \"Oil Change\"")
	cmd.Flags().StringVar(&v.Priority, "priority", "", "Priority: high, medium, low (default medium)")
	cmd.Flags().StringVar(&v.Estimate, "estimate", "", "Estimated time, e.g. 2h, 90m, 1h30m")
	cmd.Flags().StringVar(&v.AssignedTo, "assign", "", "Mechanic from the roster")
	cmd.Flags().StringVar(&v.Status, "status", "", "Initial status: pending, in-progress, completed (default pending)")
	cmd.Flags().StringVar(&v.Notes, "notes", "", "Free-form notes")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the item with a form")

	return cmd
}

func newWorkListCmd(app *App) *cobra.Command {
	var status, assignee string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List work items",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := service.ListFilter{Status: domain.Status(status), AssignedTo: assignee}
			if status != "" && !filter.Status.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.WorkItemTable(app.WorkItems.List(filter), app.location()))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only items with this status")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Only items assigned to this mechanic")
	return cmd
}

func newWorkShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show [ID]",
		Aliases: []string{"inspect"},
		Short:   "Show work item details",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveWorkItemID(app, argOrEmpty(args), allItems(app))
			if err != nil {
				return err
			}
			w, err := app.WorkItems.Get(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("Work Item", formatter.WorkItemDetail(w, app.location(), app.now())))
			return nil
		},
	}
}

func newWorkUpdateCmd(app *App) *cobra.Command {
	var (
		vehicle, client, typ, priority string
		estimate, assignee, notes      string
		status                         string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveWorkItemID(app, args[0], nil)
			if err != nil {
				return err
			}

			var patch domain.WorkItemPatch
			if cmd.Flags().Changed("vehicle") {
				patch.Vehicle = &vehicle
			}
			if cmd.Flags().Changed("client") {
				patch.Client = &client
			}
			if cmd.Flags().Changed("type") {
				patch.WorkType = &typ
			}
			if cmd.Flags().Changed("priority") {
				p := domain.Priority(priority)
				patch.Priority = &p
			}
			if cmd.Flags().Changed("estimate") {
				patch.EstimatedTime = &estimate
			}
			if cmd.Flags().Changed("assign") {
				patch.AssignedTo = &assignee
			}
			if cmd.Flags().Changed("notes") {
				patch.Notes = &notes
			}
			if cmd.Flags().Changed("status") {
				s := domain.Status(status)
				patch.Status = &s
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update; pass at least one field flag")
			}

			w, err := app.WorkItems.Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated work item %s (%s)\n", w.Vehicle, formatter.TruncID(w.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&vehicle, "vehicle", "", "Vehicle")
	cmd.Flags().StringVar(&client, "client", "", "Client name")
	cmd.Flags().StringVar(&typ, "type", "", "Work type")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: high, medium, low")
	cmd.Flags().StringVar(&estimate, "estimate", "", "Estimated time, e.g. 2h")
	cmd.Flags().StringVar(&assignee, "assign", "", "Mechanic from the roster, empty to unassign")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&status, "status", "", "Status: pending, in-progress, completed")

	return cmd
}

func newWorkStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Move a work item to another board column",
		Long:  "Move a work item to pending, in-progress or completed. Any move is allowed, including reopening completed work.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveWorkItemID(app, args[0], nil)
			if err != nil {
				return err
			}
			w, err := app.WorkItems.SetStatus(cmd.Context(), id, domain.Status(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", w.Vehicle, formatter.StatusPill(w.Status))
			return nil
		},
	}
}

func newWorkHoursCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hours ID [HOURS]",
		Short: "Record the actual hours worked on an item",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveWorkItemID(app, args[0], nil)
			if err != nil {
				return err
			}

			raw := ""
			if len(args) == 2 {
				raw = args[1]
			} else if app.interactive() {
				if err := hoursForm(&raw).Run(); err != nil {
					return err
				}
			}
			if raw == "" {
				return fmt.Errorf("hours are required")
			}
			hours, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("invalid hours %q: %w", raw, err)
			}

			w, err := app.WorkItems.RecordActualHours(cmd.Context(), id, hours)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recorded %s on %s\n", formatter.FormatHours(hours), w.Vehicle)
			if w.IsOverTime {
				fmt.Fprintf(out, "%s %s over the %s estimate\n",
					formatter.StyleRed.Render("Overtime:"), formatter.FormatHours(w.OvertimeHours), w.EstimatedTime)
			}
			return nil
		},
	}
}

func newWorkDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Remove a work item from the board",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveWorkItemID(app, args[0], nil)
			if err != nil {
				return err
			}
			w, err := app.WorkItems.Get(id)
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete %s without --yes", w.Vehicle)
				}
				confirmed := false
				if err := wizardConfirm(fmt.Sprintf("Delete %s (%s)?", w.Vehicle, w.WorkType), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := app.WorkItems.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted work item %s (%s)\n", w.Vehicle, formatter.TruncID(w.ID))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

func newWorkSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show estimated, actual and overtime hours across the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			sum := app.WorkItems.AggregateHours()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("Hours", formatter.HoursSummary(sum, app.location())))
			return nil
		},
	}
}
