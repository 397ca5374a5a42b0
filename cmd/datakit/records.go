package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/datakit/pkg/datakit/record"
)

var errRecordNotFound = errors.New("record not found")

func newRecordsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"rec"},
		Short:   "Manage the record registry",
		Long: `Adds, reads, updates and deletes id/name/email records.

With the default memory store records vanish when the command exits; set
store.driver to "sqlite" to keep them between runs.`,
	}

	cmd.AddCommand(
		newRecordsAddCmd(a),
		newRecordsGetCmd(a),
		newRecordsUpdateCmd(a),
		newRecordsDeleteCmd(a),
		newRecordsListCmd(a),
		newRecordsSearchCmd(a),
		newRecordsSummaryCmd(a),
		newRecordsDemoCmd(a),
	)
	return cmd
}

// withRegistry opens the configured registry, runs fn and closes it.
func (a *app) withRegistry(fn func(*record.Registry) error) (err error) {
	reg, err := a.openRegistry()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := reg.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close record store: %w", cerr)
		}
	}()
	return fn(reg)
}

func newRecordsAddCmd(a *app) *cobra.Command {
	var (
		id    int64
		name  string
		email string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record",
		Long: `Adds a record. Without --id an id is derived from the current time.

Example:
  datakit records add --name "John Doe" --email john@example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("id") {
				id = record.GenerateID()
			}
			if !record.IsValidEmail(email) {
				a.logger.Warn("email looks malformed", slog.String("email", email))
			}

			return a.withRegistry(func(reg *record.Registry) error {
				if !reg.Add(record.New(id, name, email)) {
					return fmt.Errorf("record %d already exists", id)
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "record id (default: generated)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "contact address")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newRecordsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withRegistry(func(reg *record.Registry) error {
				rec, ok := reg.Get(id)
				if !ok {
					return fmt.Errorf("%w: %d", errRecordNotFound, id)
				}
				return writeJSON(cmd.OutOrStdout(), rec)
			})
		},
	}
}

func newRecordsUpdateCmd(a *app) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a record's name and/or email",
		Long: `Applies only the flags that are given. An update with no flags
succeeds if the record exists.

Example:
  datakit records update 1 --email new@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var u record.Update
			if cmd.Flags().Changed("name") {
				u = u.SetName(name)
			}
			if cmd.Flags().Changed("email") {
				u = u.SetEmail(email)
			}

			return a.withRegistry(func(reg *record.Registry) error {
				if !reg.Update(id, u) {
					return fmt.Errorf("%w: %d", errRecordNotFound, id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %d\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new contact address")
	return cmd
}

func newRecordsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withRegistry(func(reg *record.Registry) error {
				if !reg.Delete(id) {
					return fmt.Errorf("%w: %d", errRecordNotFound, id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
				return nil
			})
		},
	}
}

func newRecordsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List records in insertion order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRegistry(func(reg *record.Registry) error {
				return printRecords(cmd.OutOrStdout(), reg.List())
			})
		},
	}
}

func newRecordsSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "List records whose name contains text, ignoring case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(func(reg *record.Registry) error {
				return printRecords(cmd.OutOrStdout(), reg.SearchByName(args[0]))
			})
		},
	}
}

func newRecordsSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the record count and the newest and oldest records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRegistry(func(reg *record.Registry) error {
				printSummary(cmd.OutOrStdout(), reg.Summarize())
				return nil
			})
		},
	}
}

func newRecordsDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through add, search, update and delete on a scratch registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := record.NewRegistry(
				record.WithLogger(a.logger),
				record.WithMetrics(a.telemetry.Metrics()),
			)
			defer reg.Close()
			return runDemo(cmd.OutOrStdout(), reg)
		},
	}
}

// runDemo exercises every registry operation and reports each outcome.
func runDemo(w io.Writer, reg *record.Registry) error {
	john := record.New(1, "John Doe", "john@example.com")
	jane := record.New(2, "Jane Smith", "jane@example.com")

	fmt.Fprintf(w, "add %d %q: %t\n", john.ID, john.Name, reg.Add(john))
	fmt.Fprintf(w, "add %d %q: %t\n", jane.ID, jane.Name, reg.Add(jane))
	fmt.Fprintf(w, "add duplicate %d: %t\n", john.ID, reg.Add(record.New(1, "Impostor", "x@y.z")))

	fmt.Fprintln(w, "search \"john\":")
	if err := printRecords(w, reg.SearchByName("john")); err != nil {
		return err
	}

	fmt.Fprintf(w, "update %d email: %t\n", john.ID,
		reg.Update(john.ID, record.Update{}.SetEmail("john.doe@example.com")))
	if rec, ok := reg.Get(john.ID); ok {
		fmt.Fprintf(w, "get %d: %s <%s>\n", rec.ID, rec.Name, rec.Email)
	}
	fmt.Fprintf(w, "update missing 99: %t\n", reg.Update(99, record.Update{}.SetName("Ghost")))

	fmt.Fprintf(w, "delete %d: %t\n", jane.ID, reg.Delete(jane.ID))
	fmt.Fprintf(w, "delete %d again: %t\n", jane.ID, reg.Delete(jane.ID))

	fmt.Fprintln(w, "remaining:")
	if err := printRecords(w, reg.List()); err != nil {
		return err
	}
	printSummary(w, reg.Summarize())
	return nil
}

func printRecords(w io.Writer, records []*record.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCREATED")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.Name, r.Email, r.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func printSummary(w io.Writer, s record.Summary) {
	fmt.Fprintf(w, "total: %d\n", s.Total)
	if s.Newest != nil {
		fmt.Fprintf(w, "newest: %d %s\n", s.Newest.ID, s.Newest.Name)
	}
	if s.Oldest != nil {
		fmt.Fprintf(w, "oldest: %d %s\n", s.Oldest.ID, s.Oldest.Name)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}
