package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"taskpad/internal/form"
	"taskpad/internal/store"
	"taskpad/internal/task"
	"taskpad/internal/view"
)

// timeNow is swapped in tests so overdue marks are stable.
var timeNow = time.Now

var (
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

func listCmd(flags *globalFlags) *cobra.Command {
	var filter, sortKey string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks using the given filter and sort order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			if cmd.Flags().Changed("filter") {
				f, err := task.ParseFilter(filter)
				if err != nil {
					return err
				}
				s.store.SetFilter(f)
			}
			if cmd.Flags().Changed("sort") {
				k, err := task.ParseSort(sortKey)
				if err != nil {
					return err
				}
				s.store.SetSort(k)
			}

			out := cmd.OutOrStdout()
			tasks := s.store.View()
			if len(tasks) == 0 {
				fmt.Fprintln(out, dim("No tasks here."))
				return nil
			}
			now := timeNow()
			for _, t := range tasks {
				printTask(out, t, view.IsOverdue(t, now))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "all, active or completed (default from config)")
	cmd.Flags().StringVar(&sortKey, "sort", "", "newest, oldest, priority, dueDate or name (default from config)")
	return cmd
}

func addCmd(flags *globalFlags) *cobra.Command {
	var in form.Input
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			draft, err := form.Validate(in)
			if err != nil {
				return formError(err)
			}

			s, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			t := s.store.Add(draft)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", green("added"), bold(t.Name), dim(t.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&in.Description, "desc", "d", "", "Task description (required)")
	cmd.Flags().StringVarP(&in.Priority, "priority", "p", string(task.DefaultPriority), "high, medium or low")
	cmd.Flags().StringVar(&in.DueDate, "due", "", "Due date as YYYY-MM-DD")
	return cmd
}

func editCmd(flags *globalFlags) *cobra.Command {
	var patch form.Input
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the fields of a task; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := resolveTask(s.store, args[0])
			if err != nil {
				return err
			}
			in := form.FromTask(t)
			changed := cmd.Flags().Changed
			if changed("name") {
				in.Name = patch.Name
			}
			if changed("desc") {
				in.Description = patch.Description
			}
			if changed("priority") {
				in.Priority = patch.Priority
			}
			if changed("due") {
				in.DueDate = patch.DueDate
			}
			draft, err := form.Validate(in)
			if err != nil {
				return formError(err)
			}
			if err := s.store.Update(t.ID, draft); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("updated"), bold(draft.Name))
			return nil
		},
	}
	cmd.Flags().StringVarP(&patch.Name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&patch.Description, "desc", "d", "", "New description")
	cmd.Flags().StringVarP(&patch.Priority, "priority", "p", "", "high, medium or low")
	cmd.Flags().StringVar(&patch.DueDate, "due", "", "Due date as YYYY-MM-DD; empty clears it")
	return cmd
}

func toggleCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := resolveTask(s.store, args[0])
			if err != nil {
				return err
			}
			if err := s.store.Toggle(t.ID); err != nil {
				return err
			}
			state := green("completed")
			if t.Completed {
				state = yellow("active")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", bold(t.Name), state)
			return nil
		},
	}
}

func deleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := resolveTask(s.store, args[0])
			if err != nil {
				return err
			}
			if err := s.store.Delete(t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", red("deleted"), bold(t.Name))
			return nil
		},
	}
}

func statsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts and completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			c := s.store.Counts()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d\n", bold("Total:    "), c.All)
			fmt.Fprintf(out, "%s %d\n", bold("Active:   "), c.Active)
			fmt.Fprintf(out, "%s %d\n", bold("Done:     "), c.Completed)
			fmt.Fprintf(out, "%s %d%%\n", bold("Progress: "), c.Percent())
			return nil
		},
	}
}

// resolveTask accepts a full id or a unique prefix of one.
func resolveTask(st *store.Store, ref string) (task.Task, error) {
	if ref == "" {
		return task.Task{}, fmt.Errorf("empty task id: %w", store.ErrNotFound)
	}
	if t, ok := st.Get(ref); ok {
		return t, nil
	}
	var matches []task.Task
	for _, t := range st.Tasks() {
		if strings.HasPrefix(t.ID, ref) || strings.HasPrefix(strings.TrimPrefix(t.ID, "task_"), ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return task.Task{}, fmt.Errorf("%q: %w", ref, store.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return task.Task{}, fmt.Errorf("%q matches %d tasks, use more of the id", ref, len(matches))
	}
}

// formError spells out each field message so the user sees what to fix.
func formError(err error) error {
	var ve *form.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var lines []string
	for _, f := range []form.Field{form.FieldName, form.FieldDescription, form.FieldPriority, form.FieldDueDate} {
		if ve.Has(f) {
			lines = append(lines, fmt.Sprintf("%s: %s", f, ve.Message(f)))
		}
	}
	return errors.New(strings.Join(lines, "\n"))
}

func printTask(w io.Writer, t task.Task, overdue bool) {
	check := "[ ]"
	name := bold(t.Name)
	if t.Completed {
		check = green("[x]")
		name = dim(t.Name)
	}
	line := fmt.Sprintf("%s %s %s", check, name, priorityTag(t.Priority))
	if t.HasDueDate() {
		due := t.DueDate.Format("Jan 2, 2006")
		if overdue {
			due = red("overdue " + due)
		}
		line += " " + due
	}
	fmt.Fprintf(w, "%s  %s\n", line, dim(t.ID))
	if t.Description != "" {
		fmt.Fprintf(w, "    %s\n", t.Description)
	}
}

func priorityTag(p task.Priority) string {
	tag := "(" + p.Label() + ")"
	switch p {
	case task.PriorityHigh:
		return red(tag)
	case task.PriorityMedium:
		return yellow(tag)
	case task.PriorityLow:
		return cyan(tag)
	}
	return tag
}
