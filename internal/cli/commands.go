package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"taskdash/internal/dashboard"
	"taskdash/internal/persist"
	"taskdash/internal/task"
)

func newListCmd(a *app) *cobra.Command {
	var (
		search, status, priority, sortBy string
		asJSON                           bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks after filtering and sorting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statusFilter, err := task.ParseStatusFilter(status)
			if err != nil {
				return err
			}
			priorityFilter, err := task.ParsePriorityFilter(priority)
			if err != nil {
				return err
			}
			s, err := a.open(a.logger())
			if err != nil {
				return err
			}
			defer s.Close()

			if sortBy != "" {
				key, err := task.ParseSortKey(sortBy)
				if err != nil {
					return err
				}
				s.ctrl.SetSort(key)
			}
			s.ctrl.SetSearch(search)
			s.ctrl.SetStatusFilter(statusFilter)
			s.ctrl.SetPriorityFilter(priorityFilter)

			visible := s.ctrl.Visible()
			if asJSON {
				if err := persist.WriteExport(a.stdout, visible); err != nil {
					return err
				}
				fmt.Fprintln(a.stdout)
				return nil
			}
			fmt.Fprintln(a.stdout, renderTable(visible))
			fmt.Fprintf(a.stdout, "Tasks (%d of %d)\n", len(visible), s.ctrl.Stats().Total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "q", "", "Match name or description (case-insensitive)")
	cmd.Flags().StringVarP(&status, "status", "s", task.All, `Status filter: all, new, "in progress", complete`)
	cmd.Flags().StringVarP(&priority, "priority", "p", task.All, "Priority filter: all, High, Medium, Low")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort key: dueDate, priority, status, name (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func renderTable(tasks []task.Task) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "STATUS", "PRIORITY", "DUE")
	for _, tk := range tasks {
		t.Row(tk.ID, tk.Name, tk.Status.String(), tk.Priority.String(), task.FormatDue(tk.DueDate))
	}
	return t.String()
}

func newAddCmd(a *app) *cobra.Command {
	var name, description, due, status, priority string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := dashboard.EmptyForm()
			form.Name = name
			form.Description = description
			if due != "" {
				d, err := time.ParseInLocation("2006-01-02", due, time.Local)
				if err != nil {
					return fmt.Errorf("due date must be YYYY-MM-DD: %w", err)
				}
				form.DueDate = &d
			}
			if status != "" {
				st, err := task.ParseStatus(status)
				if err != nil {
					return err
				}
				form.Status = st
			}
			if priority != "" {
				p, err := task.ParsePriority(priority)
				if err != nil {
					return err
				}
				form.Priority = p
			}

			s, err := a.open(a.logger())
			if err != nil {
				return err
			}
			defer s.Close()

			s.ctrl.SetForm(form)
			if !s.ctrl.Submit() {
				return fmt.Errorf("task not created:\n%w", s.ctrl.Errors().Err())
			}
			tasks := s.ctrl.Tasks()
			fmt.Fprintf(a.stdout, "Created %s\n", tasks[len(tasks)-1].ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Task name (required, at least 3 characters)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description (empty or at least 5 characters)")
	cmd.Flags().StringVar(&due, "due", "", "Due date YYYY-MM-DD, today or later")
	cmd.Flags().StringVarP(&status, "status", "s", "", `Status: new, "in progress", complete`)
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: High, Medium, Low")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(a.logger())
			if err != nil {
				return err
			}
			defer s.Close()

			prompt, ok := s.ctrl.RequestDelete(args[0])
			if !ok {
				return fmt.Errorf("no task with id %q", args[0])
			}
			if !s.ctrl.ResolveDelete(yes || a.confirm(prompt)) {
				fmt.Fprintln(a.stdout, "Delete cancelled")
				return nil
			}
			fmt.Fprintf(a.stdout, "Deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all tasks to tasks-YYYY-MM-DD.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(a.logger())
			if err != nil {
				return err
			}
			defer s.Close()

			tasks := s.ctrl.Tasks()
			if len(tasks) == 0 {
				return errors.New("no tasks to export")
			}
			if dir == "" {
				dir = a.cfg.ExportDir
			}
			path, err := a.adapter.Export(dir, tasks)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Fprintf(a.stdout, "Exported %d tasks to %s\n", len(tasks), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory for the export file (default from config)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all tasks with the contents of a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := persist.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to import tasks: %w", err)
			}
			s, err := a.open(a.logger())
			if err != nil {
				return err
			}
			defer s.Close()

			prompt := s.ctrl.StageImport(tasks)
			if !s.ctrl.ResolveImport(yes || a.confirm(prompt)) {
				fmt.Fprintln(a.stdout, "Import cancelled")
				return nil
			}
			fmt.Fprintf(a.stdout, "Imported %d tasks\n", len(tasks))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
