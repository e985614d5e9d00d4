// Package cli wires configuration, storage and the dashboard into a cobra
// command tree.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskdash/internal/config"
	"taskdash/internal/dashboard"
	"taskdash/internal/persist"
	"taskdash/internal/storage"
	"taskdash/internal/task"
	"taskdash/internal/ui"
)

const Version = "0.1.0"

type app struct {
	configPath string
	stdin      *bufio.Reader
	stdout     io.Writer
	stderr     io.Writer

	cfg     config.Config
	store   *storage.Store
	adapter *persist.Adapter
}

// session is an opened store plus a controller over it.
type session struct {
	app  *app
	ctrl *dashboard.Controller
}

func (a *app) open(logger *log.Logger) (*session, error) {
	cfg, err := config.LoadOrCreate(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	sortKey, err := task.ParseSortKey(cfg.DefaultSort)
	if err != nil {
		return nil, fmt.Errorf("config default_sort: %w", err)
	}
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.cfg = cfg
	a.store = store
	a.adapter = persist.New(store, persist.WithLogger(logger))
	ctrl := dashboard.New(a.adapter, dashboard.WithLogger(logger), dashboard.WithSort(sortKey))
	return &session{app: a, ctrl: ctrl}, nil
}

func (s *session) Close() error {
	return s.app.store.Close()
}

func (a *app) logger() *log.Logger {
	return log.New(a.stderr, "taskdash: ", 0)
}

// NewRoot builds the command tree with injectable IO.
func NewRoot(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
		stderr: stderr,
	}

	cmd := &cobra.Command{
		Use:     "taskdash",
		Short:   "A personal task dashboard",
		Long:    "taskdash keeps a local task list with filtering, sorting and JSON import/export.",
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDashboard()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.PersistentFlags().StringVar(&a.configPath, "config", config.ResolveConfigPath(), "Path to config.toml")

	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newAddCmd(a))
	cmd.AddCommand(newDeleteCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newImportCmd(a))
	return cmd
}

func (a *app) runDashboard() error {
	cfg, err := config.LoadOrCreate(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// The terminal belongs to the dashboard, so logs go to a file.
	logFile, err := tea.LogToFile(cfg.LogPath, "taskdash")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	s, err := a.open(log.Default())
	if err != nil {
		return err
	}
	defer s.Close()
	return ui.Run(s.ctrl, a.adapter, a.cfg)
}

// confirm asks a yes/no question on stdin. Anything but y/yes declines.
func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(a.stdout, "%s [y/N] ", prompt)
	line, err := a.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
