package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/studyplan/internal/filter"
	"github.com/sandeepkv93/studyplan/internal/model"
	"github.com/sandeepkv93/studyplan/internal/refresh"
	"github.com/sandeepkv93/studyplan/internal/scheduler"
	"github.com/sandeepkv93/studyplan/internal/store"
	"github.com/sandeepkv93/studyplan/internal/techniques"
	"github.com/sandeepkv93/studyplan/internal/templates"
	"github.com/sandeepkv93/studyplan/internal/update"
	"github.com/sandeepkv93/studyplan/internal/views"
)

type rootOptions struct {
	dbPath  string
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "studyplan: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "studyplan - a terminal study planner",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to the task database (default $STUDYPLAN_DB_PATH or studyplan.db)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log store activity to stderr")

	root.AddCommand(
		newTUICmd(opts),
		newListCmd(opts),
		newAddCmd(opts),
		newMoveCmd(opts),
		newDoneCmd(opts),
		newDeleteCmd(opts),
		newImportCmd(opts),
		newTechniqueCmd(),
	)
	return root
}

func (o *rootOptions) config() update.RuntimeConfig {
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	return cfg
}

// openCLI opens the database for a one-shot command and loads the tasks.
// Store notifications go to the command's stderr.
func openCLI(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	errOut := cmd.ErrOrStderr()
	notifier := store.NotifierFunc(func(n store.Notification) {
		if n.Level == store.LevelError || opts.verbose {
			fmt.Fprintf(errOut, "%s: %s\n", n.Title, n.Message)
		}
	})
	a, err := openApp(opts.config(), cliLogger(opts.verbose), notifier)
	if err != nil {
		return nil, err
	}
	if err := a.load(cmd.Context()); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive planner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	cfg := opts.config()
	logger, closeLog, err := tuiLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	notices := update.NewChannelNotifier(32)
	a, err := openApp(cfg, logger, notices)
	if err != nil {
		return err
	}
	defer a.Close()

	engine := scheduler.NewEngine(cfg.ReminderBuffer)
	engine.Start()
	defer engine.Stop()

	svc := refresh.NewService(cfg.RefreshSchedule, a.store, cfg.RefreshAttempts, logger)
	if err := svc.Start(cmd.Context()); err != nil {
		return fmt.Errorf("start refresh: %w", err)
	}
	defer svc.Stop()

	var desktop update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		desktop = update.ExecDesktopNotifier{}
	}
	m := update.NewModel(update.Deps{
		Store:     a.store,
		Notices:   notices,
		Scheduler: engine,
		Refresh:   svc,
		Desktop:   desktop,
		Config:    cfg,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		status, search, sortBy, dir, system string
		category, priority                  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fo := filter.DefaultOptions()
			if status != "" {
				fo.Status = filter.Status(status)
			}
			if sortBy != "" {
				fo.SortBy = filter.SortField(sortBy)
			}
			if dir != "" {
				fo.Direction = filter.Direction(dir)
			}
			fo.Search = search
			fo.Category = model.Category(category)
			fo.Priority = model.Priority(priority)
			if system != "" {
				fo.VisibleSystems = []string{system}
			}
			if err := fo.Validate(); err != nil {
				return err
			}

			a, err := openCLI(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return printTasks(cmd.OutOrStdout(), a.store, fo)
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "all, today, upcoming, completed or overdue")
	f.StringVar(&search, "search", "", "match title or description")
	f.StringVar(&sortBy, "sort", "", "date, priority or title")
	f.StringVar(&dir, "dir", "", "asc or desc")
	f.StringVar(&system, "system", "", "only tasks of this learning system")
	f.StringVar(&category, "category", "", "only tasks of this category")
	f.StringVar(&priority, "priority", "", "only tasks of this priority")
	return cmd
}

func printTasks(w io.Writer, st *store.Store, fo filter.Options) error {
	dates := st.Dates()
	groups := filter.GroupByDay(filter.Apply(st.Snapshot().Tasks, fo, dates), dates)
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, "no tasks")
		return err
	}
	for _, g := range groups {
		fmt.Fprintf(w, "%s:\n", g.Label)
		for _, t := range g.Tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			line := fmt.Sprintf("  [%s] %s  %s", mark, t.ID, t.Title)
			if t.Time != "" {
				line += "  " + t.Time
				if t.EndTime != "" {
					line += "-" + t.EndTime
				}
			}
			if t.SystemName != "" {
				line += "  (" + t.SystemName + ")"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		draft    model.Draft
		priority string
		category string
		tech     string
		subtasks []string
	)
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openCLI(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			draft.Title = strings.Join(args, " ")
			if draft.Date == "" {
				draft.Date = a.store.Dates().Today()
			}
			draft.Priority = model.Priority(priority)
			draft.Category = model.Category(category)
			draft.ProductivityTechnique = model.Technique(tech)
			for _, s := range subtasks {
				draft.Subtasks = append(draft.Subtasks, model.Subtask{Title: s})
			}
			t, err := a.store.AddTask(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", t.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&draft.Date, "date", "", "day of the task (default today)")
	f.StringVar(&draft.Time, "time", "", "start time, HH:MM")
	f.StringVar(&draft.EndTime, "end", "", "end time, HH:MM")
	f.StringVar(&draft.Description, "description", "", "longer notes")
	f.StringVar(&priority, "priority", "", "low, medium or high")
	f.StringVar(&category, "category", "", "work, personal, study, health, errands, finance or other")
	f.StringVar(&tech, "technique", "", "productivity technique id")
	f.StringArrayVar(&subtasks, "subtask", nil, "subtask title, repeatable")
	return cmd
}

func newMoveCmd(opts *rootOptions) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "move ID DATE",
		Short: "Reschedule a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openCLI(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var dateOpts []store.DateOption
			if cmd.Flags().Changed("time") {
				dateOpts = append(dateOpts, store.WithTime(start))
			}
			if cmd.Flags().Changed("end") {
				dateOpts = append(dateOpts, store.WithEndTime(end))
			}
			t, err := a.store.UpdateTaskDate(cmd.Context(), args[0], args[1], dateOpts...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved %q to %s\n", t.Title, t.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "time", "", "new start time, empty for all day")
	cmd.Flags().StringVar(&end, "end", "", "new end time")
	return cmd
}

func newDoneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openCLI(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.store.ToggleTaskCompletion(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "reopened"
			if t.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", state, t.Title)
			return nil
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openCLI(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.store.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a learning system template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := templates.Load(args[0])
			if err != nil {
				return err
			}
			a, err := openCLI(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			dates := a.store.Dates()
			if start == "" {
				start = dates.Today()
			}
			drafts, err := tpl.Drafts(start, dates)
			if err != nil {
				return err
			}
			res, err := a.store.ImportTasksFromTemplate(cmd.Context(), tpl.ID, tpl.Name, drafts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d tasks from %s\n", len(res.Imported), len(drafts), tpl.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "day of the first module (default today)")
	return cmd
}

func newTechniqueCmd() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "technique [NAME]",
		Short: "List techniques or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				pages, err := techniques.All()
				if err != nil {
					return err
				}
				for _, p := range pages {
					fmt.Fprintf(out, "%-18s %s\n", p.Technique, p.Title)
				}
				return nil
			}
			page, err := techniques.Lookup(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, views.RenderMarkdown(page.Markdown, width))
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "wrap width")
	return cmd
}
