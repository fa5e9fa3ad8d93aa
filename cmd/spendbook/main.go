package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"spendbook/internal/backup"
	"spendbook/internal/budget"
	"spendbook/internal/cli"
	"spendbook/internal/config"
	"spendbook/internal/core"
	"spendbook/internal/ledger"
	"spendbook/internal/report"
	"spendbook/internal/services"
	"spendbook/internal/settings"
	"spendbook/internal/worker"
)

const usage = `Usage: spendbook <command> [flags]

Commands:
  add        record an expense
  list       list or search expenses
  budget     show or set a month's budget
  stats      refresh and show the category breakdown
  report     build a monthly PDF report
  backup     create a backup of the data file
  backups    list available backups
  restore    restore the data file from a backup
  threshold  show or set the budget alert threshold
  watch      run budget alerts and stats refresh until interrupted
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	app := &app{cfg: cfg, logger: logger}
	ctx := context.Background()

	var err error
	switch cmd := os.Args[1]; cmd {
	case "add":
		err = app.add(ctx, os.Args[2:])
	case "list":
		err = app.list(ctx, os.Args[2:])
	case "budget":
		err = app.budget(ctx, os.Args[2:])
	case "stats":
		err = app.stats(ctx, os.Args[2:])
	case "report":
		err = app.report(ctx, os.Args[2:])
	case "backup":
		err = app.backup(ctx)
	case "backups":
		err = app.backups()
	case "restore":
		err = app.restore(ctx, os.Args[2:])
	case "threshold":
		err = app.threshold(os.Args[2:])
	case "watch":
		err = app.watch(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// open builds the service stack on the configured backend. The caller closes
// the returned service, which also closes the store.
func (a *app) open() (*services.ExpenseService, ledger.Store) {
	store := cli.OpenStore(a.logger, a.cfg)
	return services.NewExpenseService(store, budget.NewTracker(store)), store
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	date := fs.String("date", time.Now().Format(core.DateLayout), "expense date (YYYY-MM-DD)")
	amount := fs.String("amount", "", "expense amount, e.g. 12.50")
	category := fs.String("category", "", "expense category")
	desc := fs.String("desc", "", "optional description")
	fs.Parse(args)

	day, err := time.Parse(core.DateLayout, *date)
	if err != nil {
		return core.ErrInvalidDate
	}
	money, err := core.ParseAmount(*amount)
	if err != nil {
		return err
	}

	svc, store := a.open()
	defer svc.Close()

	e := core.Expense{Date: day, Amount: money, Category: *category, Description: *desc}
	if err := svc.AddExpense(ctx, e); err != nil {
		return err
	}
	if _, err := svc.RefreshStats(ctx); err != nil {
		return err
	}
	fmt.Printf("Recorded %s %s (%s)\n", *date, money, *category)

	// One-shot budget check so threshold warnings show up right away.
	thresholds := settings.NewStore(a.cfg.SettingsFile)
	watcher := budget.NewWatcher(store, thresholds.Threshold, a.cfg.AlertInterval, func(alert budget.Alert) {
		fmt.Printf("Warning: %s spending reached %s of the %s budget (threshold %d%%)\n",
			alert.Budget.Month, alert.Budget.Spent, alert.Budget.Amount, alert.Threshold)
	})
	if _, err := watcher.Check(ctx); err != nil {
		return err
	}
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("query", "", "substring to search for")
	field := fs.String("field", "all", "field to search: all, date, category, description")
	fs.Parse(args)

	svc, _ := a.open()
	defer svc.Close()

	expenses, err := svc.Search(ctx, *query, services.SearchField(*field))
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Println("No expenses found.")
		return nil
	}
	var total core.Money
	for _, e := range expenses {
		fmt.Printf("%s  %10s  %-15s %s\n", e.Date.Format(core.DateLayout), e.Amount, e.Category, e.Description)
		total.Cents += e.Amount.Cents
	}
	fmt.Printf("%d expenses, total %s\n", len(expenses), total)
	return nil
}

func (a *app) budget(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budget", flag.ExitOnError)
	month := fs.String("month", core.MonthLabel(time.Now()), "month name, e.g. March")
	amount := fs.String("amount", "", "budget amount to set; omit to show the current budget")
	fs.Parse(args)

	svc, _ := a.open()
	defer svc.Close()

	if *amount != "" {
		money, err := core.ParseAmount(*amount)
		if err != nil {
			return err
		}
		if err := svc.SetBudget(ctx, *month, money); err != nil {
			return err
		}
		fmt.Printf("Budget for %s set to %s\n", *month, money)
		return nil
	}

	b, ok, err := svc.Budget(ctx, *month)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("No budget set for %s.\n", *month)
		return nil
	}
	fmt.Printf("%s: budget %s, spent %s, remaining %s\n", b.Month, b.Amount, b.Spent, b.Remaining)
	return nil
}

func (a *app) stats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	chart := fs.Bool("chart", false, "emit chart data as JSON")
	fs.Parse(args)

	svc, _ := a.open()
	defer svc.Close()

	stats, err := svc.RefreshStats(ctx)
	if err != nil {
		return err
	}
	if *chart {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report.ChartData(stats))
	}
	if len(stats) == 0 {
		fmt.Println("No expenses recorded yet.")
		return nil
	}
	for _, st := range stats {
		fmt.Printf("%-15s %10s  %s\n", st.Category, st.Total, st.Percentage)
	}
	return nil
}

func (a *app) report(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	month := fs.String("month", core.MonthLabel(time.Now()), "month name, e.g. March")
	out := fs.String("out", "", "output PDF path; defaults to <report dir>/<month>.pdf")
	fs.Parse(args)

	if a.cfg.ReportFont == "" {
		return fmt.Errorf("no report font configured, set SPENDBOOK_REPORT_FONT to a .ttf file")
	}

	svc, store := a.open()
	defer svc.Close()

	summary, err := report.BuildMonthly(ctx, *month, store, store)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		if err := os.MkdirAll(a.cfg.ReportDir, 0755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
		path = filepath.Join(a.cfg.ReportDir, strings.ToLower(*month)+".pdf")
	}
	if err := report.WritePDF(summary, a.cfg.ReportFont, path); err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}

func (a *app) backup(ctx context.Context) error {
	svc, mgr, err := a.openWithBackups()
	if err != nil {
		return err
	}
	defer svc.Close()

	name, err := mgr.Create(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Backup created: %s\n", name)
	return nil
}

func (a *app) backups() error {
	mgr := backup.NewManager(a.cfg.DataFile, a.cfg.BackupDir, nil)
	names, err := mgr.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No backups found.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func (a *app) restore(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	name := fs.String("name", "", "backup file name as shown by 'spendbook backups'")
	fs.Parse(args)
	if *name == "" {
		return fmt.Errorf("missing -name")
	}

	svc, mgr, err := a.openWithBackups()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := mgr.Restore(ctx, *name); err != nil {
		return err
	}
	fmt.Printf("Restored data file from %s\n", *name)
	return nil
}

// openWithBackups opens the service and a backup manager bound to the same
// store. Backups need a file on disk, so the memory backend is rejected.
func (a *app) openWithBackups() (*services.ExpenseService, *backup.Manager, error) {
	if a.cfg.Backend != "workbook" {
		return nil, nil, fmt.Errorf("backups require the workbook backend")
	}
	store := cli.OpenStore(a.logger, a.cfg)
	reopener, ok := store.(backup.Reopener)
	if !ok {
		store.Close()
		return nil, nil, fmt.Errorf("backend %q does not support backups", a.cfg.Backend)
	}
	svc := services.NewExpenseService(store, budget.NewTracker(store))
	return svc, backup.NewManager(a.cfg.DataFile, a.cfg.BackupDir, reopener), nil
}

func (a *app) threshold(args []string) error {
	fs := flag.NewFlagSet("threshold", flag.ExitOnError)
	value := fs.Int("value", -1, "alert threshold percentage (0-100); omit to show the current value")
	fs.Parse(args)

	store := settings.NewStore(a.cfg.SettingsFile)
	if *value < 0 {
		fmt.Printf("Alert threshold: %d%%\n", store.Threshold())
		return nil
	}
	if err := store.Save(*value); err != nil {
		return err
	}
	fmt.Printf("Alert threshold set to %d%%\n", *value)
	return nil
}

func (a *app) watch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	fs.Parse(args)

	svc, store := a.open()
	defer svc.Close()

	thresholds := settings.NewStore(a.cfg.SettingsFile)
	watcher := budget.NewWatcher(store, thresholds.Threshold, a.cfg.AlertInterval, func(alert budget.Alert) {
		fmt.Printf("ALERT: %s spending at %s of %s budget (threshold %d%%)\n",
			alert.Budget.Month, alert.Budget.Spent, alert.Budget.Amount, alert.Threshold)
	})
	refresher := worker.NewStatsRefresher(svc, a.cfg.RefreshInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Watching budgets, press Ctrl+C to stop.")
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watcher.Run(ctx) })
	g.Go(func() error { return refresher.Run(ctx) })
	return g.Wait()
}
