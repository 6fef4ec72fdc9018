package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"go.uber.org/zap"

	"github.com/gigurra/subscription-tracker/internal"
)

type Params struct {
	Action string `descr:"What to do (default: overview)" positional:"true" optional:"true" alts:"overview,list,upcoming,categories,cycles,timeline,add,update,remove,import,export,init-config" strict:"true"`
	Config string `descr:"Path to config file (default: ~/.subscription-tracker/config.yaml)" optional:"true"`
	Today  string `descr:"Reference date YYYY-MM-DD (default: the current local date)" optional:"true"`
	Window int    `descr:"Days ahead a renewal counts as upcoming (default: window_days from config)" optional:"true"`
	Output string `descr:"Output format" alts:"table,json" default:"table" strict:"true"`

	// filters
	Status   string `descr:"Show subscriptions by effective status" alts:"all,active,inactive" default:"all" strict:"true"`
	Category string `descr:"Category filter for views, or the category to set for add/update" optional:"true"`
	Cycle    string `descr:"Show subscriptions by billing cycle" alts:"all,monthly,yearly,custom" default:"all" strict:"true"`
	Search   string `descr:"Case-insensitive search over name and category" optional:"true"`
	Sort     string `descr:"Sort field for list" alts:"name,cost,monthly,renewal" default:"name" strict:"true"`
	SortDir  string `descr:"Sort direction for list" alts:"asc,desc" default:"asc" strict:"true"`

	// editing
	ID      string `descr:"Subscription id or unique id prefix (update, remove)" optional:"true"`
	Name    string `descr:"Subscription name (add, update)" optional:"true"`
	Cost    string `descr:"Cost per billing period (add, update)" optional:"true"`
	Billing string `descr:"Billing cycle: monthly, yearly or custom (add, update)" optional:"true"`
	Months  int    `descr:"Months per custom billing cycle (add, update)" default:"0"`
	Start   string `descr:"Start date YYYY-MM-DD (add, update)" optional:"true"`
	End     string `descr:"End date YYYY-MM-DD, or 'none' to clear it (add, update)" optional:"true"`
	State   string `descr:"Stored status: active or inactive (add, update)" optional:"true"`

	File string `descr:"File for import/export, optionally prefixed with its format (json:subs.txt, xlsx:subs.xlsx)" optional:"true"`

	// WindowSet is true when --window was given, so that 0 overrides the config too
	WindowSet bool `boa:"ignore"`
}

// envPrefix namespaces the environment variables bound to flags (SUBSCRIPTION_TRACKER_OUTPUT, ...)
const envPrefix = "SUBSCRIPTION_TRACKER"

func main() {
	cmd, err := newCommand(os.Stdout).ToCmd().ToCobraE()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cmd.SilenceUsage = true
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand(w io.Writer) boa.CmdT[Params] {
	return boa.NewCmdT[Params]("subscription-tracker").
		WithShort("Track recurring subscriptions, their costs and upcoming renewals").
		WithLong("Records recurring subscriptions with monthly, yearly or custom N-month billing cycles, " +
			"normalizes their cost to monthly and yearly totals, and lists the renewals coming up within a configurable window.").
		WithParamEnrich(boa.ParamEnricherCombine(
			boa.ParamEnricherName,
			boa.ParamEnricherShort,
			boa.ParamEnricherEnv,
			boa.ParamEnricherEnvPrefix(envPrefix),
			boa.ParamEnricherBool,
		)).
		WithRunFuncCtxE(func(hc *boa.HookContext, params *Params) error {
			params.WindowSet = hc.HasValue(&params.Window)
			return run(context.Background(), params, w)
		})
}

func run(ctx context.Context, params *Params, w io.Writer) error {
	configPath := params.Config
	if configPath == "" {
		configPath = internal.DefaultConfigPath()
	}

	if params.Action == "" {
		params.Action = "overview"
	}

	if params.Action == "init-config" {
		return initConfig(configPath, w)
	}

	cfg, err := internal.LoadConfigOrDefault(configPath)
	if err != nil {
		return err
	}

	log, err := internal.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	today, err := resolveToday(params.Today)
	if err != nil {
		return err
	}

	repo, closeRepo := openRepository(ctx, cfg, log)
	defer closeRepo()

	tracker := internal.NewTracker(ctx, internal.NewSoftStore(repo, log), log)

	windowDays := cfg.WindowDays
	if params.WindowSet {
		if params.Window < 0 {
			return fmt.Errorf("--window must not be negative, got %d", params.Window)
		}
		windowDays = params.Window
	}

	opts := internal.OutputOptions{
		Format:     params.Output,
		Today:      today,
		WindowDays: windowDays,
		Renewal:    cfg.RenewalOptions(),
		Currency:   internal.ResolveCurrency(cfg.Currency),
		Icons:      cfg.Icons,
		SortField:  params.Sort,
		SortDir:    params.SortDir,
		Log:        log,
	}

	filter := internal.Filter{
		Status:   params.Status,
		Category: params.Category,
		Cycle:    params.Cycle,
		Search:   params.Search,
	}
	visible := func() []internal.Subscription {
		return internal.FilterSubscriptions(tracker.All(), filter, today)
	}

	switch params.Action {
	case "overview":
		return internal.PrintOverview(w, visible(), opts)
	case "list":
		return internal.PrintList(w, visible(), opts)
	case "upcoming":
		return internal.PrintUpcoming(w, visible(), opts)
	case "categories":
		return internal.PrintCategories(w, visible(), opts)
	case "cycles":
		return internal.PrintCycles(w, visible(), opts)
	case "timeline":
		return internal.PrintTimeline(w, visible(), cfg.TimelineMonths, opts)
	case "add":
		sub, err := tracker.Add(ctx, applyEdits(internal.SubscriptionInput{}, params))
		if err != nil {
			return err
		}
		return internal.PrintSubscription(w, sub, opts)
	case "update":
		existing, err := tracker.Resolve(params.ID)
		if err != nil {
			return err
		}
		sub, err := tracker.Update(ctx, existing.ID, applyEdits(internal.InputFromSubscription(existing), params))
		if err != nil {
			return err
		}
		return internal.PrintSubscription(w, sub, opts)
	case "remove":
		existing, err := tracker.Resolve(params.ID)
		if err != nil {
			return err
		}
		if err := tracker.Remove(ctx, existing.ID); err != nil {
			return err
		}
		fmt.Fprintf(w, "Removed %s (%s)\n", existing.Name, existing.ID)
		return nil
	case "import":
		format, path, err := resolveFile(params.File)
		if err != nil {
			return err
		}
		subs, err := format.Import(path)
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		added, updated := tracker.Merge(ctx, subs)
		fmt.Fprintf(w, "Imported %d subscriptions from %s (%d new, %d updated)\n", len(subs), path, added, updated)
		return nil
	case "export":
		format, path, err := resolveFile(params.File)
		if err != nil {
			return err
		}
		subs := tracker.All()
		if err := format.Export(path, subs); err != nil {
			return fmt.Errorf("exporting %s: %w", path, err)
		}
		fmt.Fprintf(w, "Exported %d subscriptions to %s\n", len(subs), path)
		return nil
	default:
		return fmt.Errorf("unknown action: %s", params.Action)
	}
}

// applyEdits overlays the editing flags that were given onto in
func applyEdits(in internal.SubscriptionInput, params *Params) internal.SubscriptionInput {
	if params.Name != "" {
		in.Name = params.Name
	}
	if params.Category != "" {
		in.Category = params.Category
	}
	if params.Cost != "" {
		in.Cost = params.Cost
	}
	if params.Billing != "" {
		in.Cycle = params.Billing
	}
	if params.Months != 0 {
		in.Months = params.Months
	}
	if params.Start != "" {
		in.StartDate = params.Start
	}
	switch {
	case strings.EqualFold(params.End, "none"):
		in.EndDate = ""
	case params.End != "":
		in.EndDate = params.End
	}
	if params.State != "" {
		in.Status = params.State
	}
	return in
}

func resolveToday(arg string) (time.Time, error) {
	if arg == "" {
		return internal.DateOf(time.Now()), nil
	}
	return internal.ParseDate(arg)
}

func resolveFile(arg string) (internal.Format, string, error) {
	if arg == "" {
		return internal.Format{}, "", fmt.Errorf("--file is required (available formats: %v)", internal.AvailableFormats())
	}
	return internal.ResolveFormat(arg)
}

// openRepository opens the configured backend. A backend that cannot be opened is
// replaced by one that fails every call, so the tracker still starts on default data.
func openRepository(ctx context.Context, cfg *internal.Config, log *zap.Logger) (internal.Repository, func()) {
	path := cfg.ResolvedDataPath()
	if cfg.Store != internal.StoreSQLite {
		return internal.NewJSONFileRepository(path), func() {}
	}

	repo, err := internal.OpenSQLiteRepository(ctx, path)
	if err != nil {
		log.Error("opening SQLite store", zap.String("path", path), zap.Error(err))
		return internal.UnavailableRepository{Err: err}, func() {}
	}
	return repo, func() {
		if err := repo.Close(); err != nil {
			log.Warn("closing SQLite store", zap.Error(err))
		}
	}
}

func initConfig(path string, w io.Writer) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config file: %w", err)
	}

	cfg := internal.GenerateConfigTemplate(internal.DefaultSubscriptions())
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote config template to %s\n", path)
	return nil
}
