package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/pefman/tracker-detail/internal/api"
	"github.com/pefman/tracker-detail/internal/config"
	"github.com/pefman/tracker-detail/internal/dom"
	"github.com/pefman/tracker-detail/internal/hub"
	"github.com/pefman/tracker-detail/internal/logging"
	"github.com/pefman/tracker-detail/internal/render"
)

// newApp wires the document, renderer, hub and fetcher for cfg.
func newApp(ctx context.Context, cfg config.DashboardConfig, log *zap.Logger) *app {
	doc := dom.New()
	doc.RegisterTracker(config.LoadingTrackerKey, []string{"Legend"})
	trackers := make(map[string]int64, len(cfg.Trackers))
	for _, t := range cfg.Trackers {
		doc.RegisterTracker(t.TrackerKey, cfg.Legends)
		trackers[t.TrackerKey] = t.PlayerUID
	}

	h := hub.New(func() any { return doc.Snapshot() }, log.Named("hub"))
	doc.Subscribe(func(p dom.Patch) {
		h.Broadcast(hub.Message{Type: hub.TypePatch, Data: p})
	})

	renderer := render.New(doc,
		render.WithLocale(language.Make(cfg.Locale)),
		render.WithLogger(log.Named("render")))
	renderer.SetDefaultValues()

	client := api.NewClient(cfg.ScriptRoot,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(log.Named("api")))

	return &app{
		ctx:      ctx,
		title:    cfg.Title,
		trackers: trackers,
		doc:      doc,
		updater:  layoutUpdater{doc: doc, renderer: renderer},
		client:   client,
		hub:      h,
		log:      log,
	}
}

func subscriptions(cfg config.DashboardConfig) []api.Subscription {
	subs := make([]api.Subscription, 0, len(cfg.Trackers))
	for _, t := range cfg.Trackers {
		subs = append(subs, api.Subscription{PlayerUID: t.PlayerUID, TrackerKey: t.TrackerKey})
	}
	return subs
}

func main() {
	configPath := flag.String("config", os.Getenv("TRACKER_CONFIG"), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	config.ApplyEnv(cfg)
	if err := config.Validate(cfg); err != nil {
		panic(err)
	}
	config.Normalize(cfg)

	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(ctx, cfg.Dashboard, log)
	defer a.hub.Close()

	refresher := api.NewRefresher(a.client, a.updater, subscriptions(cfg.Dashboard),
		cfg.Dashboard.RefreshInterval, log.Named("refresher"))
	if err := refresher.Start(ctx); err != nil {
		log.Fatal("start refresher", zap.Error(err))
	}
	defer refresher.Stop()

	addr := config.Port(cfg.Dashboard.Listen)
	srv := &http.Server{Addr: addr, Handler: a.routes(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Info("dashboard listening",
		zap.String("addr", addr),
		zap.String("script_root", cfg.Dashboard.ScriptRoot),
		zap.Int("trackers", len(cfg.Dashboard.Trackers)))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("listen", zap.Error(err))
	}
}
