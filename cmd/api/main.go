package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/pefman/tracker-detail/internal/config"
	"github.com/pefman/tracker-detail/internal/logging"
	"github.com/pefman/tracker-detail/internal/stats"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

// simple CORS for GET/POST/OPTIONS
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newRouter(s *server) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/_get_tracker_data", s.getTrackerData).Methods(http.MethodGet)
	r.HandleFunc("/_save_tracker_data", s.saveTrackerData).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "unsupported path")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, r.Method+" not allowed")
	})
	return withCORS(r)
}

func openStore(ctx context.Context, cfg config.APIConfig, log *zap.Logger) (stats.Store, func(), error) {
	if cfg.Store != config.StoreMongo {
		log.Info("using in-memory tracker store")
		return stats.NewMemoryStore(), func() {}, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	store := stats.NewMongoStore(client.Database(cfg.MongoDatabase))
	if err := store.EnsureIndexes(cctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	log.Info("connected to mongo", zap.String("database", cfg.MongoDatabase))
	return store, func() { _ = client.Disconnect(context.Background()) }, nil
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

	store, closeStore, err := openStore(ctx, cfg.API, log)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer closeStore()

	s := &server{store: store, staleAfter: cfg.API.StaleAfter, now: time.Now, log: log}

	// Prefer Cloud Run's PORT env var when present
	addr := config.Port(cfg.API.Listen)
	srv := &http.Server{Addr: addr, Handler: newRouter(s), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Info("tracker API listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("listen", zap.Error(err))
	}
}
