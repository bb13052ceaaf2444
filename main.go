package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Furnace/internal/auth"
	"Furnace/internal/calc/antimony"
	"Furnace/internal/calc/batch"
	"Furnace/internal/calc/flotation"
	"Furnace/internal/calc/importer"
	"Furnace/internal/calc/leaching"
	"Furnace/internal/calc/report"
	"Furnace/internal/calc/sorption"
	"Furnace/internal/config"
	"Furnace/internal/lab"
	"Furnace/internal/repo"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLog tags every request with an id and logs it once served.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		zap.L().Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func HandleList(mux *mux.Router, store *repo.Store, cfg *config.Config) {
	authEnv := &auth.Authenv{
		JWTkey:       []byte(cfg.Auth.TokenKey),
		Repo:         store,
		SecureCookie: cfg.Auth.SecureCookie,
	}
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.Auth.RatePerSec), cfg.Auth.Burst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.NewRoute().Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	antimonyH := antimony.NewHandler(store)
	flotationH := &flotation.Handler{Store: store}
	importH := &importer.Handler{Store: store}
	leachingH := &leaching.Handler{Store: store}
	batchH := &batch.Handler{Store: store}
	sorptionH := sorption.NewHandler(store)
	reportH := &report.Handler{Store: store}
	labH := &lab.Handler{Store: store}

	secureApi.HandleFunc("/antimony/calculate", antimonyH.Calc).Methods("POST")

	secureApi.HandleFunc("/flotation/calculate", flotationH.Calc).Methods("POST")
	secureApi.HandleFunc("/flotation/reagents", flotationH.Reagents).Methods("GET")
	secureApi.HandleFunc("/flotation/import", importH.Flotation).Methods("POST")

	secureApi.HandleFunc("/leaching/calculate", leachingH.Calc).Methods("POST")
	secureApi.HandleFunc("/leaching/reference", batchH.Reference).Methods("GET", "POST")
	secureApi.HandleFunc("/batch/leaching", batchH.Leaching).Methods("POST")

	secureApi.HandleFunc("/sorption/calculate", sorptionH.Calc).Methods("POST")
	secureApi.HandleFunc("/sorption/kinetics", sorptionH.Kinetics).Methods("POST")

	secureApi.HandleFunc("/experiments/detail/{id:[0-9]+}/report", reportH.Experiment).Methods("GET")
	secureApi.HandleFunc("/experiments/detail/{id}", labH.Detail).Methods("GET")
	secureApi.HandleFunc("/experiments/{process}/export", labH.Export).Methods("GET")
	secureApi.HandleFunc("/experiments/{process}", labH.List).Methods("GET")
	secureApi.HandleFunc("/dashboard/{process}", labH.Dashboard).Methods("GET")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("load config", zap.Error(err))
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		zap.L().Fatal("init logger", zap.Error(err))
	}
	defer zap.L().Sync() //nolint:errcheck
	if err := cfg.Validate("serve"); err != nil {
		zap.L().Fatal("invalid config", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	driver, err := repo.ParseDriver(cfg.Store.Driver)
	if err != nil {
		zap.L().Fatal("store driver", zap.Error(err))
	}
	store, err := repo.Open(ctx, driver, cfg.Store.DatabaseURL)
	if err != nil {
		zap.L().Fatal("open store", zap.Error(err))
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		zap.L().Fatal("migrate", zap.Error(err))
	}

	mux := mux.NewRouter()
	mux.Use(RequestLog)
	HandleList(mux, store, cfg)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: CORS(mux),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		zap.L().Info("starting server", zap.String("addr", cfg.Server.Addr), zap.Bool("tls", cfg.Server.TLS()))
		var err error
		if cfg.Server.TLS() {
			err = server.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			zap.L().Error("server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutdown signal received, closing connections")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
	wg.Wait()
	zap.L().Info("server stopped")
}
