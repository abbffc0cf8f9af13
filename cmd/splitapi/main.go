package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iov-one/splitpay/app"
	"github.com/iov-one/splitpay/cmd/splitapi/handlers"
	"github.com/iov-one/splitpay/store/iavl"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/tendermint/tendermint/libs/log"
)

// Build information. Set during compilation.
var (
	BuildHash    = "dev"
	BuildVersion = "dev"
)

type configuration struct {
	HTTP        string
	Home        string
	LogLevel    string
	CORSOrigins string
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "cannot load .env file: %s\n", err)
		os.Exit(2)
	}

	conf := configuration{
		HTTP:        env("SPLITAPI_HTTP", ":8000"),
		Home:        env("SPLITAPI_HOME", os.Getenv("HOME")+"/.splitpay"),
		LogLevel:    env("SPLITAPI_LOG_LEVEL", "info"),
		CORSOrigins: env("SPLITAPI_CORS_ORIGINS", "*"),
	}

	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "splitapi")
	opt, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %s\n", err)
		os.Exit(2)
	}
	logger = log.NewFilter(logger, opt)

	if err := run(conf, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func run(conf configuration, logger log.Logger) error {
	st := &dirStore{dir: filepath.Join(conf.Home, "data"), logger: logger}
	build := handlers.BuildInfo{Hash: BuildHash, Version: BuildVersion}

	logger.Info("serving state", "home", conf.Home, "http", conf.HTTP)
	if err := http.ListenAndServe(conf.HTTP, newRouter(conf, st, logger, build)); err != nil {
		return fmt.Errorf("http server: %s", err)
	}
	return nil
}

func newRouter(conf configuration, st handlers.Store, logger log.Logger, build handlers.BuildInfo) http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: splitOrigins(conf.CORSOrigins),
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsHandler.Handler)

	r.Mount("/", handlers.Router(st, logger, build))
	return r
}

// dirStore opens the state directory for every request, so that the command
// line client can modify the state in between.
type dirStore struct {
	mu     sync.Mutex
	dir    string
	logger log.Logger
}

func (s *dirStore) Open(fn func(q handlers.Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := iavl.NewCommitStore(s.dir, "state")
	if err != nil {
		return fmt.Errorf("cannot open state: %s", err)
	}
	defer store.Close()
	node, err := app.NewNode(store, app.Stack(nil), app.QueryRouter())
	if err != nil {
		return fmt.Errorf("cannot load state: %s", err)
	}
	node.WithLogger(s.logger)
	return fn(node)
}
