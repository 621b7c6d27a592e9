package commands

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	ghandlers "github.com/gorilla/handlers"
	"github.com/spf13/cobra"

	"yatube/cache"
	"yatube/config"
	"yatube/database"
	"yatube/events"
	"yatube/graph"
	"yatube/handlers"
	"yatube/media"
	"yatube/session"
	"yatube/store"
	"yatube/telemetry"
)

var (
	addr        string
	logEvents   bool
	releaseMode bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server. Postgres is required; Redis, MongoDB, NATS and
Neo4j are used when their environment variables are set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr != "" {
			cfg.Addr = addr
		}
		if releaseMode {
			gin.SetMode(gin.ReleaseMode)
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&logEvents, "log-events", false, "Log every domain event received from NATS")
	serveCmd.Flags().BoolVar(&releaseMode, "release", false, "Run gin in release mode")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(cfg.OTelStdout)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		return err
	}

	st := store.New(db)
	deps := handlers.Deps{
		Store:       st,
		Sessions:    session.NewManager(cfg.JWTSecret, st),
		Media:       media.NewFilesystem(cfg.MediaDir),
		Pages:       cache.NewMemory(),
		PageTTL:     cfg.CacheTTL,
		CORSOrigins: cfg.CORSOrigins,
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		deps.Pages = cache.NewRedis(rdb)
	}

	if cfg.MongoURI != "" {
		client, err := media.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())
		gridfs, err := media.NewGridFS(client.Database("yatube"))
		if err != nil {
			return err
		}
		deps.Media = gridfs
	}

	if cfg.NatsURL != "" {
		nc, err := events.Connect(cfg.NatsURL)
		if err != nil {
			return err
		}
		defer nc.Drain()
		deps.Events = events.NewNATS(nc)
		if logEvents {
			if _, err := events.Subscribe(nc, func(subject string, e events.Event) {
				log.Printf("[INFO] event %s: %+v", subject, e)
			}); err != nil {
				return err
			}
		}
	}

	if cfg.Neo4jURI != "" {
		drv, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPass)
		if err != nil {
			log.Printf("[WARN] recommendations disabled: %v", err)
		} else {
			defer drv.Close(context.Background())
			deps.Graph = graph.NewNeo4j(drv)
		}
	}

	router := handlers.NewServer(deps).Router()
	var h http.Handler = ghandlers.ProxyHeaders(router)
	h = ghandlers.CombinedLoggingHandler(os.Stdout, h)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Yatube starting on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("[INFO] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
