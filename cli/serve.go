package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodies-api/config"
	"foodies-api/handlers"
	"foodies-api/notify"
	"foodies-api/routes"
	"foodies-api/service"
	"foodies-api/statemachine"
	"foodies-api/store"
	"foodies-api/store/mongostore"
	"foodies-api/store/sqlstore"
	"foodies-api/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the order-confirmation worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

// closer releases something opened while wiring the server.
type closer func(context.Context)

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.TracingExporter, cfg.OTLPEndpoint, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := config.OpenDB(cfg.DatabasePath, logger)
	if err != nil {
		return err
	}

	core, closeCore, err := openCore(ctx, cfg, db, logger)
	if err != nil {
		return err
	}
	defer closeCore(context.WithoutCancel(ctx))

	queue, closeQueue, err := openQueue(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeQueue(context.WithoutCancel(ctx))

	mailer, err := newMailer(cfg, logger)
	if err != nil {
		return err
	}

	shipping := service.NewShippingService(core)
	h := &handlers.Handler{
		DB:        db,
		Carts:     service.NewCartService(core, shipping),
		Orders:    service.NewOrderService(core, shipping, queue, statemachine.Policy{Strict: cfg.StrictTransitions}, logger),
		Shipping:  shipping,
		JWTSecret: []byte(cfg.JWTSecret),
		Logger:    logger,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(routes.NewRouter(h, logger), telemetry.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}
	worker := notify.NewWorker(queue, mailer, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("core_store", cfg.CoreStore),
			zap.Bool("strict_transitions", cfg.StrictTransitions),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// openCore picks where carts, orders and the shipping policy live.
func openCore(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.Logger) (store.Core, closer, error) {
	if cfg.CoreStore != "mongo" {
		return sqlstore.New(db), func(context.Context) {}, nil
	}

	client, st, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}
	if err := st.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	logger.Info("core documents stored in mongo", zap.String("database", cfg.MongoDatabase))
	return st, func(ctx context.Context) {
		if err := client.Disconnect(ctx); err != nil {
			logger.Warn("mongo disconnect", zap.Error(err))
		}
	}, nil
}

// openQueue returns the redis queue when REDIS_ADDR is set, the in-process one otherwise.
func openQueue(ctx context.Context, cfg *config.Config, logger *zap.Logger) (notify.Queue, closer, error) {
	if cfg.RedisAddr == "" {
		logger.Info("order events use the in-process queue")
		return notify.NewMemoryQueue(0), func(context.Context) {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("order events use redis", zap.String("addr", cfg.RedisAddr))
	return notify.NewRedisQueue(client, notify.DefaultQueueKey), func(context.Context) {
		_ = client.Close()
	}, nil
}

func newMailer(cfg *config.Config, logger *zap.Logger) (notify.Mailer, error) {
	switch cfg.MailProvider {
	case "postmark":
		return notify.NewPostmarkMailer(cfg.PostmarkToken, cfg.MailFrom), nil
	case "sendgrid":
		return notify.NewSendgridMailer(cfg.SendgridAPIKey, cfg.MailFrom), nil
	case "log", "":
		return notify.NewLogMailer(logger), nil
	}
	return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
}
