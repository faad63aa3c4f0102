package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rebate_audit/internal/config"
	"rebate_audit/internal/database"
	"rebate_audit/internal/generator"
	"rebate_audit/internal/handlers"
	"rebate_audit/internal/models"
	"rebate_audit/internal/queries"
	"rebate_audit/internal/redis"
	"rebate_audit/internal/render"
	"rebate_audit/internal/services"
	"rebate_audit/internal/validation"
)

// usageError marks a bad command line, as opposed to a failed run.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// parseFlags leaves flag.ErrHelp as is and marks every other parse failure as
// a usage error. The flag set has already printed the details.
func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return &usageError{err: err}
}

// app holds what every subcommand shares, resolved once from config.
type app struct {
	cfg         *config.Config
	log         *logrus.Entry
	store       *database.Store
	redisClient *redis.Client
	cache       services.ReportCache
	seedService services.SeedService
}

func newApp(cfg *config.Config, log *logrus.Entry) *app {
	a := &app{
		cfg:   cfg,
		log:   log,
		store: database.NewStore(cfg.DatabaseURL, log, cfg.DBLogLevel),
	}

	// Initialize Redis when configured; the audit works without it
	if cfg.RedisURL != "" {
		client, err := redis.Initialize(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("report cache disabled")
		} else {
			a.redisClient = client
			a.cache = client
		}
	}

	opts := generator.DefaultOptions()
	opts.Seed = cfg.Seed
	a.seedService = services.NewSeedService(a.store, opts, a.cache, log)
	return a
}

func (a *app) close() {
	if a.redisClient != nil {
		a.redisClient.Close()
	}
}

func (a *app) reportService() (services.ReportService, error) {
	query, err := queries.LoadReport(a.cfg.ReportSQLPath)
	if err != nil {
		return nil, err
	}
	return services.NewReportService(a.store, query, a.cache, time.Duration(a.cfg.CacheTTL)*time.Second, a.log), nil
}

func (a *app) seed(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stdout)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	result, err := a.seedService.Seed(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Seeded fake audit data into %s\n", a.store.Target().DSN)
	fmt.Fprintf(stdout, "orders=%d details=%d units=%d digest=%s\n",
		result.Counts.Orders, result.Counts.Details, result.Counts.Units, result.Digest)
	return nil
}

func (a *app) report(ctx context.Context, args []string, stdout io.Writer) error {
	defaults := models.DefaultReportParams()
	var params models.ReportParams
	var out string

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.StringVar(&params.Start, "start", defaults.Start, "window start date, inclusive (YYYY-MM-DD)")
	fs.StringVar(&params.End, "end", defaults.End, "window end date, exclusive (YYYY-MM-DD)")
	fs.StringVar(&params.Partner, "partner", defaults.Partner, "partner identifier")
	fs.StringVar(&out, "out", "audit_rebate.csv", "CSV output path, empty to skip")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := validation.ReportParams(validation.New(), params); err != nil {
		return err
	}

	reportService, err := a.reportService()
	if err != nil {
		return err
	}
	if _, err := a.seedService.EnsureStore(ctx); err != nil {
		return err
	}
	result, err := reportService.Run(ctx, params)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "\n=== Parameters ===\n%s\n", params)
	fmt.Fprintf(stdout, "\n=== Audit Result ===\n")
	if err := render.WriteTable(stdout, result); err != nil {
		return err
	}

	if out != "" {
		if err := render.SaveCSV(out, result); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nSaved CSV to %s\n", out)
	}
	return nil
}

func (a *app) serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := fs.String("port", a.cfg.ServerPort, "listen port")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	reportService, err := a.reportService()
	if err != nil {
		return err
	}

	if a.log.Logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	apiHandler := handlers.NewAPIHandler(a.seedService, reportService, a.log)
	srv := &http.Server{
		Addr:    ":" + *port,
		Handler: handlers.NewRouter(apiHandler),
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("Server starting on port %s", *port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
