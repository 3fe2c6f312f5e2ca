package commands

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"PriceList/internal/config"
	"PriceList/internal/pricing"
	"PriceList/pkg/kit"
)

const serviceLabel = "pricelist"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	log := kit.NewLogger(serviceLabel, cfg.Env)
	defer func() { _ = log.Sync() }()

	logDatabase(log, cfg.Database)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := pricing.NewService(pricing.NewMemStore(), log, pricing.NewMetrics(reg))
	s := &pricing.Server{
		Service:     svc,
		Log:         log,
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
	}

	h := pricing.NewHandler(s, pricing.HTTPDeps{
		Log:              log,
		Service:          serviceLabel,
		Registry:         reg,
		AllowedOrigins:   cfg.Origins(),
		MetricsEnabled:   cfg.MetricsEnabled,
		MetricsToken:     cfg.MetricsToken,
		WriteLimitPerMin: cfg.WriteRateLimitPerMin,
	})

	if err := kit.RunHTTPServer(cmd.Context(), cfg.Addr(), h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
		return err
	}
	return nil
}

func logDatabase(log *zap.Logger, db config.Database) {
	cc, ok, err := db.ConnConfig()
	if err != nil || !ok {
		return
	}
	log.Info("database settings present, prices stay in memory",
		zap.String("db_host", cc.Host),
		zap.Uint16("db_port", cc.Port),
		zap.String("db_name", cc.Database),
		zap.String("db_user", cc.User),
	)
}
