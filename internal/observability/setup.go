package observability

import (
	"context"
	"os"

	"github.com/honeynil/bankfront/internal/config"
	"github.com/honeynil/bankfront/internal/infrastructure/observability"
)

// Setup initializes logs, metrics and traces for a binary and returns the
// tracer shutdown.
func Setup(serviceName string, cfg *config.Config) func(context.Context) error {
	observability.InitLogger(os.Stdout, observability.ParseLevel(cfg.LogLevel))
	observability.InitMetrics(cfg.MetricsAddr)
	return observability.InitTracing(serviceName, cfg.OTLPEndpoint)
}
