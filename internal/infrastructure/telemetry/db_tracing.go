package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterGormTracing installs the otelgorm plugin so every query becomes a span.
// Query variables are never attached to spans.
func RegisterGormTracing(db *gorm.DB, dbSystem string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(dbSystem),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return err
	}

	logger.Info("Database tracing enabled", zap.String("db_system", dbSystem))
	return nil
}
