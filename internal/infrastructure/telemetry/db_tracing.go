package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/landscape/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQueryThresh = 200 * time.Millisecond

type queryStartKey struct{}

// DBTracing registers otelgorm spans plus slow query marking on a GORM DB
type DBTracing struct {
	slowThresh time.Duration
	logFullSQL bool
	logger     *zap.Logger
}

// NewDBTracing builds the plugin from telemetry settings
func NewDBTracing(cfg config.TelemetryConfig, logger *zap.Logger) *DBTracing {
	thresh := cfg.DBSlowQueryThresh
	if thresh <= 0 {
		thresh = defaultSlowQueryThresh
	}
	return &DBTracing{slowThresh: thresh, logFullSQL: cfg.DBLogFullSQL, logger: logger}
}

// Register installs otelgorm and the timing callbacks
func (t *DBTracing) Register(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !t.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("landscape:before_create", markStart),
		cb.Query().Before("gorm:query").Register("landscape:before_query", markStart),
		cb.Update().Before("gorm:update").Register("landscape:before_update", markStart),
		cb.Delete().Before("gorm:delete").Register("landscape:before_delete", markStart),
		cb.Row().Before("gorm:row").Register("landscape:before_row", markStart),
		cb.Raw().Before("gorm:raw").Register("landscape:before_raw", markStart),
		cb.Create().After("gorm:create").Register("landscape:after_create", t.after),
		cb.Query().After("gorm:query").Register("landscape:after_query", t.after),
		cb.Update().After("gorm:update").Register("landscape:after_update", t.after),
		cb.Delete().After("gorm:delete").Register("landscape:after_delete", t.after),
		cb.Row().After("gorm:row").Register("landscape:after_row", t.after),
		cb.Raw().After("gorm:raw").Register("landscape:after_raw", t.after),
	} {
		if err != nil {
			return err
		}
	}

	t.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", t.logFullSQL),
		zap.Duration("slow_query_threshold", t.slowThresh),
	)
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (t *DBTracing) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	elapsed := time.Since(start)
	slow := ok && elapsed > t.slowThresh

	if slow {
		t.logger.Warn("slow query",
			zap.String("table", db.Statement.Table),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", db.Statement.RowsAffected),
		)
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
	if slow {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
