package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Outcome attribute values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// AppMetrics holds the service's domain instruments. A nil *AppMetrics is
// valid and records nothing.
type AppMetrics struct {
	gisCacheLookups *Counter
	gisUpstream     *Histogram
	landscaperCalls *Histogram
	templateApplies *Counter
	documentUploads *Counter
	budgetExports   *Counter
}

// NewAppMetrics registers the domain instruments on meter
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var (
		m   AppMetrics
		err error
	)
	if m.gisCacheLookups, err = NewCounter(meter, "landscape_gis_cache_lookups_total",
		"GIS parcel cache lookups by result", "{lookup}"); err != nil {
		return nil, err
	}
	if m.gisUpstream, err = NewHistogram(meter, HistogramOpts{
		Name:        "landscape_gis_upstream_duration_seconds",
		Description: "ArcGIS query batch latency",
		Unit:        "s",
		Boundaries:  UpstreamDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.landscaperCalls, err = NewHistogram(meter, HistogramOpts{
		Name:        "landscape_landscaper_request_duration_seconds",
		Description: "Landscaper proxy call latency",
		Unit:        "s",
		Boundaries:  UpstreamDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.templateApplies, err = NewCounter(meter, "landscape_budget_template_applies_total",
		"Budget template applications by outcome", "{apply}"); err != nil {
		return nil, err
	}
	if m.documentUploads, err = NewCounter(meter, "landscape_dms_uploads_completed_total",
		"Documents confirmed as uploaded", "{document}"); err != nil {
		return nil, err
	}
	if m.budgetExports, err = NewCounter(meter, "landscape_budget_exports_total",
		"Budget exports by format", "{export}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordGISCache counts cache hits and misses for one lookup batch
func (m *AppMetrics) RecordGISCache(ctx context.Context, hits, misses int) {
	if m == nil {
		return
	}
	if hits > 0 {
		m.gisCacheLookups.Add(ctx, int64(hits), AttrCacheResult.String("hit"))
	}
	if misses > 0 {
		m.gisCacheLookups.Add(ctx, int64(misses), AttrCacheResult.String("miss"))
	}
}

// RecordGISQuery records one ArcGIS batch request
func (m *AppMetrics) RecordGISQuery(ctx context.Context, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.gisUpstream.RecordDuration(ctx, d, AttrOutcome.String(outcome(err)))
}

// RecordLandscaperCall records one proxied call to the Landscaper service
func (m *AppMetrics) RecordLandscaperCall(ctx context.Context, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.landscaperCalls.RecordDuration(ctx, d, AttrOperation.String(operation), AttrOutcome.String(outcome(err)))
}

// RecordTemplateApply counts budget template applications
func (m *AppMetrics) RecordTemplateApply(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.templateApplies.Inc(ctx, AttrOutcome.String(outcome(err)))
}

// RecordDocumentUpload counts completed document uploads
func (m *AppMetrics) RecordDocumentUpload(ctx context.Context) {
	if m == nil {
		return
	}
	m.documentUploads.Inc(ctx)
}

// RecordBudgetExport counts budget exports by format
func (m *AppMetrics) RecordBudgetExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.budgetExports.Inc(ctx, AttrOperation.String(format))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
