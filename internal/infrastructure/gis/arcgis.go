// Package gis implements parcel lookup against an ArcGIS feature service.
package gis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/landscape/backend/internal/domain/gis"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// maxResponseSize limits a feature service response body
	maxResponseSize = 20 * 1024 * 1024

	cacheKeyPrefix = "gis:parcel:"

	// wkidWebMercator is the spatial reference requested from the service
	wkidWebMercator = 3857
)

// FieldMap names the feature service attributes read into a ParcelFeature
type FieldMap struct {
	APN     string
	Situs   string
	Owner   string
	LandUse string
	Acres   string
}

// DefaultFieldMap matches the county assessor parcel layers we consume
var DefaultFieldMap = FieldMap{
	APN:     "APN",
	Situs:   "SITUS_ADDRESS",
	Owner:   "OWNER_NAME",
	LandUse: "LAND_USE_CODE",
	Acres:   "ACRES",
}

// ArcGISClient fetches parcel features by APN. Results are cached per
// normalized parcel id; misses are queried in batches that run concurrently
// behind a shared rate limiter.
type ArcGISClient struct {
	queryURL       string
	httpClient     *http.Client
	cache          shared.TTLCache
	cacheTTL       time.Duration
	batchSize      int
	maxConcurrency int
	limiter        *rate.Limiter
	fields         FieldMap
	metrics        Metrics
	logger         *zap.Logger
}

// Metrics records lookup outcomes. *telemetry.AppMetrics satisfies it.
type Metrics interface {
	RecordGISCache(ctx context.Context, hits, misses int)
	RecordGISQuery(ctx context.Context, d time.Duration, err error)
}

type nopMetrics struct{}

func (nopMetrics) RecordGISCache(context.Context, int, int) {}
func (nopMetrics) RecordGISQuery(context.Context, time.Duration, error) {}

// Option configures an ArcGISClient
type Option func(*ArcGISClient)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(a *ArcGISClient) { a.httpClient = c }
}

// WithFieldMap overrides the attribute names read from the service
func WithFieldMap(f FieldMap) Option {
	return func(a *ArcGISClient) { a.fields = f }
}

// WithMetrics records cache hits and service queries
func WithMetrics(m Metrics) Option {
	return func(a *ArcGISClient) {
		if m != nil {
			a.metrics = m
		}
	}
}

// NewArcGISClient creates a client for the feature layer at cfg.ParcelServiceURL
func NewArcGISClient(cfg config.GISConfig, cache shared.TTLCache, logger *zap.Logger, opts ...Option) (*ArcGISClient, error) {
	if cfg.ParcelServiceURL == "" {
		return nil, errors.New("gis: parcel service url is required")
	}
	if cache == nil {
		return nil, errors.New("gis: cache is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > gis.MaxAPNsPerRequest {
		batchSize = gis.MaxAPNsPerRequest
	}
	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &ArcGISClient{
		queryURL:       strings.TrimRight(cfg.ParcelServiceURL, "/") + "/query",
		httpClient:     &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		cache:          cache,
		cacheTTL:       cfg.CacheTTL,
		batchSize:      batchSize,
		maxConcurrency: concurrency,
		limiter:        rate.NewLimiter(limit, burst),
		fields:         DefaultFieldMap,
		metrics:        nopMetrics{},
		logger:         logger.Named("arcgis"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchByAPN implements gis.ParcelSource
func (c *ArcGISClient) FetchByAPN(ctx context.Context, apns []string) ([]gis.ParcelFeature, error) {
	ids := gis.UniqueParcelIDs(apns)
	if len(ids) == 0 {
		return []gis.ParcelFeature{}, nil
	}

	found := make(map[string]gis.ParcelFeature, len(ids))
	misses := make([]string, 0, len(ids))
	for _, id := range ids {
		if f, ok := c.cached(ctx, id); ok {
			found[id] = f
			continue
		}
		misses = append(misses, id)
	}

	c.metrics.RecordGISCache(ctx, len(ids)-len(misses), len(misses))

	if len(misses) > 0 {
		start := time.Now()
		fetched, err := c.fetch(ctx, misses)
		c.metrics.RecordGISQuery(ctx, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		for _, f := range fetched {
			found[f.ParcelID] = f
			c.store(ctx, f)
		}
		c.logger.Debug("fetched parcels",
			zap.Int("requested", len(ids)),
			zap.Int("cache_hits", len(ids)-len(misses)),
			zap.Int("returned", len(fetched)))
	}

	out := make([]gis.ParcelFeature, 0, len(found))
	for _, id := range ids {
		if f, ok := found[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// fetch queries ids in batches and returns the de-duplicated features in
// batch order.
func (c *ArcGISClient) fetch(ctx context.Context, ids []string) ([]gis.ParcelFeature, error) {
	batches := gis.Batch(ids, c.batchSize)
	results := make([][]gis.ParcelFeature, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrency)
	for i, batch := range batches {
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}
			features, err := c.queryBatch(gctx, batch)
			if err != nil {
				return err
			}
			results[i] = features
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []gis.ParcelFeature
	for _, r := range results {
		all = append(all, r...)
	}
	return gis.DedupeFeatures(all), nil
}

func (c *ArcGISClient) queryBatch(ctx context.Context, ids []string) ([]gis.ParcelFeature, error) {
	params := url.Values{}
	params.Set("where", whereClause(c.fields.APN, ids))
	params.Set("outFields", "*")
	params.Set("returnGeometry", "true")
	params.Set("outSR", strconv.Itoa(wkidWebMercator))
	params.Set("f", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("gis: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, shared.ErrUpstreamUnavailable.WithDetails("parcel service unreachable").Wrap(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("gis: failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, shared.ErrUpstreamUnavailable.
			WithDetails(fmt.Sprintf("parcel service returned HTTP %d", resp.StatusCode))
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, shared.ErrUpstreamUnavailable.WithDetails("parcel service returned malformed JSON").Wrap(err)
	}
	if qr.Error != nil {
		return nil, shared.ErrUpstreamUnavailable.
			WithDetails(fmt.Sprintf("parcel service error %d: %s", qr.Error.Code, qr.Error.Message))
	}

	features := make([]gis.ParcelFeature, 0, len(qr.Features))
	for _, raw := range qr.Features {
		f, err := c.toFeature(raw)
		if err != nil {
			c.logger.Warn("skipping parcel feature", zap.Error(err))
			continue
		}
		features = append(features, f)
	}
	return features, nil
}

func (c *ArcGISClient) toFeature(raw arcgisFeature) (gis.ParcelFeature, error) {
	f := gis.ParcelFeature{
		APN:          attrString(raw.Attributes, c.fields.APN),
		SitusAddress: attrString(raw.Attributes, c.fields.Situs),
		OwnerName:    attrString(raw.Attributes, c.fields.Owner),
		LandUseCode:  attrString(raw.Attributes, c.fields.LandUse),
		Attributes:   raw.Attributes,
	}
	// the parcel id is the normalized APN so cache keys line up with requests
	f.ParcelID = gis.NormalizeParcelID(f.APN)
	if f.ParcelID == "" {
		return f, errors.New("feature has no APN")
	}
	if raw.Geometry == nil || len(raw.Geometry.Rings) == 0 {
		return f, fmt.Errorf("feature %s has no geometry", f.ParcelID)
	}

	rings := make([][]gis.Position, 0, len(raw.Geometry.Rings))
	for _, ring := range raw.Geometry.Rings {
		out := make([]gis.Position, 0, len(ring))
		for _, pt := range ring {
			if len(pt) < 2 {
				return f, fmt.Errorf("feature %s has a malformed coordinate", f.ParcelID)
			}
			out = append(out, gis.WebMercatorToWGS84(pt[0], pt[1]))
		}
		rings = append(rings, out)
	}
	geom, err := gis.NewPolygon(rings)
	if err != nil {
		return f, err
	}
	f.Geometry = geom

	if acres, ok := attrFloat(raw.Attributes, c.fields.Acres); ok && acres > 0 {
		f.Acres = acres
	} else if computed, err := geom.AreaAcres(); err == nil {
		f.Acres = computed
	}
	return f, nil
}

func (c *ArcGISClient) cached(ctx context.Context, id string) (gis.ParcelFeature, bool) {
	var f gis.ParcelFeature
	data, ok, err := c.cache.Get(ctx, cacheKeyPrefix+id)
	if err != nil {
		c.logger.Warn("parcel cache read failed", zap.String("parcel_id", id), zap.Error(err))
		return f, false
	}
	if !ok {
		return f, false
	}
	if err := json.Unmarshal(data, &f); err != nil {
		c.logger.Warn("discarding corrupt cached parcel", zap.String("parcel_id", id), zap.Error(err))
		return f, false
	}
	return f, true
}

func (c *ArcGISClient) store(ctx context.Context, f gis.ParcelFeature) {
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKeyPrefix+f.ParcelID, data, c.cacheTTL); err != nil {
		c.logger.Warn("parcel cache write failed", zap.String("parcel_id", f.ParcelID), zap.Error(err))
	}
}

// whereClause matches the APN field with separators removed. ids are
// already reduced to letters and digits, so quoting cannot be escaped.
// apnSeparators are the punctuation counties put in APNs. The server-side
// expression strips them so it agrees with gis.NormalizeParcelID.
var apnSeparators = []string{"-", " ", ".", "/"}

// whereClause matches normalized ids; ids are letters and digits only, so
// quoting them needs no escaping.
func whereClause(field string, ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "'" + id + "'"
	}
	expr := field
	for _, sep := range apnSeparators {
		expr = fmt.Sprintf("REPLACE(%s, '%s', '')", expr, sep)
	}
	return fmt.Sprintf("UPPER(%s) IN (%s)", expr, strings.Join(quoted, ","))
}

type queryResponse struct {
	Features []arcgisFeature `json:"features"`
	Error    *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type arcgisFeature struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   *struct {
		Rings [][][]float64 `json:"rings"`
	} `json:"geometry"`
}

func attrString(attrs map[string]any, key string) string {
	if key == "" {
		return ""
	}
	switch v := attrs[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func attrFloat(attrs map[string]any, key string) (float64, bool) {
	switch v := attrs[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

var _ gis.ParcelSource = (*ArcGISClient)(nil)
