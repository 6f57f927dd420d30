package gis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/landscape/backend/internal/domain/gis"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/infrastructure/cache"
	"github.com/landscape/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// parcelService fakes an ArcGIS feature layer. Every requested APN is known
// unless listed in missing; each parcel is a small square near Phoenix.
type parcelService struct {
	requests  atomic.Int32
	batches   sync.Map // request number -> []string
	missing   map[string]bool
	duplicate bool
	status    int
}

func (s *parcelService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := s.requests.Add(1)
	if s.status != 0 {
		w.WriteHeader(s.status)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	ids := idsFromWhere(r.PostForm.Get("where"))
	s.batches.Store(n, ids)

	features := make([]map[string]any, 0, len(ids))
	for i, id := range ids {
		if s.missing[id] {
			continue
		}
		f := squareFeature(id, float64(i))
		features = append(features, f)
		if s.duplicate {
			features = append(features, f)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"features": features})
}

func idsFromWhere(where string) []string {
	start := strings.Index(where, "IN (")
	end := strings.LastIndex(where, ")")
	if start < 0 || end < start {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(where[start+4:end], ",") {
		ids = append(ids, strings.Trim(part, "' "))
	}
	return ids
}

func squareFeature(apn string, offset float64) map[string]any {
	lon, lat := -112.0740+offset*0.001, 33.4484
	corners := []gis.Position{{lon, lat}, {lon + 0.001, lat}, {lon + 0.001, lat + 0.001}, {lon, lat + 0.001}, {lon, lat}}
	ring := make([][]float64, 0, len(corners))
	for _, p := range corners {
		x, y := gis.WGS84ToWebMercator(p)
		ring = append(ring, []float64{x, y})
	}
	return map[string]any{
		"attributes": map[string]any{
			"APN":           apn[:3] + "-" + apn[3:],
			"OWNER_NAME":    "Owner " + apn,
			"LAND_USE_CODE": "SFD",
			"ACRES":         2.5,
		},
		"geometry": map[string]any{"rings": [][][]float64{ring}},
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, c shared.TTLCache) *ArcGISClient {
	t.Helper()
	client, err := NewArcGISClient(config.GISConfig{
		ParcelServiceURL: srv.URL + "/FeatureServer/0",
		Timeout:          5 * time.Second,
		CacheTTL:         5 * time.Minute,
		BatchSize:        40,
		MaxConcurrency:   3,
		RequestsPerSec:   1000,
		Burst:            10,
	}, c, nil, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client
}

func apnList(n int) []string {
	apns := make([]string, n)
	for i := range apns {
		apns[i] = fmt.Sprintf("%03d-%05d", 100+i%900, i)
	}
	return apns
}

func TestArcGISClient_BatchesByForty(t *testing.T) {
	svc := &parcelService{}
	srv := httptest.NewServer(svc)
	defer srv.Close()
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	client := newTestClient(t, srv, mem)

	apns := apnList(85)
	features, err := client.FetchByAPN(context.Background(), apns)
	require.NoError(t, err)

	assert.Equal(t, int32(3), svc.requests.Load())
	var sizes []int
	svc.batches.Range(func(_, v any) bool {
		sizes = append(sizes, len(v.([]string)))
		return true
	})
	assert.ElementsMatch(t, []int{40, 40, 5}, sizes)

	require.Len(t, features, 85)
	for i, f := range features {
		assert.Equal(t, gis.NormalizeParcelID(apns[i]), f.ParcelID, "feature %d out of order", i)
	}
}

func TestArcGISClient_CachesFeatures(t *testing.T) {
	svc := &parcelService{}
	srv := httptest.NewServer(svc)
	defer srv.Close()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	mem := cache.NewMemoryCache(0, cache.WithClock(clock.Now))
	defer mem.Close()
	client := newTestClient(t, srv, mem)
	ctx := context.Background()

	first, err := client.FetchByAPN(ctx, []string{"304-01-001A", "304-01-002"})
	require.NoError(t, err)
	require.Equal(t, int32(1), svc.requests.Load())

	t.Run("hits are served from cache", func(t *testing.T) {
		again, err := client.FetchByAPN(ctx, []string{"30401001a", "304-01-002"})
		require.NoError(t, err)
		assert.Equal(t, int32(1), svc.requests.Load())
		if diff := cmp.Diff(first, again); diff != "" {
			t.Errorf("cached features differ (-first +again):\n%s", diff)
		}
	})

	t.Run("only misses are fetched", func(t *testing.T) {
		_, err := client.FetchByAPN(ctx, []string{"304-01-001A", "304-01-003"})
		require.NoError(t, err)
		assert.Equal(t, int32(2), svc.requests.Load())
		v, ok := svc.batches.Load(int32(2))
		require.True(t, ok)
		assert.Equal(t, []string{"30401003"}, v)
	})

	t.Run("entries expire after the ttl", func(t *testing.T) {
		clock.Advance(5*time.Minute + time.Second)
		_, err := client.FetchByAPN(ctx, []string{"304-01-001A"})
		require.NoError(t, err)
		assert.Equal(t, int32(3), svc.requests.Load())
	})
}

func TestArcGISClient_NormalizesAndDedupes(t *testing.T) {
	svc := &parcelService{duplicate: true, missing: map[string]bool{"99900000": true}}
	srv := httptest.NewServer(svc)
	defer srv.Close()
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	client := newTestClient(t, srv, mem)

	features, err := client.FetchByAPN(context.Background(), []string{"123-45-678", "12345678", " 123 45 678 ", "999-00000", ""})
	require.NoError(t, err)

	v, _ := svc.batches.Load(int32(1))
	assert.Equal(t, []string{"12345678", "99900000"}, v)
	require.Len(t, features, 1)
	assert.Equal(t, "12345678", features[0].ParcelID)
	assert.Equal(t, "123-45678", features[0].APN)
	assert.Equal(t, "SFD", features[0].LandUseCode)
	assert.InDelta(t, 2.5, features[0].Acres, 1e-9)
}

func TestArcGISClient_ConvertsWebMercator(t *testing.T) {
	svc := &parcelService{}
	srv := httptest.NewServer(svc)
	defer srv.Close()
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	client := newTestClient(t, srv, mem)

	features, err := client.FetchByAPN(context.Background(), []string{"500-12-345"})
	require.NoError(t, err)
	require.Len(t, features, 1)
	require.NoError(t, features[0].Geometry.Validate())

	polys, err := features[0].Geometry.Polygons()
	require.NoError(t, err)
	first := polys[0][0][0]
	assert.InDelta(t, -112.0740, first.Lon(), 1e-7)
	assert.InDelta(t, 33.4484, first.Lat(), 1e-7)
}

func TestArcGISClient_UpstreamFailure(t *testing.T) {
	svc := &parcelService{status: http.StatusServiceUnavailable}
	srv := httptest.NewServer(svc)
	defer srv.Close()
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	client := newTestClient(t, srv, mem)

	_, err := client.FetchByAPN(context.Background(), apnList(50))
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
	assert.Zero(t, mem.Len())
}

func TestArcGISClient_EmptyInput(t *testing.T) {
	svc := &parcelService{}
	srv := httptest.NewServer(svc)
	defer srv.Close()
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	client := newTestClient(t, srv, mem)

	features, err := client.FetchByAPN(context.Background(), []string{"", " - "})
	require.NoError(t, err)
	assert.Empty(t, features)
	assert.Zero(t, svc.requests.Load())
}

func TestNewArcGISClient_Validation(t *testing.T) {
	mem := cache.NewMemoryCache(0)
	defer mem.Close()

	_, err := NewArcGISClient(config.GISConfig{}, mem, nil)
	assert.Error(t, err)

	_, err = NewArcGISClient(config.GISConfig{ParcelServiceURL: "http://gis.local/0"}, nil, nil)
	assert.Error(t, err)

	c, err := NewArcGISClient(config.GISConfig{ParcelServiceURL: "http://gis.local/0/", BatchSize: 500}, mem, nil)
	require.NoError(t, err)
	assert.Equal(t, gis.MaxAPNsPerRequest, c.batchSize)
	assert.Equal(t, "http://gis.local/0/query", c.queryURL)
}

func TestWhereClause(t *testing.T) {
	assert.Equal(t,
		"UPPER(REPLACE(REPLACE(REPLACE(REPLACE(APN, '-', ''), ' ', ''), '.', ''), '/', '')) IN ('A1','B2')",
		whereClause("APN", []string{"A1", "B2"}))
}

func TestWhereClause_StripsWhatNormalizationStrips(t *testing.T) {
	// the server evaluates the REPLACE chain; replay it locally
	serverSide := func(apn string) string {
		for _, sep := range apnSeparators {
			apn = strings.ReplaceAll(apn, sep, "")
		}
		return strings.ToUpper(apn)
	}
	for _, apn := range []string{"123-45-678", "123 45 678", "123.456.07", "123/456", "r12.3-4/5 6a"} {
		assert.Equal(t, gis.NormalizeParcelID(apn), serverSide(apn), apn)
	}
}
