package landscaper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/landscaper"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/infrastructure/config"
	"github.com/landscape/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewHTTPClient(config.LandscaperConfig{
		BaseURL: srv.URL,
		Token:   "svc-token",
		Timeout: 2 * time.Second,
	}, nil)
	require.NoError(t, err)
	return c, srv
}

func TestHTTPClient_SendMessage(t *testing.T) {
	projectID := uuid.New()
	var gotAuth, gotRequestID, gotPath string
	var gotBody map[string]string

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"thread_id":"t-9","message":{"id":"m-1","thread_id":"t-9","role":"assistant","content":"Budget looks light on soft costs."},
			"proposals":[{"id":"p-1","kind":"budget_item","description":"Add contingency","status":"pending"}]}`)
	})

	ctx := logger.WithRequestID(context.Background(), "req-123")
	reply, err := c.SendMessage(ctx, projectID, "", "review my budget")
	require.NoError(t, err)

	assert.Equal(t, "Bearer svc-token", gotAuth)
	assert.Equal(t, "req-123", gotRequestID)
	assert.Equal(t, "/api/landscaper/projects/"+projectID.String()+"/chat/", gotPath)
	assert.Equal(t, map[string]string{"message": "review my budget"}, gotBody)

	assert.Equal(t, "t-9", reply.ThreadID)
	assert.Equal(t, "assistant", reply.Message.Role)
	require.Len(t, reply.Proposals, 1)
	assert.Equal(t, landscaper.ProposalPending, reply.Proposals[0].Status)
}

func TestHTTPClient_ListMessagesPassesThread(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "t-9", r.URL.Query().Get("thread_id"))
		_, _ = io.WriteString(w, `{"messages":[{"id":"m-1","role":"user","content":"hi"},{"id":"m-2","role":"assistant","content":"hello"}]}`)
	})

	msgs, err := c.ListMessages(context.Background(), uuid.New(), "t-9")
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestHTTPClient_EmptyListsAreNotNil(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	threads, err := c.ListThreads(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, threads)
	assert.Empty(t, threads)
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantMsg  string
		wantDets any
	}{
		{name: "5xx is upstream unavailable", status: http.StatusInternalServerError, body: `oops`, wantErr: shared.ErrUpstreamUnavailable},
		{name: "503 is upstream unavailable", status: http.StatusServiceUnavailable, wantErr: shared.ErrUpstreamUnavailable},
		{name: "404 is not found", status: http.StatusNotFound, body: `{"detail":"Proposal not found."}`, wantErr: shared.ErrNotFound, wantMsg: "Proposal not found."},
		{
			name: "400 carries upstream details", status: http.StatusBadRequest,
			body:    `{"reason":["This field may not be blank."]}`,
			wantErr: shared.ErrInvalidInput, wantMsg: "landscaper rejected the request",
			wantDets: map[string]any{"reason": []any{"This field may not be blank."}},
		},
		{name: "422 is invalid input", status: http.StatusUnprocessableEntity, body: `{"error":"already applied"}`, wantErr: shared.ErrInvalidInput, wantMsg: "already applied"},
		{
			name: "409 is a conflict", status: http.StatusConflict,
			body:    `{"detail":"Proposal was already approved."}`,
			wantErr: shared.ErrConflict, wantMsg: "Proposal was already approved.",
			wantDets: map[string]any{"detail": "Proposal was already approved."},
		},
		{name: "401 is our credential problem", status: http.StatusUnauthorized, wantErr: shared.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.RejectProposal(context.Background(), "p-1", "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var de *shared.DomainError
			require.True(t, errors.As(err, &de))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, de.Message)
			}
			if tt.wantDets != nil {
				assert.Equal(t, tt.wantDets, de.Details)
			}
		})
	}
}

func TestHTTPClient_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := NewHTTPClient(config.LandscaperConfig{BaseURL: addr, Timeout: time.Second}, nil)
	require.NoError(t, err)

	_, err = c.ListProposals(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
}

func TestHTTPClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewHTTPClient(config.LandscaperConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	require.NoError(t, err)

	_, err = c.ApplyProposal(context.Background(), "p-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "landscaper service timed out", de.Details)
}

func TestHTTPClient_ExtractDocument(t *testing.T) {
	docID := uuid.New()
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dms/extract/", r.URL.Path)
		var req landscaper.ExtractionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, docID, req.DocumentID)
		assert.Equal(t, []string{"purchase_price"}, req.AttributeKeys)
		_, _ = io.WriteString(w, `{"attributes":{"purchase_price":"2500000"},"confidence":{"purchase_price":0.91}}`)
	})

	res, err := c.ExtractDocument(context.Background(), landscaper.ExtractionRequest{
		DocumentID:    docID,
		FileName:      "psa.pdf",
		AttributeKeys: []string{"purchase_price"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2500000", res.Attributes["purchase_price"])
	assert.InDelta(t, 0.91, res.Confidence["purchase_price"], 1e-9)
}

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient(config.LandscaperConfig{BaseURL: "not a url"}, nil)
	assert.Error(t, err)
}
