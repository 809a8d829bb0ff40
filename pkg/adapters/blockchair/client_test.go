package blockchair_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/txgraph/pkg/adapters/blockchair"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Provider = (*blockchair.Client)(nil)

func TestClient_Fetch(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(readFixture(t, "address.json"))
	}))
	defer srv.Close()

	client := blockchair.New(srv.URL, blockchair.WithAPIKey("secret"), blockchair.WithRateLimit(0))
	raw, err := client.Fetch(context.Background(), domain.KindAddress, boat)
	require.NoError(t, err)

	assert.Equal(t, "/bitcoin/dashboards/address/"+boat, gotPath)
	assert.Equal(t, "secret", gotKey)

	addr, err := client.Codec().DecodeAddress(boat, raw)
	require.NoError(t, err)
	assert.Equal(t, 2, addr.TransactionCount)
}

func TestClient_Fetch_QuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"data":null,"context":{"code":402,"error":"Limit exceeded"}}`))
	}))
	defer srv.Close()

	client := blockchair.New(srv.URL, blockchair.WithRateLimit(0))
	_, err := client.Fetch(context.Background(), domain.KindTransaction, txHash)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestClient_Fetch_StatusWithoutJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`<html>slow down</html>`))
	}))
	defer srv.Close()

	client := blockchair.New(srv.URL, blockchair.WithRateLimit(0))
	_, err := client.Fetch(context.Background(), domain.KindAddress, boat)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestClient_Fetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := blockchair.New(srv.URL, blockchair.WithRateLimit(0))
	_, err := client.Fetch(context.Background(), domain.KindAddress, boat)
	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.NotErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestClient_Fetch_CancelledWhileRateLimited(t *testing.T) {
	client := blockchair.New("http://127.0.0.1:0", blockchair.WithRateLimit(0.001))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Fetch(ctx, domain.KindAddress, boat)
	assert.Error(t, err)
}
