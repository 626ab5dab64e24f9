package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ololeeye/ololeeye/internal/facade"
	"github.com/ololeeye/ololeeye/internal/localstore"
	"github.com/ololeeye/ololeeye/internal/models"
)

// asFloat reads a JSON number that may arrive quoted, the way decimal
// amounts marshal.
func asFloat(t *testing.T, v any) float64 {
	t.Helper()
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(x, 64)
		require.NoError(t, err)
		return f
	default:
		t.Fatalf("unexpected number type %T", v)
		return 0
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := localstore.Open(t.TempDir())
	require.NoError(t, err)
	f := facade.New(store, nil, time.Second)
	srv := httptest.NewServer(New(f, map[string]string{"secret-token": "user-1"}).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCampaignLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/campaigns", map[string]any{
		"name": "Mosque roof",
		"goal": 5000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[models.Campaign](t, resp)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Code, models.CampaignCodeLength)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/campaigns/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[models.Campaign](t, resp)
	require.Equal(t, "Mosque roof", got.Name)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/campaigns/"+created.ID, map[string]any{
		"name": "Mosque roof repair",
		"goal": 6000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[models.Campaign](t, resp)
	require.Equal(t, "Mosque roof repair", updated.Name)
	require.Equal(t, created.Code, updated.Code)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/campaigns/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/campaigns/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[errorBody](t, resp)
	require.Equal(t, "not_found", string(body.Error.Kind))
	require.NotEmpty(t, body.Error.Message)
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/campaigns", map[string]any{"goal": 100})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[errorBody](t, resp)
	require.Equal(t, "validation", string(body.Error.Kind))

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/campaigns", map[string]any{
		"name": "Negative",
		"goal": -5,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestBearerToken(t *testing.T) {
	srv := newTestServer(t)

	t.Run("unknown token is rejected", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/campaigns", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer wrong")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decode[errorBody](t, resp)
		require.Equal(t, "auth", string(body.Error.Kind))
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/campaigns", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Basic dXNlcg==")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("no header proceeds anonymously", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/campaigns")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestPaymentFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/campaigns", map[string]any{
		"name": "Village well",
		"goal": 2000,
	})
	campaign := decode[models.Campaign](t, resp)

	// Free-text amount, the way a contributor types it.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/payments", map[string]any{
		"campaignId":   campaign.ID,
		"reporterName": "Ayaan",
		"amount":       "70 USD",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	payment := decode[models.Payment](t, resp)
	require.Equal(t, models.PaymentStatusPending, payment.Status)
	require.True(t, payment.Amount.Equal(decimal.NewFromInt(70)))

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/payments/"+payment.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	approved := decode[models.Payment](t, resp)
	require.Equal(t, models.PaymentStatusApproved, approved.Status)

	// Approval creates the linked paid contributor.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/campaigns/"+campaign.ID+"/contributors", nil)
	contributors := decode[[]models.Contributor](t, resp)
	require.Len(t, contributors, 1)
	require.Equal(t, models.ContributorStatusPaid, contributors[0].Status)
	require.Equal(t, payment.ID, contributors[0].PaymentID)

	// A second approval attempt is a validation error.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/payments/"+payment.ID+"/approve", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCampaignStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/campaigns", map[string]any{
		"name": "School fund",
		"goal": 100,
	})
	campaign := decode[models.Campaign](t, resp)

	for _, c := range []map[string]any{
		{"campaignId": campaign.ID, "name": "A", "amount": 20, "status": "paid"},
		{"campaignId": campaign.ID, "name": "B", "amount": 30, "status": "pending"},
		{"campaignId": campaign.ID, "name": "C", "amount": 50, "status": "paid"},
	} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/contributors", c)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/campaigns/"+campaign.ID+"/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[map[string]any](t, resp)
	require.InDelta(t, 70, asFloat(t, stats["collected"]), 0.001)
	require.EqualValues(t, 70, stats["percent"])
	require.EqualValues(t, 2, stats["paidCount"])
	require.EqualValues(t, 1, stats["pendingCount"])
}

func TestExportEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/campaigns", map[string]any{
		"name": "Export me",
		"goal": 10,
	})
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	payload := decode[localstore.ExportPayload](t, resp)
	require.Equal(t, localstore.ExportVersion, payload.Version)
	require.Len(t, payload.Campaigns, 1)
}

func TestMigrateWithoutRemote(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/migrate", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret-token")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decode[errorBody](t, resp)
	require.Equal(t, "offline", string(body.Error.Kind))
}
