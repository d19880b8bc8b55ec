package interswitch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/api/v1/gettransaction.json", r.URL.Path)
		assert.Equal(t, "101", r.URL.Query().Get("productid"))
		assert.Equal(t, "txn-abc", r.URL.Query().Get("transactionreference"))
		assert.Equal(t, "1000", r.URL.Query().Get("amount"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Amount": 1000,
			"CardNumber": "2066",
			"MerchantReference": "MX0001",
			"PaymentReference": "FBN|WEB|MX0001|1234",
			"ResponseCode": "00",
			"ResponseDescription": "Approved Successful",
			"TransactionDate": "2016-01-01T00:00:00"
		}`))
	}))
	defer server.Close()

	provider := NewProvider(Config{
		MerchantCode: "MX0001",
		PayItemID:    "101",
		BaseURL:      server.URL,
	})

	resp, err := provider.VerifyPayment(context.Background(), "txn-abc", 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), resp.Amount)
	assert.Equal(t, "00", resp.ResponseCode)
	assert.Equal(t, "Approved Successful", resp.ResponseDescription)
}

func TestVerifyPayment_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewProvider(Config{BaseURL: server.URL})

	_, err := provider.VerifyPayment(context.Background(), "txn-abc", 1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestVerifyPayment_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	provider := NewProvider(Config{BaseURL: server.URL})

	_, err := provider.VerifyPayment(context.Background(), "txn-abc", 1000)
	assert.Error(t, err)
}

func TestPaymentParams(t *testing.T) {
	provider := NewProvider(Config{
		MerchantCode: "MX0001",
		PayItemID:    "101",
		RedirectURL:  "https://app.example.com/ads/verify",
	})

	params := provider.PaymentParams("txn-abc", 2500)
	assert.Equal(t, "MX0001", params.MerchantCode)
	assert.Equal(t, "101", params.PayItemID)
	assert.Equal(t, "txn-abc", params.TransactionReference)
	assert.Equal(t, int64(2500), params.Amount)
	assert.Equal(t, "NGN", params.Currency)
	assert.Equal(t, "https://app.example.com/ads/verify", params.RedirectURL)
}
