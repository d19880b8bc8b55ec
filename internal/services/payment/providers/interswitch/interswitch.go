package interswitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Provider is a client for the Interswitch WebPAY collection API
type Provider struct {
	merchantCode string
	payItemID    string
	baseURL      string
	redirectURL  string
	client       *http.Client
}

// Config holds configuration for the Interswitch provider
type Config struct {
	MerchantCode string
	PayItemID    string
	BaseURL      string
	RedirectURL  string
}

// NewProvider creates a new Interswitch provider
func NewProvider(config Config) *Provider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://webpay.interswitchng.com"
	}

	return &Provider{
		merchantCode: config.MerchantCode,
		payItemID:    config.PayItemID,
		baseURL:      baseURL,
		redirectURL:  config.RedirectURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// PaymentParams is the payload a client needs to start a WebPAY checkout
type PaymentParams struct {
	MerchantCode         string `json:"merchant_code"`
	PayItemID            string `json:"pay_item_id"`
	TransactionReference string `json:"txn_ref"`
	Amount               int64  `json:"amount"`
	Currency             string `json:"currency"`
	RedirectURL          string `json:"site_redirect_url"`
}

// VerifyResponse represents a transaction lookup response from Interswitch
type VerifyResponse struct {
	Amount                   int64  `json:"Amount"`
	CardNumber               string `json:"CardNumber"`
	MerchantReference        string `json:"MerchantReference"`
	PaymentReference         string `json:"PaymentReference"`
	RetrievalReferenceNumber string `json:"RetrievalReferenceNumber"`
	ResponseCode             string `json:"ResponseCode"`
	ResponseDescription      string `json:"ResponseDescription"`
	TransactionDate          string `json:"TransactionDate"`
}

// PaymentParams builds the checkout payload for a transaction reference and
// amount in minor currency units
func (p *Provider) PaymentParams(reference string, amount int64) PaymentParams {
	return PaymentParams{
		MerchantCode:         p.merchantCode,
		PayItemID:            p.payItemID,
		TransactionReference: reference,
		Amount:               amount,
		Currency:             "NGN",
		RedirectURL:          p.redirectURL,
	}
}

// VerifyPayment looks up a transaction by reference. The expected amount is
// part of the lookup request; the returned amount is what the gateway
// actually collected.
func (p *Provider) VerifyPayment(ctx context.Context, reference string, amount int64) (*VerifyResponse, error) {
	query := url.Values{}
	query.Set("productid", p.payItemID)
	query.Set("transactionreference", reference)
	query.Set("amount", strconv.FormatInt(amount, 10))

	endpoint := fmt.Sprintf("%s/collections/api/v1/gettransaction.json?%s", p.baseURL, query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var verifyResp VerifyResponse
	if err := json.Unmarshal(respBody, &verifyResp); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	return &verifyResp, nil
}
