// Package paygate wraps the external payment gateway used to verify
// receipt references before a transaction is confirmed.
package paygate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eirs-ng/vras/internal/config"
)

const (
	defaultTimeout = 30 * time.Second
)

type engine struct {
	client  *http.Client
	baseURL string
	apiKey  string
	enabled bool
}

// Engine represents the payment gateway engine.
var Engine engine

// Verification is the gateway's answer for a receipt reference.
type Verification struct {
	Reference  string    `json:"reference"`
	Status     string    `json:"status"`
	AmountKobo int64     `json:"amountKobo"`
	PaidAt     time.Time `json:"paidAt"`
}

// Open initializes the payment gateway engine from configuration.
func Open(cfg *config.Config) {
	timeout := cfg.Paygate.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	Engine = engine{
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.Paygate.URL,
		apiKey:  cfg.Paygate.APIKey,
		enabled: cfg.Paygate.Enabled,
	}

	if !cfg.Paygate.Enabled {
		log.Warn().Msg("paygate disabled: transactions confirm without remote verification")
	}
}

// Verify checks a receipt reference against the gateway. With the gateway
// disabled every reference verifies as paid now, which is the development
// mode behavior.
func (e engine) Verify(ctx context.Context, reference string) (*Verification, error) {
	if !e.enabled {
		return &Verification{
			Reference: reference,
			Status:    "success",
			PaidAt:    time.Now(),
		}, nil
	}

	if e.client == nil {
		return nil, ErrEngineNotInitialized
	}

	url := fmt.Sprintf("%s/v1/verify/%s", e.baseURL, reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Str("reference", reference).
			Msg("paygate verification request rejected")

		return nil, ErrVerificationFailed
	}

	v := new(Verification)
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return nil, err
	}

	if v.Status != "success" {
		return nil, ErrVerificationFailed
	}

	return v, nil
}
