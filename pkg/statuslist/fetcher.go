package statuslist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"onyx/pkg/credential"
	"onyx/pkg/logger"
)

// Fetcher is the collaborator RevokeSL21 uses to read and replace a
// published StatusList2021 credential over HTTP. The core revoke flow only
// ever sees this interface; HTTPFetcher is the reference implementation a
// runnable toolkit ships.
type Fetcher interface {
	Get(ctx context.Context, listURL string) (credential.Payload, error)
	Post(ctx context.Context, listURL string, vc credential.Payload) error
}

// HTTPFetcher implements Fetcher against a statuslist.Server (or any
// endpoint honoring the same GET/POST contract) using net/http, grounded on
// the teacher's vcclient request/response plumbing.
type HTTPFetcher struct {
	httpClient *http.Client
	log        *logger.Log
}

// NewHTTPFetcher builds an HTTPFetcher with a bounded request timeout.
func NewHTTPFetcher(log *logger.Log) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Get issues GET {listURL}/list.json and decodes the StatusList2021
// credential it returns.
func (f *HTTPFetcher) Get(ctx context.Context, listURL string) (credential.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL+"/list.json", nil)
	if err != nil {
		return credential.Payload{}, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return credential.Payload{}, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return credential.Payload{}, fmt.Errorf("%w: status %d", ErrFetchFailure, resp.StatusCode)
	}

	var payload credential.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return credential.Payload{}, fmt.Errorf("%w: decode: %v", ErrFetchFailure, err)
	}
	return payload, nil
}

// Post issues POST {listURL}/statusList with vc as its JSON body.
func (f *HTTPFetcher) Post(ctx context.Context, listURL string, vc credential.Payload) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(vc); err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPublishFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, listURL+"/statusList", buf)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if f.log != nil {
			f.log.Debug("statuslist publish failed", "err", err)
		}
		return fmt.Errorf("%w: %v", ErrPublishFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: status %d", ErrPublishFailure, resp.StatusCode)
	}
	return nil
}
