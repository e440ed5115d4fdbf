package cogctx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPFetcher returns a FetchFunc that GETs a cognitive-metadata snapshot
// from the hosting application. Used by the sidecar daemon; library
// consumers usually inject their own fetcher.
func HTTPFetcher(url string, client *http.Client) FetchFunc {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return func(ctx context.Context) (*Context, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("cognitive context fetch: status %d", resp.StatusCode)
		}

		var snap Context
		if err := json.Unmarshal(body, &snap); err != nil {
			return nil, err
		}
		return &snap, nil
	}
}
