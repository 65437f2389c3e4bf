package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// maxSourceBytes bounds a fetched catalog.
const maxSourceBytes = 32 << 20

func IsRemote(source string) bool {
	s := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch reads the catalog source: a local file, or an http(s) URL fetched once with ctx.
// A non-2xx response is an error.
func Fetch(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if !IsRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		return data, nil
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch catalog %s: unexpected status %s", source, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	if len(data) > maxSourceBytes {
		return nil, fmt.Errorf("fetch catalog %s: larger than %d bytes", source, maxSourceBytes)
	}
	return data, nil
}
