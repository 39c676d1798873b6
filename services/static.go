package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// readStaticJSON performs exactly one read of a static JSON document, either a
// local file or an http(s) URL, and decodes it into v. A non-2xx response is
// a failure.
func readStaticJSON(ctx context.Context, client *http.Client, source string, v any) error {
	var body io.ReadCloser

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return fmt.Errorf("static: build request %q: %w", source, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("static: fetch %q: %w", source, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return fmt.Errorf("static: fetch %q: status %d", source, resp.StatusCode)
		}
		body = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return fmt.Errorf("static: open %q: %w", source, err)
		}
		body = f
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("static: decode %q: %w", source, err)
	}
	return nil
}
