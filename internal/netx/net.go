// Package netx holds the HTTP plumbing used for object-storage transfers.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient is used for presigned uploads; tests may replace it.
var HTTPClient = &http.Client{Timeout: 60 * time.Second}

const defaultContentType = "application/octet-stream"

// UploadToPresignedURL PUTs body to a presigned object-storage URL. The
// headers the URL was signed with must be sent as given or the store rejects
// the request; Host is set by the transport and skipped here.
func UploadToPresignedURL(ctx context.Context, url string, signed http.Header, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	for k, vs := range signed {
		if http.CanonicalHeaderKey(k) == "Host" {
			continue
		}
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", defaultContentType)
	}

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
