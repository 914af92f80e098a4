package supabase

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// UploadObject writes raw bytes to bucket/key and returns the public
// retrieval URL. The storage API serves uploaded objects under a
// deterministic /public path, so the URL is formed locally.
func (c *Client) UploadObject(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	u := c.baseURL + "/storage/v1/object/" + bucket + "/" + key
	if _, err := c.do(ctx, http.MethodPost, u, data, contentType); err != nil {
		return "", err
	}
	return c.PublicObjectURL(bucket, key), nil
}

// RemoveObject deletes bucket/key, reporting success as a bool. Callers
// treat a missing or undeletable object as non-fatal, so this never errors.
func (c *Client) RemoveObject(ctx context.Context, bucket, key string) bool {
	u := c.baseURL + "/storage/v1/object/" + bucket + "/" + key
	if _, err := c.do(ctx, http.MethodDelete, u, nil, ""); err != nil {
		c.log.Warn("storage object not removed",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (c *Client) PublicObjectURL(bucket, key string) string {
	return c.baseURL + "/storage/v1/object/public/" + bucket + "/" + key
}
