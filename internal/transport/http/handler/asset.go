package handler

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dashboard-bff/internal/supabase"
	"dashboard-bff/internal/transport/http/response"
)

const maxAssetSize = 5 << 20 // 5 MiB

// assetRef binds an owning table to its asset column and storage bucket.
type assetRef struct {
	table  string
	column string // logo_url / avatar_url
	bucket string
	prefix string // key prefix: service / user
	owner  string // noun for messages
}

// currentAssetURL reads the owning row, returning (url, found). An empty url
// with found=true means the row exists but carries no asset.
func currentAssetURL(c *gin.Context, store *supabase.Client, ref assetRef, id int64) (string, bool, error) {
	row, err := supabase.One[map[string]any](c.Request.Context(), store, ref.table, id, "id,"+ref.column)
	if err != nil {
		return "", false, err
	}
	if row == nil {
		return "", false, nil
	}
	url, _ := (*row)[ref.column].(string)
	return url, true, nil
}

// uploadAsset accepts a single multipart file, stores it under
// <prefix>_<id>_<uuid>.<ext|png> and patches the owning row's asset column.
func uploadAsset(c *gin.Context, store *supabase.Client, ref assetRef) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	_, found, err := currentAssetURL(c, store, ref, id)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		response.NotFound(c, ref.owner+" not found")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fh.Size > maxAssetSize {
		response.BadRequest(c, "file too large (max 5MB)")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxAssetSize+1))
	if err != nil {
		fail(c, err)
		return
	}
	if len(data) > maxAssetSize {
		response.BadRequest(c, "file too large (max 5MB)")
		return
	}

	ext := strings.TrimPrefix(path.Ext(fh.Filename), ".")
	if ext == "" {
		ext = "png"
	}
	key := fmt.Sprintf("%s_%d_%s.%s", ref.prefix, id, uuid.NewString(), ext)

	url, err := store.UploadObject(ctx, ref.bucket, key, data, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, err)
		return
	}
	if err := store.Update(ctx, ref.table, id, map[string]any{ref.column: url}, nil); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{ref.column: url, "message": ref.owner + " " + ref.prefixNoun() + " uploaded"})
}

// deleteAsset best-effort removes the stored object, then nulls the owning
// row's asset column. Storage failures do not block the column reset.
func deleteAsset(c *gin.Context, store *supabase.Client, ref assetRef) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	url, found, err := currentAssetURL(c, store, ref, id)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		response.NotFound(c, ref.owner+" not found")
		return
	}
	if url == "" {
		response.BadRequest(c, "no "+ref.prefixNoun()+" to delete")
		return
	}

	store.RemoveObject(ctx, ref.bucket, objectKeyFromURL(url))

	if err := store.Update(ctx, ref.table, id, map[string]any{ref.column: nil}, nil); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": ref.prefixNoun() + " removed"})
}

func (r assetRef) prefixNoun() string {
	return strings.TrimSuffix(r.column, "_url")
}

// objectKeyFromURL derives the storage key from a public asset URL. Keys are
// flat (no slashes), so the last path segment is the whole key.
func objectKeyFromURL(u string) string {
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}
