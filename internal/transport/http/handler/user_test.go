package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard-bff/internal/domain"
)

func TestUserCreateDuplicateEmail(t *testing.T) {
	f := newFakeUpstream(t)
	r := newTestRouter(f)
	f.seed(domain.TableUsers, map[string]any{"name": "Ana", "email": "ana@example.com"})

	before := f.writeCount()
	w := doJSON(r, http.MethodPost, "/users", map[string]any{"name": "Ana Clone", "email": "ana@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, before, f.writeCount(), "duplicate email must not reach the store")

	w = doJSON(r, http.MethodPost, "/users", map[string]any{"name": "Beto", "email": "beto@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "beto@example.com", created.Email)
}

func TestUserUpdateEmailUniqueness(t *testing.T) {
	f := newFakeUpstream(t)
	r := newTestRouter(f)
	anaID := f.seed(domain.TableUsers, map[string]any{"name": "Ana", "email": "ana@example.com"})
	f.seed(domain.TableUsers, map[string]any{"name": "Beto", "email": "beto@example.com"})

	// Taking another row's email is a conflict.
	w := doJSON(r, http.MethodPut, urlID("/users", anaID), map[string]any{"email": "beto@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Re-submitting the row's own email is not.
	w = doJSON(r, http.MethodPut, urlID("/users", anaID), map[string]any{"email": "ana@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	// A fresh email goes through.
	w = doJSON(r, http.MethodPut, urlID("/users", anaID), map[string]any{"email": "ana.silva@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana.silva@example.com", f.row(domain.TableUsers, anaID)["email"])
}

func TestUserUpdateEmptyPayload(t *testing.T) {
	f := newFakeUpstream(t)
	r := newTestRouter(f)
	id := f.seed(domain.TableUsers, map[string]any{"name": "Ana", "email": "ana@example.com"})

	before := f.writeCount()
	w := doJSON(r, http.MethodPut, urlID("/users", id), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, before, f.writeCount())
}

func TestUserNotFound(t *testing.T) {
	f := newFakeUpstream(t)
	r := newTestRouter(f)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := doJSON(r, method, "/users/404", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}
	w := doJSON(r, http.MethodPut, "/users/404", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserAvatarUpload(t *testing.T) {
	f := newFakeUpstream(t)
	r := newTestRouter(f)
	id := f.seed(domain.TableUsers, map[string]any{"name": "Ana", "email": "ana@example.com"})

	w := doMultipart(r, urlID("/users", id)+"/avatar", "me", 2048) // no extension: falls back to png
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	url := resp["avatar_url"]
	assert.Contains(t, url, "/storage/v1/object/public/avatars/user_"+itoa(id)+"_")
	assert.Contains(t, url, ".png")
	assert.Equal(t, url, f.row(domain.TableUsers, id)["avatar_url"])
}

func TestUserAvatarDeleteClearsColumnDespiteStorageFailure(t *testing.T) {
	f := newFakeUpstream(t)
	r := newTestRouter(f)

	avatarURL := f.srv.URL + "/storage/v1/object/public/avatars/user_3_tok.png"
	id := f.seed(domain.TableUsers, map[string]any{
		"name": "Ana", "email": "ana@example.com", "avatar_url": avatarURL,
	})

	f.storageFail = true
	w := doJSON(r, http.MethodDelete, urlID("/users", id)+"/avatar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, f.row(domain.TableUsers, id)["avatar_url"])
}

func TestUserAvatarDeleteWithoutAvatar(t *testing.T) {
	f := newFakeUpstream(t)
	r := newTestRouter(f)
	id := f.seed(domain.TableUsers, map[string]any{"name": "Ana", "email": "ana@example.com"})

	w := doJSON(r, http.MethodDelete, urlID("/users", id)+"/avatar", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserDeleteCleansUpAvatar(t *testing.T) {
	f := newFakeUpstream(t)
	r := newTestRouter(f)

	avatarURL := f.srv.URL + "/storage/v1/object/public/avatars/user_7_tok.jpg"
	id := f.seed(domain.TableUsers, map[string]any{
		"name": "Ana", "email": "ana@example.com", "avatar_url": avatarURL,
	})

	w := doJSON(r, http.MethodDelete, urlID("/users", id), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Nil(t, f.row(domain.TableUsers, id))
	assert.Contains(t, f.storageDeletes, "avatars/user_7_tok.jpg")
}
