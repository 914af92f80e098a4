package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard-bff/internal/domain"
	"dashboard-bff/internal/supabase"
	"dashboard-bff/internal/transport/http/response"
)

type UserHandler struct {
	store        *supabase.Client
	avatarBucket string
}

func NewUserHandler(store *supabase.Client, avatarBucket string) *UserHandler {
	return &UserHandler{store: store, avatarBucket: avatarBucket}
}

func (h *UserHandler) avatarRef() assetRef {
	return assetRef{
		table:  domain.TableUsers,
		column: "avatar_url",
		bucket: h.avatarBucket,
		prefix: "user",
		owner:  "user",
	}
}

type createUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := supabase.All[domain.User](c.Request.Context(), h.store, domain.TableUsers, supabase.Query{})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := supabase.One[domain.User](c.Request.Context(), h.store, domain.TableUsers, id, "")
	if err != nil {
		fail(c, err)
		return
	}
	if user == nil {
		response.NotFound(c, "user not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

// emailTaken reports whether email belongs to a row other than exceptID.
// Not atomic with the write that follows; two racing creates can both pass.
func (h *UserHandler) emailTaken(c *gin.Context, email string, exceptID int64) (bool, error) {
	rows, err := supabase.All[domain.User](c.Request.Context(), h.store, domain.TableUsers, supabase.Query{
		Filters: map[string]string{"email": email},
		Select:  "id",
	})
	if err != nil {
		return false, err
	}
	for _, r := range rows {
		if r.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	taken, err := h.emailTaken(c, req.Email, 0)
	if err != nil {
		fail(c, err)
		return
	}
	if taken {
		response.BadRequest(c, "email already in use")
		return
	}
	created, err := supabase.InsertOne[domain.User](c.Request.Context(), h.store, domain.TableUsers, req)
	if err != nil {
		fail(c, err)
		return
	}
	if created == nil {
		c.JSON(http.StatusCreated, gin.H{"created": true})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	existing, err := supabase.One[domain.User](c.Request.Context(), h.store, domain.TableUsers, id, "")
	if err != nil {
		fail(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c, "user not found")
		return
	}

	// Re-keeping the current email is a no-op, not a conflict.
	if req.Email != nil && *req.Email != existing.Email {
		taken, err := h.emailTaken(c, *req.Email, id)
		if err != nil {
			fail(c, err)
			return
		}
		if taken {
			response.BadRequest(c, "email already in use")
			return
		}
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if len(patch) == 0 {
		response.BadRequest(c, "no fields to update")
		return
	}

	updated, err := supabase.UpdateOne[domain.User](c.Request.Context(), h.store, domain.TableUsers, id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	existing, err := supabase.One[domain.User](ctx, h.store, domain.TableUsers, id, "")
	if err != nil {
		fail(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c, "user not found")
		return
	}

	if existing.AvatarURL != nil && *existing.AvatarURL != "" {
		h.store.RemoveObject(ctx, h.avatarBucket, objectKeyFromURL(*existing.AvatarURL))
	}

	if err := h.store.Delete(ctx, domain.TableUsers, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) UploadAvatar(c *gin.Context) { uploadAsset(c, h.store, h.avatarRef()) }
func (h *UserHandler) DeleteAvatar(c *gin.Context) { deleteAsset(c, h.store, h.avatarRef()) }
