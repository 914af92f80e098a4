package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dashboard-bff/internal/domain"
	"dashboard-bff/internal/supabase"
	"dashboard-bff/internal/transport/http/response"
)

type CategoryHandler struct {
	store *supabase.Client
}

func NewCategoryHandler(store *supabase.Client) *CategoryHandler {
	return &CategoryHandler{store: store}
}

type createCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type updateCategoryRequest struct {
	Name *string `json:"name"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := supabase.All[domain.Category](c.Request.Context(), h.store, domain.TableCategories, supabase.Query{})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	category, err := supabase.One[domain.Category](c.Request.Context(), h.store, domain.TableCategories, id, "")
	if err != nil {
		fail(c, err)
		return
	}
	if category == nil {
		response.NotFound(c, "category not found")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	created, err := supabase.InsertOne[domain.Category](c.Request.Context(), h.store, domain.TableCategories, req)
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

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	existing, err := supabase.One[domain.Category](c.Request.Context(), h.store, domain.TableCategories, id, "")
	if err != nil {
		fail(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c, "category not found")
		return
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if len(patch) == 0 {
		response.BadRequest(c, "no fields to update")
		return
	}

	updated, err := supabase.UpdateOne[domain.Category](c.Request.Context(), h.store, domain.TableCategories, id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	existing, err := supabase.One[domain.Category](ctx, h.store, domain.TableCategories, id, "")
	if err != nil {
		fail(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c, "category not found")
		return
	}

	refs, err := supabase.All[domain.Service](ctx, h.store, domain.TableServices, supabase.Query{
		Filters: map[string]string{"category_id": strconv.FormatInt(id, 10)},
		Select:  "id",
	})
	if err != nil {
		fail(c, err)
		return
	}
	if len(refs) > 0 {
		response.BadRequest(c, "category is referenced by existing services")
		return
	}

	if err := h.store.Delete(ctx, domain.TableCategories, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
