package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard-bff/internal/domain"
	"dashboard-bff/internal/supabase"
	"dashboard-bff/internal/transport/http/response"
)

// listServiceSelect expands the city and category relations so the dashboard
// renders names without extra round-trips.
const listServiceSelect = "*,cities(name,state),categories(name)"

type ServiceHandler struct {
	store      *supabase.Client
	logoBucket string
}

func NewServiceHandler(store *supabase.Client, logoBucket string) *ServiceHandler {
	return &ServiceHandler{store: store, logoBucket: logoBucket}
}

func (h *ServiceHandler) logoRef() assetRef {
	return assetRef{
		table:  domain.TableServices,
		column: "logo_url",
		bucket: h.logoBucket,
		prefix: "service",
		owner:  "service",
	}
}

type createServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	CityID      int64   `json:"city_id" binding:"required"`
	CategoryID  int64   `json:"category_id" binding:"required"`
}

type updateServiceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CityID      *int64  `json:"city_id"`
	CategoryID  *int64  `json:"category_id"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	q := supabase.Query{Filters: map[string]string{}, Select: listServiceSelect}
	if v := c.Query("city_id"); v != "" {
		q.Filters["city_id"] = v
	}
	if v := c.Query("category_id"); v != "" {
		q.Filters["category_id"] = v
	}
	services, err := supabase.All[domain.Service](c.Request.Context(), h.store, domain.TableServices, q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	service, err := supabase.One[domain.Service](c.Request.Context(), h.store, domain.TableServices, id, listServiceSelect)
	if err != nil {
		fail(c, err)
		return
	}
	if service == nil {
		response.NotFound(c, "service not found")
		return
	}
	c.JSON(http.StatusOK, service)
}

// checkRefs validates the foreign keys a create/update names. A miss is the
// caller's mistake, so it maps to 400 rather than 404.
func (h *ServiceHandler) checkRefs(c *gin.Context, cityID, categoryID *int64) bool {
	ctx := c.Request.Context()
	if cityID != nil {
		city, err := supabase.One[domain.City](ctx, h.store, domain.TableCities, *cityID, "id")
		if err != nil {
			fail(c, err)
			return false
		}
		if city == nil {
			response.BadRequest(c, "city_id does not reference an existing city")
			return false
		}
	}
	if categoryID != nil {
		category, err := supabase.One[domain.Category](ctx, h.store, domain.TableCategories, *categoryID, "id")
		if err != nil {
			fail(c, err)
			return false
		}
		if category == nil {
			response.BadRequest(c, "category_id does not reference an existing category")
			return false
		}
	}
	return true
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !h.checkRefs(c, &req.CityID, &req.CategoryID) {
		return
	}
	created, err := supabase.InsertOne[domain.Service](c.Request.Context(), h.store, domain.TableServices, req)
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

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	existing, err := supabase.One[domain.Service](c.Request.Context(), h.store, domain.TableServices, id, "")
	if err != nil {
		fail(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c, "service not found")
		return
	}
	if !h.checkRefs(c, req.CityID, req.CategoryID) {
		return
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.CityID != nil {
		patch["city_id"] = *req.CityID
	}
	if req.CategoryID != nil {
		patch["category_id"] = *req.CategoryID
	}
	if len(patch) == 0 {
		response.BadRequest(c, "no fields to update")
		return
	}

	updated, err := supabase.UpdateOne[domain.Service](c.Request.Context(), h.store, domain.TableServices, id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	existing, err := supabase.One[domain.Service](ctx, h.store, domain.TableServices, id, "")
	if err != nil {
		fail(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c, "service not found")
		return
	}

	// Best-effort asset cleanup; a storage inconsistency must not block the
	// row delete.
	if existing.LogoURL != nil && *existing.LogoURL != "" {
		h.store.RemoveObject(ctx, h.logoBucket, objectKeyFromURL(*existing.LogoURL))
	}

	if err := h.store.Delete(ctx, domain.TableServices, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ServiceHandler) UploadLogo(c *gin.Context) { uploadAsset(c, h.store, h.logoRef()) }
func (h *ServiceHandler) DeleteLogo(c *gin.Context) { deleteAsset(c, h.store, h.logoRef()) }
