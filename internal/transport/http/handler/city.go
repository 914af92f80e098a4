package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dashboard-bff/internal/domain"
	"dashboard-bff/internal/supabase"
	"dashboard-bff/internal/transport/http/response"
)

type CityHandler struct {
	store *supabase.Client
}

func NewCityHandler(store *supabase.Client) *CityHandler { return &CityHandler{store: store} }

type createCityRequest struct {
	Name  string `json:"name" binding:"required"`
	State string `json:"state" binding:"required"`
}

type updateCityRequest struct {
	Name  *string `json:"name"`
	State *string `json:"state"`
}

func (h *CityHandler) List(c *gin.Context) {
	cities, err := supabase.All[domain.City](c.Request.Context(), h.store, domain.TableCities, supabase.Query{})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

func (h *CityHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	city, err := supabase.One[domain.City](c.Request.Context(), h.store, domain.TableCities, id, "")
	if err != nil {
		fail(c, err)
		return
	}
	if city == nil {
		response.NotFound(c, "city not found")
		return
	}
	c.JSON(http.StatusOK, city)
}

func (h *CityHandler) Create(c *gin.Context) {
	var req createCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	created, err := supabase.InsertOne[domain.City](c.Request.Context(), h.store, domain.TableCities, req)
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

func (h *CityHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	existing, err := supabase.One[domain.City](c.Request.Context(), h.store, domain.TableCities, id, "")
	if err != nil {
		fail(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c, "city not found")
		return
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.State != nil {
		patch["state"] = *req.State
	}
	if len(patch) == 0 {
		response.BadRequest(c, "no fields to update")
		return
	}

	updated, err := supabase.UpdateOne[domain.City](c.Request.Context(), h.store, domain.TableCities, id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CityHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	existing, err := supabase.One[domain.City](ctx, h.store, domain.TableCities, id, "")
	if err != nil {
		fail(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c, "city not found")
		return
	}

	refs, err := supabase.All[domain.Service](ctx, h.store, domain.TableServices, supabase.Query{
		Filters: map[string]string{"city_id": strconv.FormatInt(id, 10)},
		Select:  "id",
	})
	if err != nil {
		fail(c, err)
		return
	}
	if len(refs) > 0 {
		response.BadRequest(c, "city is referenced by existing services")
		return
	}

	if err := h.store.Delete(ctx, domain.TableCities, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
