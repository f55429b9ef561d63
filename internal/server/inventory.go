package server

import (
	"strconv"
	"strings"

	inventorydomain "github.com/greentruckerlabs/greentrucker/internal/inventory/domain"
	"github.com/gin-gonic/gin"
)

// @Summary      Create Inventory Item
// @Description  List a reusable item in the marketplace
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body inventorydomain.CreateRequest true "Inventory Item"
// @Router       /v1/inventory [post]
func (s *Server) CreateInventoryItem(c *gin.Context) {
	var req inventorydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	identity := identityFrom(c)
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = identity.Name
	}

	item, err := s.inventorySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "inventory.create", "inventory", item.Slug, map[string]any{
		"item_name": item.ItemName,
	})
	respondData(c, item)
}

// @Summary      List Inventory
// @Tags         inventory
// @Produce      json
// @Security     ApiKeyAuth
// @Param        category  query  string  false  "Category filter"
// @Param        type      query  string  false  "Type filter"
// @Param        offer     query  bool    false  "Only discounted items"
// @Param        q         query  string  false  "Search in name and description"
// @Router       /v1/inventory [get]
func (s *Server) ListInventory(c *gin.Context) {
	offerOnly, _ := strconv.ParseBool(c.DefaultQuery("offer", "false"))
	items, err := s.inventorySvc.List(c.Request.Context(), inventorydomain.ListOptions{
		Category:  strings.TrimSpace(c.Query("category")),
		Type:      strings.TrimSpace(c.Query("type")),
		OfferOnly: offerOnly,
		Search:    strings.TrimSpace(c.Query("q")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, items)
}

func (s *Server) GetInventoryItem(c *gin.Context) {
	item, err := s.inventorySvc.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, item)
}

func (s *Server) UpdateInventoryItem(c *gin.Context) {
	var req inventorydomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.inventorySvc.Update(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "inventory.update", "inventory", item.Slug, nil)
	respondData(c, item)
}

func (s *Server) DeleteInventoryItem(c *gin.Context) {
	slug := c.Param("slug")
	if err := s.inventorySvc.Delete(c.Request.Context(), slug); err != nil {
		AbortWithError(c, err)
		return
	}
	s.recordAudit(c, "inventory.delete", "inventory", slug, nil)
	respondData(c, gin.H{"deleted": slug})
}
