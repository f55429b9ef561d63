package server

import (
	"strings"

	pricingdomain "github.com/greentruckerlabs/greentrucker/internal/pricing/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createPricingRequest struct {
	Item         string  `json:"item"`
	PricePerUnit float64 `json:"pricePerUnit"`
}

type updatePricingRequest struct {
	Item         *string  `json:"item"`
	PricePerUnit *float64 `json:"pricePerUnit"`
}

// @Summary      Create Pricing Entry
// @Description  Add a price per unit weight for a waste category
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body createPricingRequest true "Pricing Entry"
// @Success      200  {object}  DataResponse
// @Router       /v1/pricing [post]
func (s *Server) CreatePricing(c *gin.Context) {
	var req createPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entry, err := s.pricingSvc.Create(c.Request.Context(), pricingdomain.CreateRequest{
		Item:         strings.TrimSpace(req.Item),
		PricePerUnit: req.PricePerUnit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "pricing.create", "pricing", entry.Item, map[string]any{
		"price_per_unit": entry.PricePerUnit,
	})
	respondData(c, entry)
}

// @Summary      List Pricing Entries
// @Tags         pricing
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  ListResponse
// @Router       /v1/pricing [get]
func (s *Server) ListPricing(c *gin.Context) {
	entries, err := s.pricingSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, entries)
}

func (s *Server) GetPricing(c *gin.Context) {
	entry, err := s.pricingSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, entry)
}

func (s *Server) UpdatePricing(c *gin.Context) {
	var req updatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entry, err := s.pricingSvc.Update(c.Request.Context(), c.Param("id"), pricingdomain.UpdateRequest{
		Item:         req.Item,
		PricePerUnit: req.PricePerUnit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "pricing.update", "pricing", entry.Item, map[string]any{
		"price_per_unit": entry.PricePerUnit,
	})
	respondData(c, entry)
}

func (s *Server) DeletePricing(c *gin.Context) {
	id := c.Param("id")
	if err := s.pricingSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	s.recordAudit(c, "pricing.delete", "pricing", id, nil)
	respondData(c, gin.H{"deleted": id})
}

// recordAudit appends an audit row for a mutating call. Audit failures do
// not fail the request.
func (s *Server) recordAudit(c *gin.Context, action, targetType, targetID string, detail map[string]any) {
	identity := identityFrom(c)
	err := s.auditSvc.Record(c.Request.Context(), auditEntry(identity, action, targetType, targetID, detail))
	if err != nil {
		s.log.Warn("audit record failed",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
