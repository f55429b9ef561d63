package server

import (
	"strings"
	"time"

	wastedomain "github.com/greentruckerlabs/greentrucker/internal/waste/domain"
	"github.com/gin-gonic/gin"
)

type createWasteCollectionRequest struct {
	CollectionID   string                  `json:"collectionId"`
	ResidentID     string                  `json:"residentId"`
	CollectionDate time.Time               `json:"collectionDate"`
	Status         string                  `json:"status"`
	Garbage        []wastedomain.ItemInput `json:"garbage"`
}

type updateWasteCollectionRequest struct {
	Status  *string                 `json:"status"`
	Garbage []wastedomain.ItemInput `json:"garbage"`
}

// @Summary      Create Waste Collection Record
// @Description  Record a weighed pickup with its itemized garbage list
// @Tags         waste
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body createWasteCollectionRequest true "Collection Record"
// @Success      200  {object}  DataResponse
// @Router       /v1/waste-collections [post]
func (s *Server) CreateWasteCollection(c *gin.Context) {
	var req createWasteCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := wastedomain.CollectionStatusCollected
	if trimmed := strings.TrimSpace(req.Status); trimmed != "" {
		status = wastedomain.CollectionStatus(trimmed)
	}

	record, err := s.wasteSvc.Create(c.Request.Context(), wastedomain.CreateRequest{
		CollectionID:   strings.TrimSpace(req.CollectionID),
		ResidentID:     strings.TrimSpace(req.ResidentID),
		CollectionDate: req.CollectionDate,
		Status:         status,
		Items:          req.Garbage,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "waste.create", "waste", record.CollectionID, map[string]any{
		"resident_id": record.ResidentID,
		"items":       len(record.Garbage),
	})
	respondData(c, record)
}

// @Summary      List Waste Collection Records
// @Description  List records, optionally narrowed to a resident or month
// @Tags         waste
// @Produce      json
// @Security     ApiKeyAuth
// @Param        resident_id  query  string  false  "Resident ID"
// @Param        month        query  string  false  "Month (YYYY-MM)"
// @Router       /v1/waste-collections [get]
func (s *Server) ListWasteCollections(c *gin.Context) {
	ctx := c.Request.Context()
	identity := identityFrom(c)

	if resident := s.residentScope(c, identity); resident != "" {
		records, err := s.wasteSvc.ListByResident(ctx, resident)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		respondList(c, records)
		return
	}

	if month := strings.TrimSpace(c.Query("month")); month != "" {
		records, err := s.wasteSvc.ListByMonth(ctx, month)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		respondList(c, records)
		return
	}

	if resident := strings.TrimSpace(c.Query("resident_id")); resident != "" {
		records, err := s.wasteSvc.ListByResident(ctx, resident)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		respondList(c, records)
		return
	}

	records, err := s.wasteSvc.List(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, records)
}

func (s *Server) GetWasteCollection(c *gin.Context) {
	record, err := s.wasteSvc.Get(c.Request.Context(), c.Param("collectionId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, record)
}

func (s *Server) UpdateWasteCollection(c *gin.Context) {
	var req updateWasteCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := wastedomain.UpdateRequest{Items: req.Garbage}
	if req.Status != nil {
		status := wastedomain.CollectionStatus(strings.TrimSpace(*req.Status))
		update.Status = &status
	}

	record, err := s.wasteSvc.Update(c.Request.Context(), c.Param("collectionId"), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "waste.update", "waste", record.CollectionID, nil)
	respondData(c, record)
}

func (s *Server) DeleteWasteCollection(c *gin.Context) {
	collectionID := c.Param("collectionId")
	if err := s.wasteSvc.Delete(c.Request.Context(), collectionID); err != nil {
		AbortWithError(c, err)
		return
	}
	s.recordAudit(c, "waste.delete", "waste", collectionID, nil)
	respondData(c, gin.H{"deleted": collectionID})
}
