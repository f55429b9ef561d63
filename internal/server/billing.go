package server

import (
	"strings"

	billingdomain "github.com/greentruckerlabs/greentrucker/internal/billing/domain"
	"github.com/gin-gonic/gin"
)

type settleRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type createBillingRecordRequest struct {
	BillingID       string  `json:"billingId"`
	ResidentID      string  `json:"residentId"`
	GarbageCost     float64 `json:"garbageCost"`
	RecyclingReward float64 `json:"recyclingReward"`
	TotalPrice      float64 `json:"totalPrice"`
	PaymentStatus   string  `json:"paymentStatus"`
}

type updateBillingRecordRequest struct {
	PaymentStatus *string `json:"paymentStatus"`
}

// @Summary      Get Billing Statement
// @Description  Recompute the cost breakdown and outstanding balance for one resident
// @Tags         billing
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  DataResponse
// @Router       /v1/billing/statement [get]
func (s *Server) GetStatement(c *gin.Context) {
	identity := identityFrom(c)
	resident := s.residentScope(c, identity)
	if resident == "" {
		AbortWithError(c, newValidationError("residentId", "required", "a resident id is required"))
		return
	}

	statement, err := s.billingSvc.StatementFor(c.Request.Context(), resident)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, statement)
}

// @Summary      Billing Overview
// @Description  One statement per resident, for staff dashboards
// @Tags         billing
// @Produce      json
// @Security     ApiKeyAuth
// @Router       /v1/billing/overview [get]
func (s *Server) GetOverview(c *gin.Context) {
	identity := identityFrom(c)
	if identity.Role == "resident" {
		AbortWithError(c, ErrForbidden)
		return
	}

	statements, err := s.billingSvc.Overview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, statements)
}

// @Summary      Settle Outstanding Balance
// @Description  Pay the full outstanding balance in one idempotent transaction
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        Idempotency-Key  header  string  false  "Idempotency Key"
// @Param        request body settleRequest true "Settlement Request"
// @Router       /v1/billing/settle [post]
func (s *Server) Settle(c *gin.Context) {
	identity := identityFrom(c)
	resident := s.residentScope(c, identity)
	if resident == "" {
		AbortWithError(c, newValidationError("residentId", "required", "a resident id is required"))
		return
	}

	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.billingSvc.Settle(c.Request.Context(), billingdomain.SettleRequest{
		ResidentID:     resident,
		PaymentMethod:  strings.TrimSpace(req.PaymentMethod),
		IdempotencyKey: idempotencyKeyFromHeader(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if !result.Replayed {
		s.recordAudit(c, "billing.settle", "billing", result.Billing.BillingID, map[string]any{
			"resident_id": resident,
			"amount":      result.Payment.Amount,
		})
	}
	respondData(c, result)
}

func (s *Server) ListBillingRecords(c *gin.Context) {
	ctx := c.Request.Context()
	identity := identityFrom(c)

	if resident := s.residentScope(c, identity); resident != "" {
		records, err := s.billingSvc.ListByResident(ctx, resident)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		respondList(c, records)
		return
	}

	records, err := s.billingSvc.List(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, records)
}

// @Summary      Create Billing Record
// @Description  Record a billing snapshot out of band, for staff corrections
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body createBillingRecordRequest true "Billing Record"
// @Success      200  {object}  DataResponse
// @Router       /v1/billing/records [post]
func (s *Server) CreateBillingRecord(c *gin.Context) {
	var req createBillingRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	record, err := s.billingSvc.Create(c.Request.Context(), billingdomain.CreateRequest{
		BillingID:       strings.TrimSpace(req.BillingID),
		ResidentID:      strings.TrimSpace(req.ResidentID),
		GarbageCost:     req.GarbageCost,
		RecyclingReward: req.RecyclingReward,
		TotalPrice:      req.TotalPrice,
		PaymentStatus:   billingdomain.PaymentStatus(strings.TrimSpace(req.PaymentStatus)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "billing.create", "billing", record.BillingID, map[string]any{
		"resident_id": record.ResidentID,
		"total_price": record.TotalPrice,
	})
	respondData(c, record)
}

func (s *Server) GetBillingRecord(c *gin.Context) {
	record, err := s.billingSvc.Get(c.Request.Context(), c.Param("billingId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, record)
}

func (s *Server) UpdateBillingRecord(c *gin.Context) {
	var req updateBillingRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := billingdomain.UpdateRequest{}
	if req.PaymentStatus != nil {
		status := billingdomain.PaymentStatus(strings.TrimSpace(*req.PaymentStatus))
		update.PaymentStatus = &status
	}

	record, err := s.billingSvc.Update(c.Request.Context(), c.Param("billingId"), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "billing.update", "billing", record.BillingID, map[string]any{
		"payment_status": string(record.PaymentStatus),
	})
	respondData(c, record)
}

func (s *Server) DeleteBillingRecord(c *gin.Context) {
	billingID := c.Param("billingId")
	if err := s.billingSvc.Delete(c.Request.Context(), billingID); err != nil {
		AbortWithError(c, err)
		return
	}
	s.recordAudit(c, "billing.delete", "billing", billingID, nil)
	respondData(c, gin.H{"deleted": billingID})
}
