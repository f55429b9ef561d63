package server

import (
	"strings"
	"time"

	paymentdomain "github.com/greentruckerlabs/greentrucker/internal/payment/domain"
	"github.com/gin-gonic/gin"
)

type createPaymentRequest struct {
	CustomerID    string    `json:"customerID"`
	PaymentDate   time.Time `json:"paymentDate"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
}

// CreatePayment records a manually reconciled payment, such as a bank
// transfer matched by staff. The pay-now flow goes through Settle instead.
func (s *Server) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	record, err := s.paymentSvc.Create(c.Request.Context(), paymentdomain.CreateRequest{
		CustomerID:    strings.TrimSpace(req.CustomerID),
		PaymentDate:   req.PaymentDate,
		Amount:        req.Amount,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "payment.create", "payment", record.PaymentID, map[string]any{
		"customer_id": record.CustomerID,
		"amount":      record.Amount,
	})
	respondData(c, record)
}

func (s *Server) ListPayments(c *gin.Context) {
	ctx := c.Request.Context()
	identity := identityFrom(c)

	if resident := s.residentScope(c, identity); resident != "" {
		records, err := s.paymentSvc.ListByResident(ctx, resident)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		respondList(c, records)
		return
	}

	records, err := s.paymentSvc.List(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, records)
}

func (s *Server) GetPayment(c *gin.Context) {
	record, err := s.paymentSvc.Get(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, record)
}

func (s *Server) DeletePayment(c *gin.Context) {
	paymentID := c.Param("paymentId")
	if err := s.paymentSvc.Delete(c.Request.Context(), paymentID); err != nil {
		AbortWithError(c, err)
		return
	}
	s.recordAudit(c, "payment.delete", "payment", paymentID, nil)
	respondData(c, gin.H{"deleted": paymentID})
}
