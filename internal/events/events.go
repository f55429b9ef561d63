package events

// Notification event types emitted by the domain services.
const (
	EventScheduleRequested = "schedule.requested"
	EventScheduleUpdated   = "schedule.updated"
	EventPaymentSettled    = "payment.settled"
)

// SchedulePayload carries the data the mail dispatcher needs to confirm a
// pickup request.
type SchedulePayload struct {
	RequestID    string `json:"request_id"`
	CustomerName string `json:"customer_name"`
	Category     string `json:"category"`
	ScheduleDate string `json:"schedule_date"`
	Location     string `json:"location"`
	Email        string `json:"email"`
	Status       string `json:"status"`
}

func (p SchedulePayload) ToMap() map[string]any {
	return map[string]any{
		"request_id":    p.RequestID,
		"customer_name": p.CustomerName,
		"category":      p.Category,
		"schedule_date": p.ScheduleDate,
		"location":      p.Location,
		"email":         p.Email,
		"status":        p.Status,
	}
}

// SettlementPayload carries the data the mail dispatcher needs for a payment
// receipt notification.
type SettlementPayload struct {
	ResidentID    string  `json:"resident_id"`
	PaymentID     string  `json:"payment_id"`
	BillingID     string  `json:"billing_id"`
	Amount        float64 `json:"amount"`
	ReceiptNumber string  `json:"receipt_number"`
}

func (p SettlementPayload) ToMap() map[string]any {
	return map[string]any{
		"resident_id":    p.ResidentID,
		"payment_id":     p.PaymentID,
		"billing_id":     p.BillingID,
		"amount":         p.Amount,
		"receipt_number": p.ReceiptNumber,
	}
}
