package authorization

import "context"

// Roles carried by API keys.
const (
	RoleResident = "resident"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// Protected objects.
const (
	ObjectPricing   = "pricing"
	ObjectWaste     = "waste"
	ObjectBilling   = "billing"
	ObjectPayment   = "payment"
	ObjectSchedule  = "schedule"
	ObjectInventory = "inventory"
	ObjectAudit     = "audit"
)

// Actions on objects.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionSettle = "settle"
	ActionExport = "export"
)

type Service interface {
	Authorize(ctx context.Context, role string, object string, action string) error
}
