package authorization

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestAuthz(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	enforcer, err := NewEnforcer(db)
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}
	for _, p := range DefaultPolicies() {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			t.Fatalf("add policy: %v", err)
		}
	}
	for _, g := range DefaultGroupings() {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			t.Fatalf("add grouping: %v", err)
		}
	}
	return NewService(zap.NewNop(), enforcer)
}

func TestAuthorizeResidentCanSettle(t *testing.T) {
	svc := newTestAuthz(t)
	if err := svc.Authorize(context.Background(), RoleResident, ObjectBilling, ActionSettle); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorizeResidentCannotWritePricing(t *testing.T) {
	svc := newTestAuthz(t)
	err := svc.Authorize(context.Background(), RoleResident, ObjectPricing, ActionWrite)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeStaffCanManageInventory(t *testing.T) {
	svc := newTestAuthz(t)
	if err := svc.Authorize(context.Background(), RoleStaff, ObjectInventory, ActionWrite); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorizeStaffCannotExportAudit(t *testing.T) {
	svc := newTestAuthz(t)
	err := svc.Authorize(context.Background(), RoleStaff, ObjectAudit, ActionExport)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeAdminWildcard(t *testing.T) {
	svc := newTestAuthz(t)
	if err := svc.Authorize(context.Background(), RoleAdmin, ObjectAudit, ActionExport); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if err := svc.Authorize(context.Background(), RoleAdmin, ObjectInventory, ActionWrite); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorizeEmptyRole(t *testing.T) {
	svc := newTestAuthz(t)
	err := svc.Authorize(context.Background(), "", ObjectBilling, ActionRead)
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}
}
