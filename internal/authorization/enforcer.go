package authorization

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == r.obj || p.obj == "*") && (p.act == r.act || p.act == "*")
`

// NewEnforcer builds the RBAC enforcer backed by the casbin_rule table.
// Policies are stored in the database so the seed command can install them
// and staff tooling can adjust them without a redeploy.
func NewEnforcer(db *gorm.DB) (*casbin.Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

// DefaultPolicies returns the role grants installed by the seed command.
func DefaultPolicies() [][]string {
	return [][]string{
		{RoleResident, ObjectWaste, ActionRead},
		{RoleResident, ObjectBilling, ActionRead},
		{RoleResident, ObjectBilling, ActionSettle},
		{RoleResident, ObjectBilling, ActionExport},
		{RoleResident, ObjectPayment, ActionRead},
		{RoleResident, ObjectPricing, ActionRead},
		{RoleResident, ObjectSchedule, ActionRead},
		{RoleResident, ObjectSchedule, ActionWrite},
		{RoleResident, ObjectInventory, ActionRead},

		{RoleStaff, ObjectWaste, ActionRead},
		{RoleStaff, ObjectWaste, ActionWrite},
		{RoleStaff, ObjectPricing, ActionRead},
		{RoleStaff, ObjectPricing, ActionWrite},
		{RoleStaff, ObjectBilling, ActionRead},
		{RoleStaff, ObjectBilling, ActionWrite},
		{RoleStaff, ObjectBilling, ActionExport},
		{RoleStaff, ObjectPayment, ActionRead},
		{RoleStaff, ObjectPayment, ActionWrite},
		{RoleStaff, ObjectSchedule, ActionRead},
		{RoleStaff, ObjectSchedule, ActionWrite},
		{RoleStaff, ObjectInventory, ActionRead},
		{RoleStaff, ObjectInventory, ActionWrite},

		{RoleAdmin, "*", "*"},
	}
}

// DefaultGroupings returns the role inheritance edges.
func DefaultGroupings() [][]string {
	return [][]string{
		{RoleAdmin, RoleStaff},
	}
}
