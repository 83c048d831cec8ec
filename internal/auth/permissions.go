package auth

import (
	"fmt"

	"stockroom-api/internal/model"
)

var permissionsByRole = map[model.Role]model.Permissions{
	model.RoleAdmin: {
		CanCreate:    true,
		CanEdit:      true,
		CanDelete:    true,
		CanViewPrice: true,
		CanRunAudit:  true,
		CanExport:    true,
	},
	model.RoleManager: {
		CanCreate:    true,
		CanEdit:      true,
		CanDelete:    true,
		CanViewPrice: true,
		CanRunAudit:  true,
		CanExport:    true,
	},
	model.RoleStaff: {
		CanEdit: true,
	},
}

// Resolve returns the permissions granted to role. Roles outside the closed
// set get no permissions.
func Resolve(role model.Role) model.Permissions {
	return permissionsByRole[role]
}

// ParseRole validates a role name.
func ParseRole(s string) (model.Role, error) {
	role := model.Role(s)
	if _, ok := permissionsByRole[role]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

// Action is a permission-gated operation.
type Action string

const (
	ActionCreate    Action = "create"
	ActionEdit      Action = "edit"
	ActionDelete    Action = "delete"
	ActionViewPrice Action = "view-price"
	ActionRunAudit  Action = "run-audit"
	ActionExport    Action = "export"
)

// Allows reports whether p grants action.
func Allows(p model.Permissions, action Action) bool {
	switch action {
	case ActionCreate:
		return p.CanCreate
	case ActionEdit:
		return p.CanEdit
	case ActionDelete:
		return p.CanDelete
	case ActionViewPrice:
		return p.CanViewPrice
	case ActionRunAudit:
		return p.CanRunAudit
	case ActionExport:
		return p.CanExport
	}
	return false
}
