package model

// Role is one of the closed set of user roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// User is a selectable application user.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Permissions is the capability set granted to a role.
type Permissions struct {
	CanCreate    bool `json:"canCreate"`
	CanEdit      bool `json:"canEdit"`
	CanDelete    bool `json:"canDelete"`
	CanViewPrice bool `json:"canViewPrice"`
	CanRunAudit  bool `json:"canRunAudit"`
	CanExport    bool `json:"canExport"`
}
