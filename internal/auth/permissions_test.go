package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom-api/internal/model"
)

func TestResolveIsStable(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.False(t, Resolve(model.RoleStaff).CanDelete)
		assert.True(t, Resolve(model.RoleAdmin).CanDelete)
	}
}

func TestResolveRoles(t *testing.T) {
	all := model.Permissions{CanCreate: true, CanEdit: true, CanDelete: true, CanViewPrice: true, CanRunAudit: true, CanExport: true}
	assert.Equal(t, all, Resolve(model.RoleAdmin))
	assert.Equal(t, all, Resolve(model.RoleManager))
	assert.Equal(t, model.Permissions{CanEdit: true}, Resolve(model.RoleStaff))
	assert.Equal(t, model.Permissions{}, Resolve("intern"))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("manager")
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, role)

	_, err = ParseRole("root")
	assert.Error(t, err)
}

func TestAllows(t *testing.T) {
	staff := Resolve(model.RoleStaff)
	assert.True(t, Allows(staff, ActionEdit))
	for _, a := range []Action{ActionCreate, ActionDelete, ActionViewPrice, ActionRunAudit, ActionExport} {
		assert.False(t, Allows(staff, a), a)
	}
	assert.False(t, Allows(Resolve(model.RoleAdmin), Action("launch")))
}
