package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prodiny/internal/auth"
)

func TestUpdateRequest_Validate(t *testing.T) {
	empty := UpdateRequest{}
	assert.Empty(t, empty.Validate(), "partial update with no fields is valid")

	valid := UpdateRequest{Name: "Ada", Email: "ada@mit.edu"}
	assert.Empty(t, valid.Validate())

	shortName := UpdateRequest{Name: "A"}
	errs := shortName.Validate()
	assert.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)

	badEmail := UpdateRequest{Email: "nope"}
	errs = badEmail.Validate()
	assert.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
}

func TestRoleRequest_Validate(t *testing.T) {
	for _, role := range []string{auth.RoleStudent, auth.RoleFaculty, auth.RoleAdmin} {
		req := RoleRequest{Role: role}
		assert.Empty(t, req.Validate())
	}

	bad := RoleRequest{Role: "superuser"}
	errs := bad.Validate()
	assert.Len(t, errs, 1)
	assert.Equal(t, "role", errs[0].Field)

	missing := RoleRequest{}
	assert.Len(t, missing.Validate(), 1)
}
