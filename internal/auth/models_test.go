package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSignupRequest_Validate(t *testing.T) {
	collegeID := primitive.NewObjectID().Hex()

	tests := []struct {
		name   string
		req    SignupRequest
		fields []string
	}{
		{
			name: "valid",
			req:  SignupRequest{Name: "Ada", Email: "ada@mit.edu", Password: "secret1", CollegeID: collegeID},
		},
		{
			name: "valid with role",
			req:  SignupRequest{Name: "Ada", Email: "ada@mit.edu", Password: "secret1", CollegeID: collegeID, Role: RoleFaculty},
		},
		{
			name:   "short name",
			req:    SignupRequest{Name: "A", Email: "ada@mit.edu", Password: "secret1", CollegeID: collegeID},
			fields: []string{"name"},
		},
		{
			name:   "bad email",
			req:    SignupRequest{Name: "Ada", Email: "not-an-email", Password: "secret1", CollegeID: collegeID},
			fields: []string{"email"},
		},
		{
			name:   "short password",
			req:    SignupRequest{Name: "Ada", Email: "ada@mit.edu", Password: "12345", CollegeID: collegeID},
			fields: []string{"password"},
		},
		{
			name:   "bad college id",
			req:    SignupRequest{Name: "Ada", Email: "ada@mit.edu", Password: "secret1", CollegeID: "nope"},
			fields: []string{"collegeId"},
		},
		{
			name:   "bad role",
			req:    SignupRequest{Name: "Ada", Email: "ada@mit.edu", Password: "secret1", CollegeID: collegeID, Role: "superuser"},
			fields: []string{"role"},
		},
		{
			name:   "everything wrong",
			req:    SignupRequest{},
			fields: []string{"name", "email", "password", "collegeId"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.req.Validate()
			got := make([]string, 0, len(errs))
			for _, e := range errs {
				got = append(got, e.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	valid := LoginRequest{Email: "ada@mit.edu", Password: "secret1"}
	assert.Empty(t, valid.Validate())

	noPassword := LoginRequest{Email: "ada@mit.edu"}
	errs := noPassword.Validate()
	assert.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].Field)

	badEmail := LoginRequest{Email: "nope", Password: "secret1"}
	errs = badEmail.Validate()
	assert.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleStudent))
	assert.True(t, ValidRole(RoleFaculty))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("Admin"))
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleStudent}).IsAdmin())
	assert.False(t, (&User{Role: RoleFaculty}).IsAdmin())
}
