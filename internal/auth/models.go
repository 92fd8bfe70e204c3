package auth

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"prodiny/pkg/httputil"
)

const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleFaculty || role == RoleAdmin
}

type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"password_hash" json:"-"`
	Role         string               `bson:"role" json:"role"`
	CollegeID    primitive.ObjectID   `bson:"college_id" json:"collegeId"`
	Subgroups    []primitive.ObjectID `bson:"subgroups" json:"subgroups"`
	CreatedAt    time.Time            `bson:"created_at" json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CollegeRef is the projection of a college used when resolving the
// signup college and populating login responses.
type CollegeRef struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Name   string             `bson:"name" json:"name"`
	Domain string             `bson:"domain" json:"domain"`
}

type SignupRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CollegeID string `json:"collegeId"`
	Role      string `json:"role"`
}

func (r *SignupRequest) Validate() []httputil.FieldError {
	var errs []httputil.FieldError
	if !httputil.MinChars(r.Name, 2) {
		errs = append(errs, httputil.FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	}
	if !httputil.ValidEmail(strings.TrimSpace(r.Email)) {
		errs = append(errs, httputil.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if len(r.Password) < 6 {
		errs = append(errs, httputil.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if _, err := primitive.ObjectIDFromHex(r.CollegeID); err != nil {
		errs = append(errs, httputil.FieldError{Field: "collegeId", Message: "Please provide a valid college ID"})
	}
	if r.Role != "" && !ValidRole(r.Role) {
		errs = append(errs, httputil.FieldError{Field: "role", Message: "Invalid role"})
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() []httputil.FieldError {
	var errs []httputil.FieldError
	if !httputil.ValidEmail(strings.TrimSpace(r.Email)) {
		errs = append(errs, httputil.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if r.Password == "" {
		errs = append(errs, httputil.FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}
