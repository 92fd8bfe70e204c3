package college

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"prodiny/pkg/httputil"
)

type College struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Domain      string               `bson:"domain" json:"domain"`
	Subgroups   []primitive.ObjectID `bson:"subgroups" json:"-"`
	Projects    []primitive.ObjectID `bson:"projects" json:"-"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
}

// SubgroupSummary is the populated subgroup projection on college views.
type SubgroupSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	MemberCount int                `json:"memberCount"`
}

// ProjectSummary is the populated project projection on college views.
type ProjectSummary struct {
	ID        primitive.ObjectID `json:"id"`
	Title     string             `json:"title"`
	Status    string             `json:"status"`
	Owner     *OwnerSummary      `json:"owner,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

type OwnerSummary struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

type Stats struct {
	TotalSubgroups int `json:"totalSubgroups"`
	TotalProjects  int `json:"totalProjects"`
	ActiveProjects int `json:"activeProjects"`
}

type Detail struct {
	College
	SubgroupViews []SubgroupSummary `json:"subgroups"`
	ProjectViews  []ProjectSummary  `json:"projects"`
	Stats         Stats             `json:"stats"`
}

type ListResult struct {
	Colleges      []College `json:"colleges"`
	CurrentPage   int       `json:"currentPage"`
	TotalPages    int       `json:"totalPages"`
	TotalColleges int64     `json:"totalColleges"`
}

type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Domain      string `json:"domain"`
}

func (r *CreateRequest) Validate() []httputil.FieldError {
	var errs []httputil.FieldError
	if !httputil.MinChars(r.Name, 2) {
		errs = append(errs, httputil.FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	}
	if !httputil.MinChars(r.Description, 10) {
		errs = append(errs, httputil.FieldError{Field: "description", Message: "Description must be at least 10 characters"})
	}
	if !httputil.MinChars(r.Domain, 3) {
		errs = append(errs, httputil.FieldError{Field: "domain", Message: "Domain must be at least 3 characters"})
	}
	return errs
}

type UpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Domain      string `json:"domain"`
}

func (r *UpdateRequest) Validate() []httputil.FieldError {
	var errs []httputil.FieldError
	if r.Name != "" && !httputil.MinChars(r.Name, 2) {
		errs = append(errs, httputil.FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	}
	if r.Description != "" && !httputil.MinChars(r.Description, 10) {
		errs = append(errs, httputil.FieldError{Field: "description", Message: "Description must be at least 10 characters"})
	}
	if r.Domain != "" && !httputil.MinChars(r.Domain, 3) {
		errs = append(errs, httputil.FieldError{Field: "domain", Message: "Domain must be at least 3 characters"})
	}
	return errs
}

// NormalizedDomain lowercases a domain the way the store expects it.
func NormalizedDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
