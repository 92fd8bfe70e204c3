package project

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"prodiny/pkg/httputil"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is one of the closed status set.
func ValidStatus(s string) bool {
	return s == StatusOpen || s == StatusInProgress || s == StatusCompleted
}

type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Tags        []string             `bson:"tags" json:"tags"`
	Status      string               `bson:"status" json:"status"`
	OwnerID     primitive.ObjectID   `bson:"owner_id" json:"ownerId"`
	CollegeID   primitive.ObjectID   `bson:"college_id" json:"collegeId"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
}

func (p *Project) HasMember(id primitive.ObjectID) bool {
	for _, m := range p.Members {
		if m == id {
			return true
		}
	}
	return false
}

// UserSummary is the populated member/owner projection.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// CollegeSummary is the populated college projection.
type CollegeSummary struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Domain string             `json:"domain"`
}

// View is a project with its references populated for responses.
type View struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Tags        []string           `json:"tags"`
	Status      string             `json:"status"`
	Owner       *UserSummary       `json:"owner,omitempty"`
	College     *CollegeSummary    `json:"college,omitempty"`
	Members     []UserSummary      `json:"members"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type ListResult struct {
	Projects      []View `json:"projects"`
	CurrentPage   int    `json:"currentPage"`
	TotalPages    int    `json:"totalPages"`
	TotalProjects int64  `json:"totalProjects"`
}

type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (r *CreateRequest) Validate() []httputil.FieldError {
	var errs []httputil.FieldError
	if !httputil.MinChars(r.Title, 3) {
		errs = append(errs, httputil.FieldError{Field: "title", Message: "Title must be at least 3 characters"})
	}
	if !httputil.MinChars(r.Description, 10) {
		errs = append(errs, httputil.FieldError{Field: "description", Message: "Description must be at least 10 characters"})
	}
	return errs
}

type UpdateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
}

func (r *UpdateRequest) Validate() []httputil.FieldError {
	var errs []httputil.FieldError
	if r.Title != "" && !httputil.MinChars(r.Title, 3) {
		errs = append(errs, httputil.FieldError{Field: "title", Message: "Title must be at least 3 characters"})
	}
	if r.Description != "" && !httputil.MinChars(r.Description, 10) {
		errs = append(errs, httputil.FieldError{Field: "description", Message: "Description must be at least 10 characters"})
	}
	if r.Status != "" && !ValidStatus(r.Status) {
		errs = append(errs, httputil.FieldError{Field: "status", Message: "Status must be open, in-progress, or completed"})
	}
	return errs
}
