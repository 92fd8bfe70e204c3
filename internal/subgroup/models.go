package subgroup

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"prodiny/pkg/httputil"
)

type Subgroup struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	CollegeID   primitive.ObjectID   `bson:"college_id" json:"collegeId"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
}

func (s *Subgroup) HasMember(id primitive.ObjectID) bool {
	for _, m := range s.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Post is a discussion post. Posts live in their own collection keyed
// by subgroup id so subgroup documents stay bounded.
type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubgroupID primitive.ObjectID `bson:"subgroup_id" json:"subgroupId"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"authorId"`
	IsPinned   bool               `bson:"is_pinned" json:"isPinned"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

type UserSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  string             `json:"role"`
}

type CollegeSummary struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Domain string             `json:"domain"`
}

type View struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	College     *CollegeSummary    `json:"college,omitempty"`
	Members     []UserSummary      `json:"members"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type PostView struct {
	ID        primitive.ObjectID `json:"id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Author    *UserSummary       `json:"author,omitempty"`
	IsPinned  bool               `json:"isPinned"`
	CreatedAt time.Time          `json:"createdAt"`
}

type Detail struct {
	View
	Posts []PostView `json:"posts"`
}

// Recommendation is a subgroup ranked by member count for the
// recommended listing.
type Recommendation struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	College     *CollegeSummary    `json:"college,omitempty"`
	MemberCount int                `json:"memberCount"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type ListResult struct {
	Subgroups      []View `json:"subgroups"`
	CurrentPage    int    `json:"currentPage"`
	TotalPages     int    `json:"totalPages"`
	TotalSubgroups int64  `json:"totalSubgroups"`
}

type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *CreateRequest) Validate() []httputil.FieldError {
	var errs []httputil.FieldError
	if !httputil.MinChars(r.Name, 2) {
		errs = append(errs, httputil.FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	}
	if !httputil.MinChars(r.Description, 10) {
		errs = append(errs, httputil.FieldError{Field: "description", Message: "Description must be at least 10 characters"})
	}
	return errs
}

type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPinned bool   `json:"isPinned"`
}

func (r *CreatePostRequest) Validate() []httputil.FieldError {
	var errs []httputil.FieldError
	if !httputil.MinChars(r.Title, 3) {
		errs = append(errs, httputil.FieldError{Field: "title", Message: "Title must be at least 3 characters"})
	}
	if !httputil.MinChars(r.Content, 5) {
		errs = append(errs, httputil.FieldError{Field: "content", Message: "Content must be at least 5 characters"})
	}
	return errs
}
