package user

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"prodiny/internal/auth"
	"prodiny/pkg/httputil"
)

type CollegeSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Domain      string             `json:"domain"`
	Description string             `json:"description,omitempty"`
}

type SubgroupSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
}

type ProjectSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      string             `json:"status"`
	OwnerID     primitive.ObjectID `json:"ownerId"`
	College     *CollegeSummary    `json:"college,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// View is a user with college and subgroup references populated.
type View struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Role      string             `json:"role"`
	College   *CollegeSummary    `json:"college,omitempty"`
	Subgroups []SubgroupSummary  `json:"subgroups"`
	CreatedAt time.Time          `json:"createdAt"`
}

// PublicView is the reduced projection shown to viewers from another
// college who are not admins.
type PublicView struct {
	ID      primitive.ObjectID `json:"id"`
	Name    string             `json:"name"`
	Role    string             `json:"role"`
	College *CollegeSummary    `json:"college,omitempty"`
}

type ProfileStats struct {
	ProjectsOwned   int64 `json:"projectsOwned"`
	ProjectsJoined  int   `json:"projectsJoined"`
	SubgroupsJoined int   `json:"subgroupsJoined"`
}

type Profile struct {
	User     View             `json:"user"`
	Projects []ProjectSummary `json:"projects"`
	Stats    ProfileStats     `json:"stats"`
}

type ListResult struct {
	Users       []View `json:"users"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	TotalUsers  int64  `json:"totalUsers"`
}

type ListFilter struct {
	Role      string
	CollegeID *primitive.ObjectID
	Search    string
}

type UpdateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *UpdateRequest) Validate() []httputil.FieldError {
	var errs []httputil.FieldError
	if r.Name != "" && !httputil.MinChars(r.Name, 2) {
		errs = append(errs, httputil.FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	}
	if r.Email != "" && !httputil.ValidEmail(strings.TrimSpace(r.Email)) {
		errs = append(errs, httputil.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	return errs
}

type RoleRequest struct {
	Role string `json:"role"`
}

func (r *RoleRequest) Validate() []httputil.FieldError {
	if !auth.ValidRole(r.Role) {
		return []httputil.FieldError{{Field: "role", Message: "Invalid role"}}
	}
	return nil
}

// Stats is the admin platform-stats aggregation.
type Stats struct {
	Totals         StatsTotals        `json:"totals"`
	Distributions  StatsDistributions `json:"distributions"`
	RecentActivity RecentActivity     `json:"recentActivity"`
}

type StatsTotals struct {
	Users     int64 `json:"users"`
	Projects  int64 `json:"projects"`
	Subgroups int64 `json:"subgroups"`
	Colleges  int64 `json:"colleges"`
}

type GroupCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

type StatsDistributions struct {
	UsersByRole      []GroupCount `json:"usersByRole"`
	ProjectsByStatus []GroupCount `json:"projectsByStatus"`
}

type RecentActivity struct {
	NewUsers    int64 `json:"newUsers"`
	NewProjects int64 `json:"newProjects"`
}
