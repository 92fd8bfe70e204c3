package user

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"prodiny/internal/auth"
	"prodiny/pkg/httputil"
)

const recentActivityWindow = 30 * 24 * time.Hour

var (
	ErrNotFound   = errors.New("User not found")
	ErrForbidden  = errors.New("Access denied")
	ErrEmailTaken = errors.New("Email already in use")
	ErrSelfDelete = errors.New("You cannot delete your own account")
)

type UserService struct {
	repo *UserRepository
}

func NewUserService(repo *UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Profile aggregates the caller's populated user document, their
// owned/joined projects, and the derived counts.
func (s *UserService) Profile(ctx context.Context, current *auth.User) (*Profile, error) {
	view, err := s.buildView(ctx, current)
	if err != nil {
		return nil, err
	}

	projects, err := s.repo.ProjectsForUser(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	owned, err := s.repo.CountProjectsOwned(ctx, current.ID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:     *view,
		Projects: projects,
		Stats: ProfileStats{
			ProjectsOwned:   owned,
			ProjectsJoined:  len(projects),
			SubgroupsJoined: len(current.Subgroups),
		},
	}, nil
}

// Get returns the full profile to same-college or admin viewers and
// the reduced projection to everyone else. The second return value is
// non-nil only for the reduced case.
func (s *UserService) Get(ctx context.Context, viewer *auth.User, id primitive.ObjectID) (*Profile, *PublicView, error) {
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if target == nil {
		return nil, nil, ErrNotFound
	}

	if target.CollegeID != viewer.CollegeID && !viewer.IsAdmin() {
		colleges, err := s.repo.CollegeSummaries(ctx, []primitive.ObjectID{target.CollegeID})
		if err != nil {
			return nil, nil, err
		}
		public := &PublicView{ID: target.ID, Name: target.Name, Role: target.Role}
		if college, ok := colleges[target.CollegeID]; ok {
			public.College = &college
		}
		return nil, public, nil
	}

	view, err := s.buildView(ctx, target)
	if err != nil {
		return nil, nil, err
	}
	projects, err := s.repo.ProjectsForUser(ctx, target.ID)
	if err != nil {
		return nil, nil, err
	}
	return &Profile{User: *view, Projects: projects}, nil, nil
}

// Update patches name/email on the target user. Only the user
// themselves or an admin may do this.
func (s *UserService) Update(ctx context.Context, actor *auth.User, id primitive.ObjectID, req UpdateRequest) (*View, error) {
	if id != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Email != "" {
		inUse, err := s.repo.EmailInUse(ctx, req.Email, id)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, ErrEmailTaken
		}
		set["email"] = req.Email
	}
	if len(set) == 0 {
		return s.buildView(ctx, target)
	}

	updated, err := s.repo.UpdateFields(ctx, id, set)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return s.buildView(ctx, updated)
}

func (s *UserService) List(ctx context.Context, filter ListFilter, page httputil.PageParams) (*ListResult, error) {
	users, total, err := s.repo.List(ctx, filter, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(users))
	for i := range users {
		view, err := s.buildView(ctx, &users[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	return &ListResult{
		Users:       views,
		CurrentPage: page.Page,
		TotalPages:  httputil.TotalPages(total, page.Limit),
		TotalUsers:  total,
	}, nil
}

func (s *UserService) ChangeRole(ctx context.Context, id primitive.ObjectID, role string) (*auth.User, error) {
	updated, err := s.repo.UpdateFields(ctx, id, bson.M{"role": role})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes a user and cascades membership and ownership.
// Admins cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, actor *auth.User, id primitive.ObjectID) error {
	if id == actor.ID {
		return ErrSelfDelete
	}

	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}

	return s.repo.DeleteCascade(ctx, id)
}

// Stats builds the admin platform-stats aggregation.
func (s *UserService) Stats(ctx context.Context) (*Stats, error) {
	totals, err := s.repo.CountTotals(ctx)
	if err != nil {
		return nil, err
	}
	usersByRole, err := s.repo.GroupUsersByRole(ctx)
	if err != nil {
		return nil, err
	}
	projectsByStatus, err := s.repo.GroupProjectsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	since := time.Now().Add(-recentActivityWindow)
	newUsers, err := s.repo.CountUsersSince(ctx, since)
	if err != nil {
		return nil, err
	}
	newProjects, err := s.repo.CountProjectsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Totals: totals,
		Distributions: StatsDistributions{
			UsersByRole:      usersByRole,
			ProjectsByStatus: projectsByStatus,
		},
		RecentActivity: RecentActivity{
			NewUsers:    newUsers,
			NewProjects: newProjects,
		},
	}, nil
}

func (s *UserService) buildView(ctx context.Context, u *auth.User) (*View, error) {
	colleges, err := s.repo.CollegeSummaries(ctx, []primitive.ObjectID{u.CollegeID})
	if err != nil {
		return nil, err
	}
	subgroups, err := s.repo.SubgroupSummaries(ctx, u.Subgroups)
	if err != nil {
		return nil, err
	}

	view := &View{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Subgroups: subgroups,
		CreatedAt: u.CreatedAt,
	}
	if college, ok := colleges[u.CollegeID]; ok {
		view.College = &college
	}
	return view, nil
}
