package project

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"prodiny/internal/auth"
	"prodiny/pkg/httputil"
)

var (
	ErrNotFound       = errors.New("Project not found")
	ErrNotOwnerUpdate = errors.New("Access denied. Only project owner can update.")
	ErrNotOwnerDelete = errors.New("Access denied. Only project owner can delete.")
	ErrAlreadyMember  = errors.New("You are already a member of this project")
	ErrWrongCollege   = errors.New("You can only join projects from your college")
	ErrNotMember      = errors.New("You are not a member of this project")
	ErrOwnerLeave     = errors.New("Project owner cannot leave. Transfer ownership first.")
)

// Store is the persistence surface the service needs. Satisfied by
// *ProjectRepository; tests substitute a stub.
type Store interface {
	List(ctx context.Context, filter ListFilter, skip, limit int64) ([]Project, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Project, error)
	Insert(ctx context.Context, project *Project) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*Project, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	AddMember(ctx context.Context, projectID, userID, collegeID primitive.ObjectID) (bool, error)
	RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error)
	PushToCollege(ctx context.Context, collegeID, projectID primitive.ObjectID) error
	PullFromCollege(ctx context.Context, collegeID, projectID primitive.ObjectID) error
	UserSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]UserSummary, error)
	CollegeSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]CollegeSummary, error)
}

type ProjectService struct {
	repo   Store
	logger *zap.Logger
}

func NewProjectService(repo Store, logger *zap.Logger) *ProjectService {
	return &ProjectService{repo: repo, logger: logger}
}

func (s *ProjectService) List(ctx context.Context, filter ListFilter, page httputil.PageParams) (*ListResult, error) {
	projects, total, err := s.repo.List(ctx, filter, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, err
	}
	views, err := s.buildViews(ctx, projects)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Projects:      views,
		CurrentPage:   page.Page,
		TotalPages:    httputil.TotalPages(total, page.Limit),
		TotalProjects: total,
	}, nil
}

func (s *ProjectService) Get(ctx context.Context, id primitive.ObjectID) (*View, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return s.buildView(ctx, project)
}

// Create inserts a project owned by the caller, bound to the caller's
// college, with the owner seeded into the member set.
func (s *ProjectService) Create(ctx context.Context, owner *auth.User, req CreateRequest) (*View, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	project := &Project{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Tags:        tags,
		Status:      StatusOpen,
		OwnerID:     owner.ID,
		CollegeID:   owner.CollegeID,
		Members:     []primitive.ObjectID{owner.ID},
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, project); err != nil {
		return nil, err
	}

	// Back-reference on the college; not transactional with the insert.
	if err := s.repo.PushToCollege(ctx, owner.CollegeID, project.ID); err != nil {
		s.logger.Warn("failed to add project to college",
			zap.String("projectId", project.ID.Hex()), zap.Error(err))
	}

	return s.buildView(ctx, project)
}

func (s *ProjectService) Update(ctx context.Context, actor *auth.User, id primitive.ObjectID, req UpdateRequest) (*View, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	if project.OwnerID != actor.ID {
		return nil, ErrNotOwnerUpdate
	}

	set := bson.M{}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.Tags != nil {
		set["tags"] = req.Tags
	}
	if req.Status != "" {
		set["status"] = req.Status
	}
	if len(set) == 0 {
		return s.buildView(ctx, project)
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

func (s *ProjectService) Join(ctx context.Context, user *auth.User, id primitive.ObjectID) error {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrNotFound
	}
	// College mismatch wins over membership state.
	if project.CollegeID != user.CollegeID {
		return ErrWrongCollege
	}
	if project.HasMember(user.ID) {
		return ErrAlreadyMember
	}

	joined, err := s.repo.AddMember(ctx, id, user.ID, user.CollegeID)
	if err != nil {
		return err
	}
	if !joined {
		// Lost the race against a concurrent join from the same user.
		return ErrAlreadyMember
	}
	return nil
}

func (s *ProjectService) Leave(ctx context.Context, user *auth.User, id primitive.ObjectID) error {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrNotFound
	}
	if !project.HasMember(user.ID) {
		return ErrNotMember
	}
	if project.OwnerID == user.ID {
		return ErrOwnerLeave
	}

	removed, err := s.repo.RemoveMember(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotMember
	}
	return nil
}

func (s *ProjectService) Delete(ctx context.Context, actor *auth.User, id primitive.ObjectID) error {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrNotFound
	}
	if project.OwnerID != actor.ID {
		return ErrNotOwnerDelete
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	if err := s.repo.PullFromCollege(ctx, project.CollegeID, project.ID); err != nil {
		s.logger.Warn("failed to remove project from college",
			zap.String("projectId", project.ID.Hex()), zap.Error(err))
	}
	return nil
}

func (s *ProjectService) buildView(ctx context.Context, project *Project) (*View, error) {
	views, err := s.buildViews(ctx, []Project{*project})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// buildViews populates owners, members, and colleges for a page of
// projects with two batch lookups.
func (s *ProjectService) buildViews(ctx context.Context, projects []Project) ([]View, error) {
	userIDs := []primitive.ObjectID{}
	collegeIDs := []primitive.ObjectID{}
	seenUsers := map[primitive.ObjectID]bool{}
	seenColleges := map[primitive.ObjectID]bool{}
	for _, p := range projects {
		for _, id := range append([]primitive.ObjectID{p.OwnerID}, p.Members...) {
			if !seenUsers[id] {
				seenUsers[id] = true
				userIDs = append(userIDs, id)
			}
		}
		if !seenColleges[p.CollegeID] {
			seenColleges[p.CollegeID] = true
			collegeIDs = append(collegeIDs, p.CollegeID)
		}
	}

	users, err := s.repo.UserSummaries(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	colleges, err := s.repo.CollegeSummaries(ctx, collegeIDs)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(projects))
	for _, p := range projects {
		view := View{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Tags:        p.Tags,
			Status:      p.Status,
			Members:     []UserSummary{},
			CreatedAt:   p.CreatedAt,
		}
		if owner, ok := users[p.OwnerID]; ok {
			view.Owner = &owner
		}
		if college, ok := colleges[p.CollegeID]; ok {
			view.College = &college
		}
		for _, m := range p.Members {
			if member, ok := users[m]; ok {
				view.Members = append(view.Members, member)
			}
		}
		views = append(views, view)
	}
	return views, nil
}
