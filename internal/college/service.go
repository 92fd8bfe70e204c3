package college

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"prodiny/internal/project"
	"prodiny/pkg/httputil"
)

var (
	ErrNotFound  = errors.New("College not found")
	ErrDuplicate = errors.New("College with this name or domain already exists")
)

type CollegeService struct {
	repo *CollegeRepository
}

func NewCollegeService(repo *CollegeRepository) *CollegeService {
	return &CollegeService{repo: repo}
}

func (s *CollegeService) List(ctx context.Context, search string, page httputil.PageParams) (*ListResult, error) {
	colleges, total, err := s.repo.List(ctx, search, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Colleges:      colleges,
		CurrentPage:   page.Page,
		TotalPages:    httputil.TotalPages(total, page.Limit),
		TotalColleges: total,
	}, nil
}

// Get returns a college with populated subgroup/project summaries and
// derived counts. Dangling references are skipped, not errors.
func (s *CollegeService) Get(ctx context.Context, id primitive.ObjectID) (*Detail, error) {
	college, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if college == nil {
		return nil, ErrNotFound
	}

	subgroups, err := s.repo.SubgroupSummaries(ctx, college.Subgroups)
	if err != nil {
		return nil, err
	}
	projects, err := s.repo.ProjectSummaries(ctx, college.Projects)
	if err != nil {
		return nil, err
	}

	active := 0
	for _, p := range projects {
		if p.Status == project.StatusOpen || p.Status == project.StatusInProgress {
			active++
		}
	}

	return &Detail{
		College:       *college,
		SubgroupViews: subgroups,
		ProjectViews:  projects,
		Stats: Stats{
			TotalSubgroups: len(subgroups),
			TotalProjects:  len(projects),
			ActiveProjects: active,
		},
	}, nil
}

func (s *CollegeService) Create(ctx context.Context, req CreateRequest) (*College, error) {
	domain := NormalizedDomain(req.Domain)

	existing, err := s.repo.FindConflict(ctx, req.Name, domain, nil)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicate
	}

	college := &College{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		Domain:      domain,
		Subgroups:   []primitive.ObjectID{},
		Projects:    []primitive.ObjectID{},
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, college); err != nil {
		return nil, err
	}
	return college, nil
}

func (s *CollegeService) Update(ctx context.Context, id primitive.ObjectID, req UpdateRequest) (*College, error) {
	college, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if college == nil {
		return nil, ErrNotFound
	}

	set := bson.M{}
	domain := ""
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.Domain != "" {
		domain = NormalizedDomain(req.Domain)
		set["domain"] = domain
	}
	if len(set) == 0 {
		return college, nil
	}

	if req.Name != "" || domain != "" {
		conflict, err := s.repo.FindConflict(ctx, req.Name, domain, &id)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, ErrDuplicate
		}
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes the college document. Referencing projects and
// subgroups are left in place and keep their (now dangling) ids.
func (s *CollegeService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
