package subgroup

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"prodiny/internal/auth"
	"prodiny/pkg/httputil"
)

const recommendedLimit = 5

var (
	ErrNotFound      = errors.New("Subgroup not found")
	ErrDuplicateName = errors.New("Subgroup with this name already exists in your college")
	ErrWrongCollege  = errors.New("You can only join subgroups from your college")
	ErrAlreadyMember = errors.New("You are already a member of this subgroup")
	ErrNotMember     = errors.New("You are not a member of this subgroup")
	ErrNotMemberPost = errors.New("You must be a member to post in this subgroup")
)

// Store is the persistence surface the service needs. Satisfied by
// *SubgroupRepository; tests substitute a stub.
type Store interface {
	List(ctx context.Context, collegeID *primitive.ObjectID, skip, limit int64) ([]Subgroup, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Subgroup, error)
	FindByNameInCollege(ctx context.Context, name string, collegeID primitive.ObjectID) (*Subgroup, error)
	Insert(ctx context.Context, subgroup *Subgroup) error
	AddMember(ctx context.Context, subgroupID, userID primitive.ObjectID) (bool, error)
	RemoveMember(ctx context.Context, subgroupID, userID primitive.ObjectID) (bool, error)
	AddToUser(ctx context.Context, userID, subgroupID primitive.ObjectID) error
	RemoveFromUser(ctx context.Context, userID, subgroupID primitive.ObjectID) error
	PushToCollege(ctx context.Context, collegeID, subgroupID primitive.ObjectID) error
	InsertPost(ctx context.Context, post *Post) error
	PostsBySubgroup(ctx context.Context, subgroupID primitive.ObjectID) ([]Post, error)
	Recommended(ctx context.Context, collegeID primitive.ObjectID, exclude []primitive.ObjectID, limit int64) ([]RecommendationDoc, error)
	UserSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]UserSummary, error)
	CollegeSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]CollegeSummary, error)
}

type SubgroupService struct {
	repo   Store
	logger *zap.Logger
}

func NewSubgroupService(repo Store, logger *zap.Logger) *SubgroupService {
	return &SubgroupService{repo: repo, logger: logger}
}

func (s *SubgroupService) List(ctx context.Context, collegeID *primitive.ObjectID, page httputil.PageParams) (*ListResult, error) {
	subgroups, total, err := s.repo.List(ctx, collegeID, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, err
	}
	views, err := s.buildViews(ctx, subgroups)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Subgroups:      views,
		CurrentPage:    page.Page,
		TotalPages:     httputil.TotalPages(total, page.Limit),
		TotalSubgroups: total,
	}, nil
}

// Get returns the subgroup with members and its posts, pinned first.
func (s *SubgroupService) Get(ctx context.Context, id primitive.ObjectID) (*Detail, error) {
	subgroup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subgroup == nil {
		return nil, ErrNotFound
	}

	views, err := s.buildViews(ctx, []Subgroup{*subgroup})
	if err != nil {
		return nil, err
	}

	posts, err := s.repo.PostsBySubgroup(ctx, id)
	if err != nil {
		return nil, err
	}
	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.AuthorID)
	}
	authors, err := s.repo.UserSummaries(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	postViews := make([]PostView, 0, len(posts))
	for _, p := range posts {
		view := PostView{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			IsPinned:  p.IsPinned,
			CreatedAt: p.CreatedAt,
		}
		if author, ok := authors[p.AuthorID]; ok {
			view.Author = &author
		}
		postViews = append(postViews, view)
	}

	return &Detail{View: views[0], Posts: postViews}, nil
}

// Create inserts a subgroup in the caller's college with the creator
// as first member, mirrored onto the user and college documents.
func (s *SubgroupService) Create(ctx context.Context, creator *auth.User, req CreateRequest) (*View, error) {
	existing, err := s.repo.FindByNameInCollege(ctx, req.Name, creator.CollegeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	subgroup := &Subgroup{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		CollegeID:   creator.CollegeID,
		Members:     []primitive.ObjectID{creator.ID},
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, subgroup); err != nil {
		return nil, err
	}

	if err := s.repo.PushToCollege(ctx, creator.CollegeID, subgroup.ID); err != nil {
		s.logger.Warn("failed to add subgroup to college",
			zap.String("subgroupId", subgroup.ID.Hex()), zap.Error(err))
	}
	if err := s.repo.AddToUser(ctx, creator.ID, subgroup.ID); err != nil {
		s.logger.Warn("failed to mirror subgroup onto user",
			zap.String("subgroupId", subgroup.ID.Hex()), zap.Error(err))
	}

	views, err := s.buildViews(ctx, []Subgroup{*subgroup})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Join adds the user to the subgroup. The group-side write is the
// atomic source of truth; the user-side mirror happens only after a
// confirmed first write.
func (s *SubgroupService) Join(ctx context.Context, user *auth.User, id primitive.ObjectID) error {
	subgroup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if subgroup == nil {
		return ErrNotFound
	}
	if subgroup.CollegeID != user.CollegeID {
		return ErrWrongCollege
	}
	if subgroup.HasMember(user.ID) {
		return ErrAlreadyMember
	}

	joined, err := s.repo.AddMember(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if !joined {
		// Lost the race against a concurrent join from the same user.
		return ErrAlreadyMember
	}

	if err := s.repo.AddToUser(ctx, user.ID, id); err != nil {
		s.logger.Warn("failed to mirror subgroup join onto user",
			zap.String("subgroupId", id.Hex()), zap.Error(err))
	}
	return nil
}

func (s *SubgroupService) Leave(ctx context.Context, user *auth.User, id primitive.ObjectID) error {
	subgroup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if subgroup == nil {
		return ErrNotFound
	}
	if !subgroup.HasMember(user.ID) {
		return ErrNotMember
	}

	removed, err := s.repo.RemoveMember(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotMember
	}

	if err := s.repo.RemoveFromUser(ctx, user.ID, id); err != nil {
		s.logger.Warn("failed to mirror subgroup leave onto user",
			zap.String("subgroupId", id.Hex()), zap.Error(err))
	}
	return nil
}

// CreatePost adds a post authored by a member. Pinning is honored only
// for faculty and admin authors; everyone else gets an unpinned post.
func (s *SubgroupService) CreatePost(ctx context.Context, author *auth.User, subgroupID primitive.ObjectID, req CreatePostRequest) (*PostView, error) {
	subgroup, err := s.repo.FindByID(ctx, subgroupID)
	if err != nil {
		return nil, err
	}
	if subgroup == nil {
		return nil, ErrNotFound
	}
	if !subgroup.HasMember(author.ID) {
		return nil, ErrNotMemberPost
	}

	post := &Post{
		ID:         primitive.NewObjectID(),
		SubgroupID: subgroupID,
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   author.ID,
		IsPinned:   allowPin(author.Role, req.IsPinned),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.InsertPost(ctx, post); err != nil {
		return nil, err
	}

	return &PostView{
		ID:       post.ID,
		Title:    post.Title,
		Content:  post.Content,
		IsPinned: post.IsPinned,
		Author: &UserSummary{
			ID:    author.ID,
			Name:  author.Name,
			Email: author.Email,
			Role:  author.Role,
		},
		CreatedAt: post.CreatedAt,
	}, nil
}

// allowPin silently downgrades pin requests from non-privileged roles.
func allowPin(role string, requested bool) bool {
	return requested && (role == auth.RoleFaculty || role == auth.RoleAdmin)
}

// Recommended lists subgroups of the user's college the user has not
// joined, ranked by member count, capped at 5.
func (s *SubgroupService) Recommended(ctx context.Context, user *auth.User) ([]Recommendation, error) {
	docs, err := s.repo.Recommended(ctx, user.CollegeID, user.Subgroups, recommendedLimit)
	if err != nil {
		return nil, err
	}

	collegeIDs := make([]primitive.ObjectID, 0, len(docs))
	seen := map[primitive.ObjectID]bool{}
	for _, d := range docs {
		if !seen[d.CollegeID] {
			seen[d.CollegeID] = true
			collegeIDs = append(collegeIDs, d.CollegeID)
		}
	}
	colleges, err := s.repo.CollegeSummaries(ctx, collegeIDs)
	if err != nil {
		return nil, err
	}

	recommendations := make([]Recommendation, 0, len(docs))
	for _, d := range docs {
		rec := Recommendation{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			MemberCount: d.MemberCount,
			CreatedAt:   d.CreatedAt.Time(),
		}
		if college, ok := colleges[d.CollegeID]; ok {
			rec.College = &college
		}
		recommendations = append(recommendations, rec)
	}
	return recommendations, nil
}

// buildViews populates members and colleges for a page of subgroups
// with two batch lookups.
func (s *SubgroupService) buildViews(ctx context.Context, subgroups []Subgroup) ([]View, error) {
	userIDs := []primitive.ObjectID{}
	collegeIDs := []primitive.ObjectID{}
	seenUsers := map[primitive.ObjectID]bool{}
	seenColleges := map[primitive.ObjectID]bool{}
	for _, sg := range subgroups {
		for _, id := range sg.Members {
			if !seenUsers[id] {
				seenUsers[id] = true
				userIDs = append(userIDs, id)
			}
		}
		if !seenColleges[sg.CollegeID] {
			seenColleges[sg.CollegeID] = true
			collegeIDs = append(collegeIDs, sg.CollegeID)
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

	views := make([]View, 0, len(subgroups))
	for _, sg := range subgroups {
		view := View{
			ID:          sg.ID,
			Name:        sg.Name,
			Description: sg.Description,
			Members:     []UserSummary{},
			CreatedAt:   sg.CreatedAt,
		}
		if college, ok := colleges[sg.CollegeID]; ok {
			view.College = &college
		}
		for _, m := range sg.Members {
			if member, ok := users[m]; ok {
				view.Members = append(view.Members, member)
			}
		}
		views = append(views, view)
	}
	return views, nil
}
