package subgroup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"prodiny/internal/auth"
)

type stubStore struct {
	subgroup *Subgroup
	byName   *Subgroup
	posts    []Post

	addMemberOK    bool
	addMemberCalls int
	removeCalls    int
	addToUserCalls int
	removedFrom    int
}

func (s *stubStore) List(ctx context.Context, collegeID *primitive.ObjectID, skip, limit int64) ([]Subgroup, int64, error) {
	return nil, 0, nil
}

func (s *stubStore) FindByID(ctx context.Context, id primitive.ObjectID) (*Subgroup, error) {
	if s.subgroup != nil && s.subgroup.ID == id {
		return s.subgroup, nil
	}
	return nil, nil
}

func (s *stubStore) FindByNameInCollege(ctx context.Context, name string, collegeID primitive.ObjectID) (*Subgroup, error) {
	return s.byName, nil
}

func (s *stubStore) Insert(ctx context.Context, subgroup *Subgroup) error {
	s.subgroup = subgroup
	return nil
}

func (s *stubStore) AddMember(ctx context.Context, subgroupID, userID primitive.ObjectID) (bool, error) {
	s.addMemberCalls++
	return s.addMemberOK, nil
}

func (s *stubStore) RemoveMember(ctx context.Context, subgroupID, userID primitive.ObjectID) (bool, error) {
	s.removeCalls++
	return true, nil
}

func (s *stubStore) AddToUser(ctx context.Context, userID, subgroupID primitive.ObjectID) error {
	s.addToUserCalls++
	return nil
}

func (s *stubStore) RemoveFromUser(ctx context.Context, userID, subgroupID primitive.ObjectID) error {
	s.removedFrom++
	return nil
}

func (s *stubStore) PushToCollege(ctx context.Context, collegeID, subgroupID primitive.ObjectID) error {
	return nil
}

func (s *stubStore) InsertPost(ctx context.Context, post *Post) error {
	s.posts = append(s.posts, *post)
	return nil
}

func (s *stubStore) PostsBySubgroup(ctx context.Context, subgroupID primitive.ObjectID) ([]Post, error) {
	return s.posts, nil
}

func (s *stubStore) Recommended(ctx context.Context, collegeID primitive.ObjectID, exclude []primitive.ObjectID, limit int64) ([]RecommendationDoc, error) {
	return nil, nil
}

func (s *stubStore) UserSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]UserSummary, error) {
	return map[primitive.ObjectID]UserSummary{}, nil
}

func (s *stubStore) CollegeSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]CollegeSummary, error) {
	return map[primitive.ObjectID]CollegeSummary{}, nil
}

func fixtures() (*stubStore, *SubgroupService, *auth.User, *Subgroup) {
	creator := primitive.NewObjectID()
	collegeID := primitive.NewObjectID()
	subgroup := &Subgroup{
		ID:        primitive.NewObjectID(),
		Name:      "Robotics",
		CollegeID: collegeID,
		Members:   []primitive.ObjectID{creator},
	}
	store := &stubStore{subgroup: subgroup, addMemberOK: true}
	svc := NewSubgroupService(store, zap.NewNop())
	user := &auth.User{ID: primitive.NewObjectID(), CollegeID: collegeID, Role: auth.RoleStudent}
	return store, svc, user, subgroup
}

func TestJoin_WrongCollege(t *testing.T) {
	store, svc, user, subgroup := fixtures()
	user.CollegeID = primitive.NewObjectID()

	err := svc.Join(context.Background(), user, subgroup.ID)
	assert.ErrorIs(t, err, ErrWrongCollege)
	assert.Zero(t, store.addMemberCalls)
}

func TestJoin_AlreadyMember(t *testing.T) {
	store, svc, user, subgroup := fixtures()
	subgroup.Members = append(subgroup.Members, user.ID)

	err := svc.Join(context.Background(), user, subgroup.ID)
	assert.ErrorIs(t, err, ErrAlreadyMember)
	assert.Zero(t, store.addMemberCalls)
}

func TestJoin_LostRaceReturnsAlreadyMember(t *testing.T) {
	store, svc, user, subgroup := fixtures()
	// A concurrent join from the same user won the conditional update;
	// the user document must not receive a second mirror write.
	store.addMemberOK = false

	err := svc.Join(context.Background(), user, subgroup.ID)
	assert.ErrorIs(t, err, ErrAlreadyMember)
	assert.Equal(t, 1, store.addMemberCalls)
	assert.Zero(t, store.addToUserCalls)
}

func TestJoin_SuccessMirrorsOntoUser(t *testing.T) {
	store, svc, user, subgroup := fixtures()

	err := svc.Join(context.Background(), user, subgroup.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.addMemberCalls)
	assert.Equal(t, 1, store.addToUserCalls)
}

func TestLeave_NotMember(t *testing.T) {
	store, svc, user, subgroup := fixtures()

	err := svc.Leave(context.Background(), user, subgroup.ID)
	assert.ErrorIs(t, err, ErrNotMember)
	assert.Zero(t, store.removeCalls)
}

func TestLeave_Success(t *testing.T) {
	store, svc, user, subgroup := fixtures()
	subgroup.Members = append(subgroup.Members, user.ID)

	err := svc.Leave(context.Background(), user, subgroup.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.removeCalls)
	assert.Equal(t, 1, store.removedFrom)
}

func TestCreate_DuplicateNameInCollege(t *testing.T) {
	store, svc, user, subgroup := fixtures()
	store.byName = subgroup

	_, err := svc.Create(context.Background(), user, CreateRequest{
		Name: "Robotics", Description: "Campus robotics enthusiasts",
	})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestCreatePost_NonMember(t *testing.T) {
	store, svc, user, subgroup := fixtures()

	_, err := svc.CreatePost(context.Background(), user, subgroup.ID, CreatePostRequest{
		Title: "Meetup", Content: "Friday at the lab",
	})
	assert.ErrorIs(t, err, ErrNotMemberPost)
	assert.Empty(t, store.posts)
}

func TestCreatePost_StudentPinDowngraded(t *testing.T) {
	store, svc, user, subgroup := fixtures()
	subgroup.Members = append(subgroup.Members, user.ID)

	post, err := svc.CreatePost(context.Background(), user, subgroup.ID, CreatePostRequest{
		Title: "Meetup", Content: "Friday at the lab", IsPinned: true,
	})
	require.NoError(t, err)
	assert.False(t, post.IsPinned, "students cannot pin")
	require.Len(t, store.posts, 1)
	assert.False(t, store.posts[0].IsPinned)
}

func TestCreatePost_FacultyPinHonored(t *testing.T) {
	store, svc, user, subgroup := fixtures()
	user.Role = auth.RoleFaculty
	subgroup.Members = append(subgroup.Members, user.ID)

	post, err := svc.CreatePost(context.Background(), user, subgroup.ID, CreatePostRequest{
		Title: "Rules", Content: "Read before posting", IsPinned: true,
	})
	require.NoError(t, err)
	assert.True(t, post.IsPinned)
	require.Len(t, store.posts, 1)
	assert.True(t, store.posts[0].IsPinned)
}
