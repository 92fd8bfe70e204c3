package subgroup

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubgroupRepository handles DB operations for subgroups, their posts
// collection, and the lookups needed to populate responses.
type SubgroupRepository struct {
	subgroups *mongo.Collection
	posts     *mongo.Collection
	colleges  *mongo.Collection
	users     *mongo.Collection
}

var _ Store = (*SubgroupRepository)(nil)

func NewSubgroupRepository(db *mongo.Database) *SubgroupRepository {
	return &SubgroupRepository{
		subgroups: db.Collection("subgroups"),
		posts:     db.Collection("posts"),
		colleges:  db.Collection("colleges"),
		users:     db.Collection("users"),
	}
}

// List returns a page of subgroups, newest first, optionally scoped to
// a college.
func (r *SubgroupRepository) List(ctx context.Context, collegeID *primitive.ObjectID, skip, limit int64) ([]Subgroup, int64, error) {
	filter := bson.M{}
	if collegeID != nil {
		filter["college_id"] = *collegeID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.subgroups.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	subgroups := []Subgroup{}
	if err := cursor.All(ctx, &subgroups); err != nil {
		return nil, 0, err
	}

	total, err := r.subgroups.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return subgroups, total, nil
}

func (r *SubgroupRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Subgroup, error) {
	var subgroup Subgroup
	err := r.subgroups.FindOne(ctx, bson.M{"_id": id}).Decode(&subgroup)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &subgroup, nil
}

func (r *SubgroupRepository) FindByNameInCollege(ctx context.Context, name string, collegeID primitive.ObjectID) (*Subgroup, error) {
	var subgroup Subgroup
	err := r.subgroups.FindOne(ctx, bson.M{"name": name, "college_id": collegeID}).Decode(&subgroup)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &subgroup, nil
}

func (r *SubgroupRepository) Insert(ctx context.Context, subgroup *Subgroup) error {
	_, err := r.subgroups.InsertOne(ctx, subgroup)
	return err
}

// AddMember adds userID to the subgroup's member set in one
// conditional update; the filter carries the not-already-member check
// so concurrent joins from the same user resolve to a single entry.
func (r *SubgroupRepository) AddMember(ctx context.Context, subgroupID, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id":     subgroupID,
		"members": bson.M{"$ne": userID},
	}
	res, err := r.subgroups.UpdateOne(ctx, filter, bson.M{"$addToSet": bson.M{"members": userID}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *SubgroupRepository) RemoveMember(ctx context.Context, subgroupID, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": subgroupID, "members": userID}
	res, err := r.subgroups.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{"members": userID}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// AddToUser / RemoveFromUser mirror membership onto the user document.
// $addToSet / $pull keep the mirror idempotent under retries.
func (r *SubgroupRepository) AddToUser(ctx context.Context, userID, subgroupID primitive.ObjectID) error {
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$addToSet": bson.M{"subgroups": subgroupID}})
	return err
}

func (r *SubgroupRepository) RemoveFromUser(ctx context.Context, userID, subgroupID primitive.ObjectID) error {
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"subgroups": subgroupID}})
	return err
}

func (r *SubgroupRepository) PushToCollege(ctx context.Context, collegeID, subgroupID primitive.ObjectID) error {
	_, err := r.colleges.UpdateOne(ctx, bson.M{"_id": collegeID}, bson.M{"$addToSet": bson.M{"subgroups": subgroupID}})
	return err
}

func (r *SubgroupRepository) InsertPost(ctx context.Context, post *Post) error {
	_, err := r.posts.InsertOne(ctx, post)
	return err
}

// PostsBySubgroup returns a subgroup's posts, pinned first, then
// newest first.
func (r *SubgroupRepository) PostsBySubgroup(ctx context.Context, subgroupID primitive.ObjectID) ([]Post, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "is_pinned", Value: -1},
		{Key: "created_at", Value: -1},
	})
	cursor, err := r.posts.Find(ctx, bson.M{"subgroup_id": subgroupID}, opts)
	if err != nil {
		return nil, err
	}
	posts := []Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// RecommendationDoc is the raw aggregation row behind the recommended
// listing.
type RecommendationDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	CollegeID   primitive.ObjectID `bson:"college_id"`
	MemberCount int                `bson:"member_count"`
	CreatedAt   primitive.DateTime `bson:"created_at"`
}

// Recommended returns up to `limit` subgroups of the given college the
// user has not joined, ranked by member count descending.
func (r *SubgroupRepository) Recommended(ctx context.Context, collegeID primitive.ObjectID, exclude []primitive.ObjectID, limit int64) ([]RecommendationDoc, error) {
	if exclude == nil {
		exclude = []primitive.ObjectID{}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"college_id": collegeID,
			"_id":        bson.M{"$nin": exclude},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"member_count": bson.M{"$size": "$members"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "member_count", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.subgroups.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []RecommendationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UserSummaries batch-resolves users for populated responses.
func (r *SubgroupRepository) UserSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]UserSummary, error) {
	summaries := map[primitive.ObjectID]UserSummary{}
	if len(ids) == 0 {
		return summaries, nil
	}
	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var users []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Name  string             `bson:"name"`
		Email string             `bson:"email"`
		Role  string             `bson:"role"`
	}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		summaries[u.ID] = UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	}
	return summaries, nil
}

// CollegeSummaries batch-resolves colleges for populated responses.
func (r *SubgroupRepository) CollegeSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]CollegeSummary, error) {
	summaries := map[primitive.ObjectID]CollegeSummary{}
	if len(ids) == 0 {
		return summaries, nil
	}
	cursor, err := r.colleges.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var colleges []struct {
		ID     primitive.ObjectID `bson:"_id"`
		Name   string             `bson:"name"`
		Domain string             `bson:"domain"`
	}
	if err := cursor.All(ctx, &colleges); err != nil {
		return nil, err
	}
	for _, c := range colleges {
		summaries[c.ID] = CollegeSummary{ID: c.ID, Name: c.Name, Domain: c.Domain}
	}
	return summaries, nil
}
