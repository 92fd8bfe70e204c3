package user

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"prodiny/internal/auth"
)

// UserRepository handles DB operations for user management, including
// the cross-collection reads behind profiles and platform stats.
type UserRepository struct {
	users     *mongo.Collection
	projects  *mongo.Collection
	subgroups *mongo.Collection
	colleges  *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:     db.Collection("users"),
		projects:  db.Collection("projects"),
		subgroups: db.Collection("subgroups"),
		colleges:  db.Collection("colleges"),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error) {
	var user auth.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// EmailInUse reports whether another user already has the email.
func (r *UserRepository) EmailInUse(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"email": email, "_id": bson.M{"$ne": excludeID}}
	err := r.users.FindOne(ctx, filter).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *UserRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*auth.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated auth.User
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

// List returns a page of users, newest first, filtered by role,
// college, and a case-insensitive name/email search.
func (r *UserRepository) List(ctx context.Context, filter ListFilter, skip, limit int64) ([]auth.User, int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.CollegeID != nil {
		query["college_id"] = *filter.CollegeID
	}
	if filter.Search != "" {
		regex := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = []bson.M{{"name": regex}, {"email": regex}}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.users.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	users := []auth.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}

	total, err := r.users.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

type projectDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	OwnerID     primitive.ObjectID `bson:"owner_id"`
	CollegeID   primitive.ObjectID `bson:"college_id"`
	CreatedAt   time.Time          `bson:"created_at"`
}

// ProjectsForUser returns projects the user owns or is a member of,
// with the college name populated.
func (r *UserRepository) ProjectsForUser(ctx context.Context, userID primitive.ObjectID) ([]ProjectSummary, error) {
	filter := bson.M{"$or": []bson.M{
		{"owner_id": userID},
		{"members": userID},
	}}
	cursor, err := r.projects.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []projectDoc
	if err := cursor.All(ctx, &docs); err != nil {
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
	colleges, err := r.CollegeSummaries(ctx, collegeIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProjectSummary, 0, len(docs))
	for _, d := range docs {
		summary := ProjectSummary{
			ID:          d.ID,
			Title:       d.Title,
			Description: d.Description,
			Status:      d.Status,
			OwnerID:     d.OwnerID,
			CreatedAt:   d.CreatedAt,
		}
		if college, ok := colleges[d.CollegeID]; ok {
			summary.College = &college
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (r *UserRepository) CountProjectsOwned(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.projects.CountDocuments(ctx, bson.M{"owner_id": userID})
}

func (r *UserRepository) CollegeSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]CollegeSummary, error) {
	summaries := map[primitive.ObjectID]CollegeSummary{}
	if len(ids) == 0 {
		return summaries, nil
	}
	cursor, err := r.colleges.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var colleges []struct {
		ID          primitive.ObjectID `bson:"_id"`
		Name        string             `bson:"name"`
		Domain      string             `bson:"domain"`
		Description string             `bson:"description"`
	}
	if err := cursor.All(ctx, &colleges); err != nil {
		return nil, err
	}
	for _, c := range colleges {
		summaries[c.ID] = CollegeSummary{ID: c.ID, Name: c.Name, Domain: c.Domain, Description: c.Description}
	}
	return summaries, nil
}

func (r *UserRepository) SubgroupSummaries(ctx context.Context, ids []primitive.ObjectID) ([]SubgroupSummary, error) {
	if len(ids) == 0 {
		return []SubgroupSummary{}, nil
	}
	cursor, err := r.subgroups.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID          primitive.ObjectID `bson:"_id"`
		Name        string             `bson:"name"`
		Description string             `bson:"description"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	summaries := make([]SubgroupSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, SubgroupSummary{ID: d.ID, Name: d.Name, Description: d.Description})
	}
	return summaries, nil
}

// DeleteCascade removes the user from all member sets, deletes the
// projects they own, then deletes the user document. The writes are
// sequential, not transactional, matching the store's update-level
// atomicity model.
func (r *UserRepository) DeleteCascade(ctx context.Context, userID primitive.ObjectID) error {
	pull := bson.M{"$pull": bson.M{"members": userID}}
	if _, err := r.projects.UpdateMany(ctx, bson.M{"members": userID}, pull); err != nil {
		return err
	}
	if _, err := r.subgroups.UpdateMany(ctx, bson.M{"members": userID}, pull); err != nil {
		return err
	}
	if _, err := r.projects.DeleteMany(ctx, bson.M{"owner_id": userID}); err != nil {
		return err
	}
	_, err := r.users.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}

// Stats queries.

func (r *UserRepository) CountTotals(ctx context.Context) (StatsTotals, error) {
	var totals StatsTotals
	var err error
	if totals.Users, err = r.users.CountDocuments(ctx, bson.M{}); err != nil {
		return totals, err
	}
	if totals.Projects, err = r.projects.CountDocuments(ctx, bson.M{}); err != nil {
		return totals, err
	}
	if totals.Subgroups, err = r.subgroups.CountDocuments(ctx, bson.M{}); err != nil {
		return totals, err
	}
	totals.Colleges, err = r.colleges.CountDocuments(ctx, bson.M{})
	return totals, err
}

func (r *UserRepository) GroupUsersByRole(ctx context.Context) ([]GroupCount, error) {
	return groupCounts(ctx, r.users, "$role")
}

func (r *UserRepository) GroupProjectsByStatus(ctx context.Context) ([]GroupCount, error) {
	return groupCounts(ctx, r.projects, "$status")
}

func groupCounts(ctx context.Context, collection *mongo.Collection, field string) ([]GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   field,
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	counts := []GroupCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *UserRepository) CountUsersSince(ctx context.Context, since time.Time) (int64, error) {
	return r.users.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}

func (r *UserRepository) CountProjectsSince(ctx context.Context, since time.Time) (int64, error) {
	return r.projects.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}
