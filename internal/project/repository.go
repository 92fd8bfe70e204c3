package project

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProjectRepository handles DB operations for projects plus the user
// and college lookups needed to populate responses.
type ProjectRepository struct {
	projects *mongo.Collection
	colleges *mongo.Collection
	users    *mongo.Collection
}

var _ Store = (*ProjectRepository)(nil)

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{
		projects: db.Collection("projects"),
		colleges: db.Collection("colleges"),
		users:    db.Collection("users"),
	}
}

type ListFilter struct {
	Status    string
	CollegeID *primitive.ObjectID
	Tags      []string
}

func (f ListFilter) query() bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CollegeID != nil {
		filter["college_id"] = *f.CollegeID
	}
	if len(f.Tags) > 0 {
		filter["tags"] = bson.M{"$in": f.Tags}
	}
	return filter
}

// List returns a page of projects, newest first.
func (r *ProjectRepository) List(ctx context.Context, filter ListFilter, skip, limit int64) ([]Project, int64, error) {
	query := filter.query()
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.projects.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	projects := []Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, 0, err
	}

	total, err := r.projects.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Project, error) {
	var project Project
	err := r.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Insert(ctx context.Context, project *Project) error {
	_, err := r.projects.InsertOne(ctx, project)
	return err
}

func (r *ProjectRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Project
	err := r.projects.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.projects.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// AddMember adds userID to the project's member set in one conditional
// update: the filter requires the project to belong to collegeID and
// the user to not already be a member, so concurrent joins cannot
// produce a duplicate entry. Returns false when the filter matched
// nothing to add (already a member, or lost the race).
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID, collegeID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id":        projectID,
		"college_id": collegeID,
		"members":    bson.M{"$ne": userID},
	}
	res, err := r.projects.UpdateOne(ctx, filter, bson.M{"$addToSet": bson.M{"members": userID}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RemoveMember pulls userID from the member set. Returns false when
// the user was not a member.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": projectID, "members": userID}
	res, err := r.projects.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{"members": userID}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *ProjectRepository) PushToCollege(ctx context.Context, collegeID, projectID primitive.ObjectID) error {
	_, err := r.colleges.UpdateOne(ctx, bson.M{"_id": collegeID}, bson.M{"$addToSet": bson.M{"projects": projectID}})
	return err
}

func (r *ProjectRepository) PullFromCollege(ctx context.Context, collegeID, projectID primitive.ObjectID) error {
	_, err := r.colleges.UpdateOne(ctx, bson.M{"_id": collegeID}, bson.M{"$pull": bson.M{"projects": projectID}})
	return err
}

// UserSummaries batch-resolves users for populated responses.
func (r *ProjectRepository) UserSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]UserSummary, error) {
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
	}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		summaries[u.ID] = UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return summaries, nil
}

// CollegeSummaries batch-resolves colleges for populated responses.
func (r *ProjectRepository) CollegeSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]CollegeSummary, error) {
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
