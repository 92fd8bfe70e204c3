package college

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollegeRepository handles DB operations for colleges and the
// populated subgroup/project projections on college views.
type CollegeRepository struct {
	colleges  *mongo.Collection
	subgroups *mongo.Collection
	projects  *mongo.Collection
	users     *mongo.Collection
}

func NewCollegeRepository(db *mongo.Database) *CollegeRepository {
	return &CollegeRepository{
		colleges:  db.Collection("colleges"),
		subgroups: db.Collection("subgroups"),
		projects:  db.Collection("projects"),
		users:     db.Collection("users"),
	}
}

// List returns a page of colleges sorted by name, optionally filtered
// by a case-insensitive substring on name, domain, or description.
func (r *CollegeRepository) List(ctx context.Context, search string, skip, limit int64) ([]College, int64, error) {
	filter := bson.M{}
	if search != "" {
		regex := bson.M{"$regex": search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"name": regex},
			{"domain": regex},
			{"description": regex},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.colleges.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	colleges := []College{}
	if err := cursor.All(ctx, &colleges); err != nil {
		return nil, 0, err
	}

	total, err := r.colleges.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return colleges, total, nil
}

func (r *CollegeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*College, error) {
	var college College
	err := r.colleges.FindOne(ctx, bson.M{"_id": id}).Decode(&college)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &college, nil
}

// FindConflict looks for another college already using the given name
// or domain. excludeID skips the college being updated.
func (r *CollegeRepository) FindConflict(ctx context.Context, name, domain string, excludeID *primitive.ObjectID) (*College, error) {
	var or []bson.M
	if name != "" {
		or = append(or, bson.M{"name": name})
	}
	if domain != "" {
		or = append(or, bson.M{"domain": domain})
	}
	if len(or) == 0 {
		return nil, nil
	}

	filter := bson.M{"$or": or}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}

	var college College
	err := r.colleges.FindOne(ctx, filter).Decode(&college)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &college, nil
}

func (r *CollegeRepository) Insert(ctx context.Context, college *College) error {
	_, err := r.colleges.InsertOne(ctx, college)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *CollegeRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*College, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated College
	err := r.colleges.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (r *CollegeRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.colleges.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// subgroupDoc is the partial projection read while populating a
// college detail view.
type subgroupDoc struct {
	ID          primitive.ObjectID   `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Members     []primitive.ObjectID `bson:"members"`
}

// SubgroupSummaries resolves the college's subgroup references,
// skipping any dangling ids.
func (r *CollegeRepository) SubgroupSummaries(ctx context.Context, ids []primitive.ObjectID) ([]SubgroupSummary, error) {
	if len(ids) == 0 {
		return []SubgroupSummary{}, nil
	}
	cursor, err := r.subgroups.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []subgroupDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	summaries := make([]SubgroupSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, SubgroupSummary{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			MemberCount: len(d.Members),
		})
	}
	return summaries, nil
}

// ProjectSummaries resolves the college's project references along
// with each owner's name.
func (r *CollegeRepository) ProjectSummaries(ctx context.Context, ids []primitive.ObjectID) ([]ProjectSummary, error) {
	if len(ids) == 0 {
		return []ProjectSummary{}, nil
	}
	cursor, err := r.projects.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID        primitive.ObjectID `bson:"_id"`
		Title     string             `bson:"title"`
		Status    string             `bson:"status"`
		OwnerID   primitive.ObjectID `bson:"owner_id"`
		CreatedAt primitive.DateTime `bson:"created_at"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ownerIDs := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ownerIDs = append(ownerIDs, d.OwnerID)
	}
	owners, err := r.ownerNames(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProjectSummary, 0, len(docs))
	for _, d := range docs {
		summary := ProjectSummary{
			ID:        d.ID,
			Title:     d.Title,
			Status:    d.Status,
			CreatedAt: d.CreatedAt.Time(),
		}
		if name, ok := owners[d.OwnerID]; ok {
			summary.Owner = &OwnerSummary{ID: d.OwnerID, Name: name}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (r *CollegeRepository) ownerNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := map[primitive.ObjectID]string{}
	if len(ids) == 0 {
		return names, nil
	}
	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var users []struct {
		ID   primitive.ObjectID `bson:"_id"`
		Name string             `bson:"name"`
	}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}
