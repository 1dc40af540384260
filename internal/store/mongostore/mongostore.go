// Package mongostore implements store.Store on top of MongoDB.
package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/dimitrije/datacoll-api/internal/models"
	"github.com/dimitrije/datacoll-api/internal/store"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionsColl = "collections"
	membersColl     = "members"
	ownersColl      = "owners"
)

// maxIDRetries bounds the insert retry loop when two writers race for the
// same next member id.
const maxIDRetries = 5

type collectionDoc struct {
	ID                 string    `bson:"_id"`
	PID                *string   `bson:"pid,omitempty"`
	Name               *string   `bson:"name,omitempty"`
	Owner              string    `bson:"owner"`
	RestrictedDatatype *string   `bson:"restricted_datatype,omitempty"`
	Rule               *string   `bson:"rule,omitempty"`
	CreatedAt          time.Time `bson:"created_at"`
}

type memberDoc struct {
	CollectionID string    `bson:"collection_id"`
	ID           int       `bson:"id"`
	PID          *string   `bson:"pid,omitempty"`
	Location     *string   `bson:"location,omitempty"`
	Checksum     *string   `bson:"checksum,omitempty"`
	Datatype     *string   `bson:"datatype,omitempty"`
	DateAdded    time.Time `bson:"date_added"`
}

type ownerDoc struct {
	Mail string `bson:"_id"`
}

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// EnsureIndexes creates the unique indexes the driver relies on for
// conflict detection. Call once at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(collectionsColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "pid", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.D{{Key: "pid", Value: bson.D{{Key: "$type", Value: "string"}}}}),
	})
	if err != nil {
		return err
	}
	_, err = s.db.Collection(membersColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "collection_id", Value: 1}, {Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) EnsureOwner(ctx context.Context, mail string) error {
	_, err := s.db.Collection(ownersColl).UpdateOne(ctx,
		bson.M{"_id": mail},
		bson.M{"$setOnInsert": ownerDoc{Mail: mail}},
		options.Update().SetUpsert(true))
	return err
}

func (s *Store) InsertCollection(ctx context.Context, c *models.Collection) (*models.Collection, error) {
	doc := collectionDoc{
		ID:                 uuid.New().String(),
		PID:                c.PID,
		Name:               c.Name,
		Owner:              c.Owner,
		RestrictedDatatype: c.RestrictedDatatype,
		Rule:               c.Rule,
		CreatedAt:          time.Now().UTC(),
	}
	if _, err := s.db.Collection(collectionsColl).InsertOne(ctx, doc); err != nil {
		return nil, mapError(err)
	}
	return doc.model()
}

func (s *Store) GetCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	var doc collectionDoc
	err := s.db.Collection(collectionsColl).FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		return nil, mapError(err)
	}
	return doc.model()
}

func (s *Store) ListCollections(ctx context.Context, f store.CollectionFilter) (store.CollectionCursor, error) {
	filter := bson.M{}
	if f.Owner != nil {
		filter["owner"] = *f.Owner
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := s.db.Collection(collectionsColl).Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError(err)
	}
	return &collectionCursor{cur: cur}, nil
}

func (s *Store) UpdateCollection(ctx context.Context, c *models.Collection) (*models.Collection, error) {
	set := bson.M{
		"pid":                 c.PID,
		"name":                c.Name,
		"owner":               c.Owner,
		"restricted_datatype": c.RestrictedDatatype,
		"rule":                c.Rule,
		"created_at":          time.Now().UTC(),
	}
	var doc collectionDoc
	err := s.db.Collection(collectionsColl).FindOneAndUpdate(ctx,
		bson.M{"_id": c.ID.String()},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, mapError(err)
	}
	return doc.model()
}

func (s *Store) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	// Members are not removed with the collection.
	res, err := s.db.Collection(collectionsColl).DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return mapError(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) InsertMember(ctx context.Context, m *models.Member, assignID bool) (*models.Member, error) {
	doc := memberDoc{
		CollectionID: m.CollectionID.String(),
		ID:           m.ID,
		PID:          m.PID,
		Location:     m.Location,
		Checksum:     m.Checksum,
		Datatype:     m.Datatype,
	}
	if !assignID {
		doc.DateAdded = time.Now().UTC()
		if _, err := s.db.Collection(membersColl).InsertOne(ctx, doc); err != nil {
			return nil, mapError(err)
		}
		return doc.model()
	}

	// The next id is read and then inserted under the unique index; a
	// concurrent writer taking the same id surfaces as a duplicate key,
	// which we retry with a fresh read.
	for attempt := 0; attempt < maxIDRetries; attempt++ {
		next, err := s.nextMemberID(ctx, doc.CollectionID)
		if err != nil {
			return nil, err
		}
		doc.ID = next
		doc.DateAdded = time.Now().UTC()
		_, err = s.db.Collection(membersColl).InsertOne(ctx, doc)
		if err == nil {
			return doc.model()
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, mapError(err)
		}
	}
	return nil, store.ErrConflict
}

func (s *Store) nextMemberID(ctx context.Context, collID string) (int, error) {
	var last memberDoc
	err := s.db.Collection(membersColl).FindOne(ctx,
		bson.M{"collection_id": collID},
		options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, mapError(err)
	}
	return last.ID + 1, nil
}

func (s *Store) GetMember(ctx context.Context, collID uuid.UUID, id int) (*models.Member, error) {
	var doc memberDoc
	err := s.db.Collection(membersColl).FindOne(ctx,
		bson.M{"collection_id": collID.String(), "id": id}).Decode(&doc)
	if err != nil {
		return nil, mapError(err)
	}
	return doc.model()
}

func (s *Store) ListMembers(ctx context.Context, f store.MemberFilter) (store.MemberCursor, error) {
	filter := bson.M{}
	switch {
	case f.NameRule != nil:
		ids, err := s.collectionIDsMatching(ctx, *f.NameRule)
		if err != nil {
			return nil, err
		}
		filter["collection_id"] = bson.M{"$in": ids}
	case f.CollectionID != nil:
		filter["collection_id"] = f.CollectionID.String()
	}
	opts := options.Find().SetSort(bson.D{{Key: "collection_id", Value: 1}, {Key: "id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := s.db.Collection(membersColl).Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError(err)
	}
	return &memberCursor{cur: cur}, nil
}

func (s *Store) collectionIDsMatching(ctx context.Context, rule string) ([]string, error) {
	pattern := store.GlobToRegexp(rule)
	cur, err := s.db.Collection(collectionsColl).Find(ctx,
		bson.M{"name": primitive.Regex{Pattern: pattern}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	ids := []string{}
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

func (s *Store) UpdateMember(ctx context.Context, collID uuid.UUID, id int, m *models.Member) (*models.Member, error) {
	if m.ID != id {
		err := s.db.Collection(membersColl).FindOne(ctx,
			bson.M{"collection_id": collID.String(), "id": m.ID}).Err()
		if err == nil {
			return nil, store.ErrConflict
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mapError(err)
		}
	}

	set := bson.M{
		"id":       m.ID,
		"pid":      m.PID,
		"location": m.Location,
		"checksum": m.Checksum,
		"datatype": m.Datatype,
	}
	var doc memberDoc
	err := s.db.Collection(membersColl).FindOneAndUpdate(ctx,
		bson.M{"collection_id": collID.String(), "id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, mapError(err)
	}
	return doc.model()
}

func (s *Store) DeleteMember(ctx context.Context, collID uuid.UUID, id int) error {
	res, err := s.db.Collection(membersColl).DeleteOne(ctx,
		bson.M{"collection_id": collID.String(), "id": id})
	if err != nil {
		return mapError(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (d collectionDoc) model() (*models.Collection, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &models.Collection{
		ID:                 id,
		PID:                d.PID,
		Name:               d.Name,
		Owner:              d.Owner,
		RestrictedDatatype: d.RestrictedDatatype,
		Rule:               d.Rule,
		CreatedAt:          d.CreatedAt,
	}, nil
}

func (d memberDoc) model() (*models.Member, error) {
	collID, err := uuid.Parse(d.CollectionID)
	if err != nil {
		return nil, err
	}
	return &models.Member{
		CollectionID: collID,
		ID:           d.ID,
		PID:          d.PID,
		Location:     d.Location,
		Checksum:     d.Checksum,
		Datatype:     d.Datatype,
		DateAdded:    d.DateAdded,
	}, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrConflict
	}
	return err
}

type collectionCursor struct {
	cur *mongo.Cursor
}

func (c *collectionCursor) Next(ctx context.Context) (*models.Collection, bool, error) {
	if !c.cur.Next(ctx) {
		return nil, false, c.cur.Err()
	}
	var doc collectionDoc
	if err := c.cur.Decode(&doc); err != nil {
		return nil, false, err
	}
	m, err := doc.model()
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (c *collectionCursor) Close(ctx context.Context) error { return c.cur.Close(ctx) }

type memberCursor struct {
	cur *mongo.Cursor
}

func (c *memberCursor) Next(ctx context.Context) (*models.Member, bool, error) {
	if !c.cur.Next(ctx) {
		return nil, false, c.cur.Err()
	}
	var doc memberDoc
	if err := c.cur.Decode(&doc); err != nil {
		return nil, false, err
	}
	m, err := doc.model()
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (c *memberCursor) Close(ctx context.Context) error { return c.cur.Close(ctx) }
