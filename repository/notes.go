package repository

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kelvin-Amaju/keyclip-lite/middleware"
	"github.com/Kelvin-Amaju/keyclip-lite/model"
	"github.com/Kelvin-Amaju/keyclip-lite/utils"
)

var ErrNoteNotFound = errors.New("note not found")

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(client *mongo.Client) *NotesRepo {
	return &NotesRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("notes"),
	}
}

// CreateNote inserts a new note, assigning its ID and timestamps
func (r *NotesRepo) CreateNote(ctx context.Context, note *model.Note) error {
	timer := middleware.TrackDBOperation("create", "notes")
	defer timer.ObserveDuration()

	note.ID = utils.GenerateNoteID()
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	if note.Tags == nil {
		note.Tags = []string{}
	}

	_, err := r.MongoCollection.InsertOne(ctx, note)
	return err
}

// GetAllNotes retrieves every note, newest first
func (r *NotesRepo) GetAllNotes(ctx context.Context) ([]*model.Note, error) {
	timer := middleware.TrackDBOperation("find_all", "notes")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notes := make([]*model.Note, 0)
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote retrieves a specific note
func (r *NotesRepo) GetNote(ctx context.Context, noteID string) (*model.Note, error) {
	timer := middleware.TrackDBOperation("find_one", "notes")
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": noteID}).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

// UpdateNote replaces the mutable fields of a note and returns the
// updated document. The stored summary is left untouched.
func (r *NotesRepo) UpdateNote(ctx context.Context, noteID string, updates *model.Note) (*model.Note, error) {
	timer := middleware.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	if updates.Tags == nil {
		updates.Tags = []string{}
	}

	update := bson.M{
		"$set": bson.M{
			"content":    updates.Content,
			"tags":       updates.Tags,
			"updated_at": time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": noteID}, update)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrNoteNotFound
	}

	return r.GetNote(ctx, noteID)
}

// DeleteNote deletes a specific note
func (r *NotesRepo) DeleteNote(ctx context.Context, noteID string) error {
	timer := middleware.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": noteID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// CountNotes counts the stored notes
func (r *NotesRepo) CountNotes(ctx context.Context) (int64, error) {
	timer := middleware.TrackDBOperation("count", "notes")
	defer timer.ObserveDuration()

	return r.MongoCollection.CountDocuments(ctx, bson.M{})
}
