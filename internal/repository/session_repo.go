package repository

import (
	"ceezaa-sessions/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepo handles MongoDB operations for sessions. Sessions are
// stored as whole documents; participants, invitations and venues are
// embedded and replaced together on every update.
type SessionRepo interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	GetByCode(ctx context.Context, code string) (*model.Session, error)
	GetByInvitation(ctx context.Context, invitationID string) (*model.Session, error)
	ListByParticipant(ctx context.Context, userID string) ([]*model.Session, error)
	ListByInvitee(ctx context.Context, userID string) ([]*model.Session, error)
	Update(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id string) error
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("sessions"),
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *sessionRepo) GetByCode(ctx context.Context, code string) (*model.Session, error) {
	code = model.NormalizeCode(code)
	// A code released at close/cancel can be re-claimed by a newer
	// session, so a still-voting holder wins over a settled one.
	session, err := r.findOne(ctx, bson.M{"code": code, "status": model.SessionVoting})
	if err != nil || session != nil {
		return session, err
	}
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *sessionRepo) GetByInvitation(ctx context.Context, invitationID string) (*model.Session, error) {
	return r.findOne(ctx, bson.M{"invitations.id": invitationID})
}

func (r *sessionRepo) findOne(ctx context.Context, filter bson.M) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) ListByParticipant(ctx context.Context, userID string) ([]*model.Session, error) {
	return r.findAll(ctx, bson.M{"participants.userId": userID})
}

func (r *sessionRepo) ListByInvitee(ctx context.Context, userID string) ([]*model.Session, error) {
	return r.findAll(ctx, bson.M{"invitations.inviteeId": userID})
}

func (r *sessionRepo) findAll(ctx context.Context, filter bson.M) ([]*model.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *model.Session) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	return err
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
