package repository

import (
	"context"
	"fmt"

	"github.com/tieubaoca/ayuroot-be/database"
	"github.com/tieubaoca/ayuroot-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ChatRepo interface {
	CreateChat(ctx context.Context, chat *types.Chat) error
	ListChats(ctx context.Context, userID string, limit int) ([]*types.Chat, error)
}

type chatRepo struct {
	collection *mongo.Collection
}

func NewChatRepo(ctx context.Context, db *mongo.Database) (ChatRepo, error) {
	collection := db.Collection(database.ChatsCollection)
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create chats index: %w", err)
	}
	return &chatRepo{
		collection: collection,
	}, nil
}

func (r *chatRepo) CreateChat(ctx context.Context, chat *types.Chat) error {
	res, err := r.collection.InsertOne(ctx, chat)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		chat.ID = oid.Hex()
	}
	return nil
}

// ListChats returns the newest exchanges of a user first.
func (r *chatRepo) ListChats(ctx context.Context, userID string, limit int) ([]*types.Chat, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	chats := make([]*types.Chat, 0)
	for cursor.Next(ctx) {
		var chat types.Chat
		if err := cursor.Decode(&chat); err != nil {
			return nil, err
		}
		chats = append(chats, &chat)
	}
	return chats, cursor.Err()
}
