package repository

import (
	"context"

	"github.com/tieubaoca/ayuroot-be/database"
	"github.com/tieubaoca/ayuroot-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type MedicineRepo interface {
	CreateMedicine(ctx context.Context, record *types.MedicineRecord) error
}

type medicineRepo struct {
	collection *mongo.Collection
}

func NewMedicineRepo(db *mongo.Database) MedicineRepo {
	return &medicineRepo{
		collection: db.Collection(database.MedicinesCollection),
	}
}

func (r *medicineRepo) CreateMedicine(ctx context.Context, record *types.MedicineRecord) error {
	res, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		record.ID = oid.Hex()
	}
	return nil
}
