package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreateIndexes() {
	routinesCollection := GetCollection("routines")
	routinesIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := routinesCollection.Indexes().CreateMany(context.Background(), routinesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	preferencesCollection := GetCollection("preferences")
	preferencesIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
	}

	opts = options.CreateIndexes()
	_, err = preferencesCollection.Indexes().CreateMany(context.Background(), preferencesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	venuesCollection := GetCollection("venues")
	venuesIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
	}

	opts = options.CreateIndexes()
	_, err = venuesCollection.Indexes().CreateMany(context.Background(), venuesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
