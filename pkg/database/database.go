package database

import (
	"context"
	"time"

	"github.com/leavenow/leavenow/pkg/util"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var MongoGlobalInstance *MongoInstance

const defaultConnectionString = "mongodb://localhost:27017/"
const defaultDatabase = "leavenow"

func Connect() error {
	connectionString := util.GetEnvironmentVariable("LEAVENOW_MONGODB_CONNECTION", defaultConnectionString)
	dbName := util.GetEnvironmentVariable("LEAVENOW_MONGODB_DATABASE", defaultDatabase)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return err
	}

	MongoGlobalInstance = &MongoInstance{
		Client:   client,
		Database: client.Database(dbName),
	}

	return nil
}

func GetCollection(collectionName string) *mongo.Collection {
	return MongoGlobalInstance.Database.Collection(collectionName)
}
