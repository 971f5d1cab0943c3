package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/leavenow/leavenow/pkg/util"
	"github.com/redis/go-redis/v9"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

func Connect() error {
	address := util.GetEnvironmentVariable("LEAVENOW_REDIS_ADDRESS", defaultConnectionAddress)
	password := util.GetEnvironmentVariable("LEAVENOW_REDIS_PASSWORD", defaultConnectionPassword)

	database := defaultDatabase
	if value := util.GetEnvironmentVariable("LEAVENOW_REDIS_DATABASE", ""); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		database = n
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	statusCmd := Client.Ping(context.Background())
	err := statusCmd.Err()
	if err != nil {
		return err
	}

	QueueConnection, err = rmq.OpenConnectionWithRedisClient("leavenow", Client, nil)

	if err != nil {
		return err
	}

	return nil
}
