package notify

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leavenow/leavenow/pkg/consumer"
	"github.com/leavenow/leavenow/pkg/database"
	"github.com/leavenow/leavenow/pkg/redis_client"
	"github.com/leavenow/leavenow/pkg/routines"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "notify",
		Usage: "Provides the notification system",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run notify server",
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}

					var pushManager *PushManager
					if os.Getenv("LEAVENOW_FIREBASE_SERVICE_ACCOUNT") != "" {
						pushManager = &PushManager{}
						if err := pushManager.Setup(); err != nil {
							return err
						}
					} else {
						log.Info().Msg("No Firebase credentials set, only logging notifications")
					}

					redisConsumer := consumer.RedisConsumer{
						QueueName:       routines.NotificationQueueName,
						NumberConsumers: 5,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer:        NewNotifyBatchConsumer(pushManager),
					}
					redisConsumer.Setup()

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					return nil
				},
			},
		},
	}
}
