package main

import (
	"context"
	"flag"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sirupsen/logrus"
	"github.com/valeriaulyamaeva/finflow/internal/auth"
	"github.com/valeriaulyamaeva/finflow/internal/config"
	"github.com/valeriaulyamaeva/finflow/internal/database"
	"github.com/valeriaulyamaeva/finflow/internal/service"
	"github.com/valeriaulyamaeva/finflow/utils"
)

func main() {
	fake := flag.Int("fake", 0, "number of random users to generate besides the demo user")
	seed := flag.Int64("seed", 0, "random seed for generated data (0 picks one from the clock)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := cfg.Log.Apply(logrus.StandardLogger()); err != nil {
		logrus.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		logrus.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	if err := database.MigrateUp(cfg.DatabaseURL); err != nil {
		logrus.Fatal(err)
	}
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatal(err)
	}
	defer pool.Close()

	svc := service.NewServices(database.NewPostgres(pool), auth.NewTokens(cfg.JWTSecret))

	user, err := utils.SeedDemo(ctx, svc)
	if err != nil {
		logrus.Fatal(err)
	}
	if user != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("demo user seeded")
	}

	if *fake > 0 {
		if *seed == 0 {
			*seed = time.Now().UnixNano()
		}
		users, err := utils.GenerateTestUsers(ctx, svc, gofakeit.New(*seed), *fake, utils.DefaultFakeData())
		if err != nil {
			logrus.Fatal(err)
		}
		logrus.WithFields(logrus.Fields{"users": len(users), "seed": *seed}).Info("fake data generated")
	}
}
