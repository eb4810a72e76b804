package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/valeriaulyamaeva/finflow/internal/config"
	"github.com/valeriaulyamaeva/finflow/internal/database"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s up|down\n", os.Args[0])
	}
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

	switch flag.Arg(0) {
	case "up", "":
		err = database.MigrateUp(cfg.DatabaseURL)
	case "down":
		err = database.MigrateDown(cfg.DatabaseURL)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logrus.Fatal(err)
	}
	logrus.WithField("direction", flag.Arg(0)).Info("migrations finished")
}
