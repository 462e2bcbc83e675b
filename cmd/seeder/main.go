// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/campaign-scheduler/internal/config"
	"github.com/unclebandit/campaign-scheduler/internal/logging"
	"github.com/unclebandit/campaign-scheduler/internal/repository"
	"github.com/unclebandit/campaign-scheduler/internal/service"
)

const defaultSeedFile = "seed/campaigns.json"

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logging configuration")
	}

	file := defaultSeedFile
	if len(os.Args) > 1 {
		file = os.Args[1]
	}

	ctx := context.Background()
	store, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open campaign store")
	}
	defer closeStore()

	n, err := seed(ctx, store, file, log)
	if err != nil {
		log.WithError(err).WithField("file", file).Fatal("seeding failed")
	}
	log.WithFields(logrus.Fields{"file": file, "count": n}).Info("seeding completed successfully")
}

// seed creates every campaign in file through the service so ids, statuses and validation
// match what the API would produce. A store that already holds campaigns is left alone.
func seed(ctx context.Context, store repository.CampaignStore, file string, log logrus.FieldLogger) (int, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", file, err)
	}
	var inputs []service.CampaignInput
	if err := json.Unmarshal(content, &inputs); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	existing, err := store.Load(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.WithField("count", len(existing)).Warn("store already holds campaigns, skipping seed")
		return 0, nil
	}

	for i, in := range inputs {
		if err := service.ValidateInput(in); err != nil {
			return 0, fmt.Errorf("campaign %d (%s): %w", i, in.Name, err)
		}
	}

	svc := service.NewCampaignService(store, nil, log)
	for _, in := range inputs {
		c, err := svc.Create(ctx, in)
		if err != nil {
			return 0, err
		}
		log.WithFields(logrus.Fields{"campaign_id": c.ID, "status": c.Status}).Debug("seeded campaign")
	}
	return len(inputs), nil
}
