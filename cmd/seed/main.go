// Command seed creates the first administrator. Provisioning normally requires
// an admin caller, so the very first one has to be created out of band.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"legumes/internal/app"
	"legumes/internal/config"
	apperrors "legumes/internal/errors"
	"legumes/internal/logging"
	"legumes/internal/model"
	"legumes/internal/service"
)

func main() {
	cfg := config.Load()
	log := logging.New("legumes-seed", cfg.LogLevel)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return errors.New("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}

	backends, err := app.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backends.Close()

	services, err := app.NewServices(ctx, cfg, backends, log)
	if err != nil {
		return err
	}

	user, err := services.Provisioning.Provision(ctx, service.CreateUserInput{
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
		Name:     cfg.SeedAdminName,
		Roles:    []string{model.RoleAdmin},
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindIdentityCreationFailed {
			log.Warn(ctx, "admin not created, it probably exists already", "email", cfg.SeedAdminEmail, "error", err)
			return nil
		}
		return err
	}

	log.Info(ctx, "admin created", "user_id", user.ID, "email", user.Email)
	return nil
}
