package app

import (
	"context"

	"legumes/internal/config"
	"legumes/internal/logging"
	"legumes/internal/repository"
	"legumes/internal/service"
	"legumes/internal/storage"
)

// Services are the domain services built over the backends.
type Services struct {
	Guard        *service.Guard
	Auth         service.AuthService
	Provisioning service.ProvisioningService
	Vendors      service.VendorService
	Photos       service.PhotoService
}

// NewServices wires repositories and services.
func NewServices(ctx context.Context, cfg *config.Config, b *Backends, log logging.Logger) (*Services, error) {
	vendorRepo := repository.NewVendorRepository(b.Store)
	guard := service.NewGuard(b.Provider)

	var presigner storage.Presigner
	if cfg.PhotoUploadsEnabled() {
		s3, err := storage.NewS3Presigner(ctx, storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		presigner = s3
	}

	return &Services{
		Guard: guard,
		Auth:  service.NewAuthService(b.Provider, log.With("component", "auth")),
		Provisioning: service.NewProvisioningService(
			guard,
			b.Provider,
			repository.NewUserRepository(b.Store),
			repository.NewRoleRepository(b.Store),
			vendorRepo,
			b.Cache,
			service.ProvisioningOptions{
				StepTimeout: cfg.ProvisionStepTimeout,
				Compensate:  cfg.ProvisionCompensate,
			},
			log.With("component", "provisioning"),
		),
		Vendors: service.NewVendorService(vendorRepo, b.Cache, log.With("component", "vendors")),
		Photos:  service.NewPhotoService(presigner),
	}, nil
}
