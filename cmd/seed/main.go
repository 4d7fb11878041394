package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/restaurant-user-service/config"
	userapp "github.com/oksasatya/restaurant-user-service/internal/application"
	"github.com/oksasatya/restaurant-user-service/internal/container"
	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
	pginfra "github.com/oksasatya/restaurant-user-service/internal/infrastructure/postgres"
	"github.com/oksasatya/restaurant-user-service/internal/router"
	"github.com/oksasatya/restaurant-user-service/pkg/apperror"
	"github.com/oksasatya/restaurant-user-service/pkg/helpers"
)

// seed creates the initial admin account so Basic-auth protected routes are
// reachable on a fresh database. Running it again is a no-op.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if cfg.StorageDriver == config.StorageMemory {
		log.Fatal("seed needs STORAGE_DRIVER=postgres; the memory store does not outlive this process")
	}
	if cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), MaxConns: 2, MinConns: 1, MaxConnLife: time.Minute})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	container.SetPGPool(pool)

	stores, err := router.BuildStores(cfg)
	if err != nil {
		log.Fatalf("failed to build stores: %v", err)
	}
	svc := router.NewServices(stores, helpers.NewBcryptHasher(cfg.BcryptCost), logger, nil)

	v, err := svc.Users.CreateUser(ctx, &userapp.CreateUserInput{
		Name:               cfg.SeedAdminName,
		UserIdentification: cfg.SeedAdminIdentification,
		Email:              cfg.SeedAdminEmail,
		Profile:            entity.ProfileAdmin,
		Credentials: &userapp.CredentialsInput{
			Username: cfg.SeedAdminUsername,
			Password: cfg.SeedAdminPassword,
		},
	})
	switch {
	case err == nil:
		fmt.Printf("seeded admin: id=%s username=%s email=%s\n", v.ID, v.Username, v.Email)
	case apperror.Is(err, apperror.KindDuplicateEmail),
		apperror.Is(err, apperror.KindDuplicateIdentification),
		apperror.Is(err, apperror.KindDuplicateUsername):
		fmt.Printf("admin already present: %s\n", apperror.MessageOf(err))
	default:
		log.Fatalf("failed to seed admin: %v", err)
	}
}
