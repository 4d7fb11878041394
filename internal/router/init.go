package router

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-user-service/config"
	userapp "github.com/oksasatya/restaurant-user-service/internal/application"
	"github.com/oksasatya/restaurant-user-service/internal/container"
	repo "github.com/oksasatya/restaurant-user-service/internal/domain/repository"
	"github.com/oksasatya/restaurant-user-service/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/restaurant-user-service/internal/infrastructure/postgres"
	"github.com/oksasatya/restaurant-user-service/internal/infrastructure/search"
	handlers "github.com/oksasatya/restaurant-user-service/internal/interface/http"
	"github.com/oksasatya/restaurant-user-service/internal/interface/middleware"
	"github.com/oksasatya/restaurant-user-service/internal/router/modules"
	"github.com/oksasatya/restaurant-user-service/pkg/helpers"
)

// Stores is the Record Store pair backing the services.
type Stores struct {
	Users       repo.UserRepository
	Credentials repo.CredentialsRepository
}

type Services struct {
	Users       *userapp.UserService
	Credentials *userapp.CredentialsService
	Addresses   *userapp.AddressService
}

// BuildStores picks the Record Store for the configured storage driver.
func BuildStores(cfg *config.Config) (Stores, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		s := memory.NewStore()
		return Stores{Users: s, Credentials: s}, nil
	case config.StoragePostgres, "":
		pool := container.GetPGPool()
		if pool == nil {
			return Stores{}, fmt.Errorf("storage driver %q needs a postgres pool", cfg.StorageDriver)
		}
		return Stores{
			Users:       pginfra.NewUserRepository(pool),
			Credentials: pginfra.NewCredentialsRepository(pool),
		}, nil
	}
	return Stores{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// BuildNotifier returns nil when neither events nor the search index are
// available, which makes every notification a no-op.
func BuildNotifier(cfg *config.Config, logger *logrus.Logger) *userapp.Notifier {
	n := &userapp.Notifier{Logger: logger}
	// assign only non-nil clients so the interfaces stay nil
	if pub := container.GetRabbitPub(); pub != nil {
		n.Publisher = pub
	}
	if es := container.GetES(); es != nil {
		n.Indexer = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	if n.Publisher == nil && n.Indexer == nil {
		return nil
	}
	return n
}

func NewServices(st Stores, hasher userapp.PasswordHasher, logger *logrus.Logger, events *userapp.Notifier) *Services {
	unique := userapp.NewUniquenessChecker(st.Users, st.Credentials)
	return &Services{
		Users:       userapp.NewUserService(st.Users, unique, hasher, logger, events),
		Credentials: userapp.NewCredentialsService(st.Users, st.Credentials, unique, hasher, logger, events),
		Addresses:   userapp.NewAddressService(st.Users, logger, events),
	}
}

// RegisterModules adds every HTTP module backed by svc to the registry.
func RegisterModules(r *Registry, cfg *config.Config, svc *Services, logger *logrus.Logger) {
	guard := modules.Guard{
		Auth:      middleware.BasicAuth(svc.Credentials, cfg.AuthRealm, logger),
		Redis:     container.GetRedis(),
		Window:    cfg.RateLimitWindow,
		PerIP:     cfg.APIRateLimitIP,
		PerUser:   cfg.APIRateLimitUser,
		LoginRate: cfg.LoginRateLimit,
	}

	r.Add(modules.NewPingModule(handlers.NewPingHandler(cfg.AppName), guard, cfg.PingRateLimit))
	r.Add(modules.NewCredentialsModule(handlers.NewCredentialsHandler(svc.Credentials, logger), guard))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger), guard))
	r.Add(modules.NewAddressModule(handlers.NewAddressHandler(svc.Addresses, logger), guard))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(guard))
	}
}

// InitModules initializes all application modules from the container and
// registers them with the router registry. Call once during startup.
func InitModules(r *Registry) (*Services, error) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	stores, err := BuildStores(cfg)
	if err != nil {
		return nil, err
	}
	svc := NewServices(stores, helpers.NewBcryptHasher(cfg.BcryptCost), logger, BuildNotifier(cfg, logger))
	RegisterModules(r, cfg, svc, logger)
	return svc, nil
}
