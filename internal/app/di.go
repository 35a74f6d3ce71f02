// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	authHTTP "github.com/allisson/docrest/internal/auth/http"
	authRepository "github.com/allisson/docrest/internal/auth/repository"
	authService "github.com/allisson/docrest/internal/auth/service"
	authUsecase "github.com/allisson/docrest/internal/auth/usecase"
	"github.com/allisson/docrest/internal/cache"
	"github.com/allisson/docrest/internal/config"
	"github.com/allisson/docrest/internal/database"
	docRepository "github.com/allisson/docrest/internal/document/repository"
	docUsecase "github.com/allisson/docrest/internal/document/usecase"
	"github.com/allisson/docrest/internal/http"
	"github.com/allisson/docrest/internal/method"
	"github.com/allisson/docrest/internal/metrics"
	"github.com/allisson/docrest/internal/modules"
	"github.com/allisson/docrest/internal/rest"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config  *config.Config
	version string

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Repositories
	documentRepo    docUsecase.DocumentRepository
	doctypeRepo     docUsecase.DoctypeRepository
	apiKeyRepo      authUsecase.APIKeyRepository
	bearerTokenRepo authUsecase.BearerTokenRepository

	// Services
	credentialCache   cache.Cache
	secretCipher      authService.SecretCipher
	credentialService authService.CredentialService
	passwordService   authService.PasswordService

	// Use Cases
	apiKeyUseCase      authUsecase.APIKeyUseCase
	bearerTokenUseCase authUsecase.BearerTokenUseCase
	sessionUseCase     authUsecase.SessionUseCase
	documentUseCase    docUsecase.DocumentUseCase

	// Dispatch
	methodRegistry *method.Registry
	docRegistry    *method.DocRegistry
	moduleResolver *modules.Resolver
	restHandler    *rest.Handler

	// Authentication
	authExtensions []authHTTP.AuthExtension
	authResolver   *authHTTP.Resolver

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                     sync.Mutex
	loggerInit             sync.Once
	dbInit                 sync.Once
	txManagerInit          sync.Once
	documentRepoInit       sync.Once
	doctypeRepoInit        sync.Once
	apiKeyRepoInit         sync.Once
	bearerTokenRepoInit    sync.Once
	credentialCacheInit    sync.Once
	secretCipherInit       sync.Once
	credentialServiceInit  sync.Once
	passwordServiceInit    sync.Once
	apiKeyUseCaseInit      sync.Once
	bearerTokenUseCaseInit sync.Once
	sessionUseCaseInit     sync.Once
	documentUseCaseInit    sync.Once
	methodRegistryInit     sync.Once
	docRegistryInit        sync.Once
	moduleResolverInit     sync.Once
	restHandlerInit        sync.Once
	authResolverInit       sync.Once
	metricsProviderInit    sync.Once
	businessMetricsInit    sync.Once
	httpServerInit         sync.Once
	metricsServerInit      sync.Once
	initErrors             map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		version:    "dev",
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// SetVersion sets the application version reported by the version method.
// It must be called before the method registry is first accessed.
func (c *Container) SetVersion(version string) {
	c.version = version
}

// RegisterAuthExtension adds a pluggable authentication scheme to the
// resolver chain. Extensions must be registered before the resolver is
// first accessed.
func (c *Container) RegisterAuthExtension(extension authHTTP.AuthExtension) {
	c.authExtensions = append(c.authExtensions, extension)
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// DocumentRepository returns the document repository instance.
func (c *Container) DocumentRepository() (docUsecase.DocumentRepository, error) {
	var err error
	c.documentRepoInit.Do(func() {
		c.documentRepo, err = c.initDocumentRepository()
		if err != nil {
			c.initErrors["documentRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["documentRepo"]; exists {
		return nil, storedErr
	}
	return c.documentRepo, nil
}

// DoctypeRepository returns the doctype metadata repository instance.
func (c *Container) DoctypeRepository() (docUsecase.DoctypeRepository, error) {
	var err error
	c.doctypeRepoInit.Do(func() {
		c.doctypeRepo, err = c.initDoctypeRepository()
		if err != nil {
			c.initErrors["doctypeRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["doctypeRepo"]; exists {
		return nil, storedErr
	}
	return c.doctypeRepo, nil
}

// APIKeyRepository returns the API key repository instance.
func (c *Container) APIKeyRepository() (authUsecase.APIKeyRepository, error) {
	var err error
	c.apiKeyRepoInit.Do(func() {
		c.apiKeyRepo, err = c.initAPIKeyRepository()
		if err != nil {
			c.initErrors["apiKeyRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiKeyRepo"]; exists {
		return nil, storedErr
	}
	return c.apiKeyRepo, nil
}

// BearerTokenRepository returns the OAuth bearer token repository instance.
func (c *Container) BearerTokenRepository() (authUsecase.BearerTokenRepository, error) {
	var err error
	c.bearerTokenRepoInit.Do(func() {
		c.bearerTokenRepo, err = c.initBearerTokenRepository()
		if err != nil {
			c.initErrors["bearerTokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["bearerTokenRepo"]; exists {
		return nil, storedErr
	}
	return c.bearerTokenRepo, nil
}

// CredentialCache returns the cache backing API key credential resolution.
func (c *Container) CredentialCache() (cache.Cache, error) {
	var err error
	c.credentialCacheInit.Do(func() {
		c.credentialCache, err = c.initCredentialCache()
		if err != nil {
			c.initErrors["credentialCache"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialCache"]; exists {
		return nil, storedErr
	}
	return c.credentialCache, nil
}

// SecretCipher returns the keeper-backed cipher used to protect API secrets at rest.
func (c *Container) SecretCipher() (authService.SecretCipher, error) {
	var err error
	c.secretCipherInit.Do(func() {
		c.secretCipher, err = authService.OpenSecretCipher(context.Background(), c.config.KeeperURI)
		if err != nil {
			c.initErrors["secretCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretCipher"]; exists {
		return nil, storedErr
	}
	return c.secretCipher, nil
}

// CredentialService returns the API key pair generator.
func (c *Container) CredentialService() authService.CredentialService {
	c.credentialServiceInit.Do(func() {
		c.credentialService = authService.NewCredentialService()
	})
	return c.credentialService
}

// PasswordService returns the password hashing service used by login.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	var err error
	c.passwordServiceInit.Do(func() {
		c.passwordService, err = authService.NewPasswordService()
		if err != nil {
			c.initErrors["passwordService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["passwordService"]; exists {
		return nil, storedErr
	}
	return c.passwordService, nil
}

// APIKeyUseCase returns the API key use case instance.
func (c *Container) APIKeyUseCase() (authUsecase.APIKeyUseCase, error) {
	var err error
	c.apiKeyUseCaseInit.Do(func() {
		c.apiKeyUseCase, err = c.initAPIKeyUseCase()
		if err != nil {
			c.initErrors["apiKeyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiKeyUseCase"]; exists {
		return nil, storedErr
	}
	return c.apiKeyUseCase, nil
}

// BearerTokenUseCase returns the OAuth bearer token use case instance.
func (c *Container) BearerTokenUseCase() (authUsecase.BearerTokenUseCase, error) {
	var err error
	c.bearerTokenUseCaseInit.Do(func() {
		c.bearerTokenUseCase, err = c.initBearerTokenUseCase()
		if err != nil {
			c.initErrors["bearerTokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["bearerTokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.bearerTokenUseCase, nil
}

// SessionUseCase returns the password login use case instance.
func (c *Container) SessionUseCase() (authUsecase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// DocumentUseCase returns the document use case instance.
func (c *Container) DocumentUseCase() (docUsecase.DocumentUseCase, error) {
	var err error
	c.documentUseCaseInit.Do(func() {
		c.documentUseCase, err = c.initDocumentUseCase()
		if err != nil {
			c.initErrors["documentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["documentUseCase"]; exists {
		return nil, storedErr
	}
	return c.documentUseCase, nil
}

// MethodRegistry returns the whitelisted method registry with builtins registered.
func (c *Container) MethodRegistry() (*method.Registry, error) {
	var err error
	c.methodRegistryInit.Do(func() {
		c.methodRegistry, err = c.initMethodRegistry()
		if err != nil {
			c.initErrors["methodRegistry"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["methodRegistry"]; exists {
		return nil, storedErr
	}
	return c.methodRegistry, nil
}

// DocMethodRegistry returns the document method registry.
func (c *Container) DocMethodRegistry() *method.DocRegistry {
	c.docRegistryInit.Do(func() {
		c.docRegistry = method.NewDocRegistry()
	})
	return c.docRegistry
}

// ModuleResolver returns the module to application resolver.
func (c *Container) ModuleResolver() *modules.Resolver {
	c.moduleResolverInit.Do(func() {
		c.moduleResolver = modules.NewResolver(c.config.GetModuleApps())
	})
	return c.moduleResolver
}

// RestHandler returns the REST dispatch handler.
func (c *Container) RestHandler() (*rest.Handler, error) {
	var err error
	c.restHandlerInit.Do(func() {
		c.restHandler, err = c.initRestHandler()
		if err != nil {
			c.initErrors["restHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["restHandler"]; exists {
		return nil, storedErr
	}
	return c.restHandler, nil
}

// AuthResolver returns the authentication chain resolver.
func (c *Container) AuthResolver() (*authHTTP.Resolver, error) {
	var err error
	c.authResolverInit.Do(func() {
		c.authResolver, err = c.initAuthResolver()
		if err != nil {
			c.initErrors["authResolver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authResolver"]; exists {
		return nil, storedErr
	}
	return c.authResolver, nil
}

// MetricsProvider returns the metrics provider instance.
// Returns nil when metrics are disabled in configuration.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Returns a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server instance.
// Returns nil when metrics are disabled in configuration.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP server if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Shutdown metrics server if initialized
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Close the secrets keeper if initialized
	if c.secretCipher != nil {
		if err := c.secretCipher.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("secret cipher close: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initDocumentRepository creates the document repository instance.
func (c *Container) initDocumentRepository() (docUsecase.DocumentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for document repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return docRepository.NewMySQLDocumentRepository(db), nil
	case "postgres":
		return docRepository.NewPostgreSQLDocumentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initDoctypeRepository creates the doctype metadata repository instance.
func (c *Container) initDoctypeRepository() (docUsecase.DoctypeRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for doctype repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return docRepository.NewMySQLDoctypeRepository(db), nil
	case "postgres":
		return docRepository.NewPostgreSQLDoctypeRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAPIKeyRepository creates the API key repository instance.
func (c *Container) initAPIKeyRepository() (authUsecase.APIKeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for api key repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return authRepository.NewMySQLAPIKeyRepository(db), nil
	case "postgres":
		return authRepository.NewPostgreSQLAPIKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initBearerTokenRepository creates the OAuth bearer token repository instance.
func (c *Container) initBearerTokenRepository() (authUsecase.BearerTokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for bearer token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return authRepository.NewMySQLBearerTokenRepository(db), nil
	case "postgres":
		return authRepository.NewPostgreSQLBearerTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCredentialCache creates the credential cache backend.
func (c *Container) initCredentialCache() (cache.Cache, error) {
	switch c.config.CacheDriver {
	case "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     c.config.CacheRedisAddr,
			Password: c.config.CacheRedisPassword,
			DB:       c.config.CacheRedisDB,
		})
		return cache.NewRedisCache(client), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", c.config.CacheDriver)
	}
}

// initAPIKeyUseCase creates the API key use case with all its dependencies.
func (c *Container) initAPIKeyUseCase() (authUsecase.APIKeyUseCase, error) {
	apiKeyRepo, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for api key use case: %w", err)
	}

	cipher, err := c.SecretCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret cipher for api key use case: %w", err)
	}

	credentialCache, err := c.CredentialCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache for api key use case: %w", err)
	}

	return authUsecase.NewAPIKeyUseCase(
		apiKeyRepo,
		cipher,
		c.CredentialService(),
		credentialCache,
		c.config.CacheTTL,
	), nil
}

// initBearerTokenUseCase creates the bearer token use case.
func (c *Container) initBearerTokenUseCase() (authUsecase.BearerTokenUseCase, error) {
	tokenRepo, err := c.BearerTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get bearer token repository for bearer token use case: %w", err)
	}
	return authUsecase.NewBearerTokenUseCase(tokenRepo), nil
}

// initSessionUseCase creates the login use case. User documents come from
// the document repository; password hashes live on the User document.
func (c *Container) initSessionUseCase() (authUsecase.SessionUseCase, error) {
	documentRepo, err := c.DocumentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get document repository for session use case: %w", err)
	}

	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for session use case: %w", err)
	}

	return authUsecase.NewSessionUseCase(documentRepo, passwordService), nil
}

// initDocumentUseCase creates the document use case with all its dependencies.
// When metrics are enabled, the use case is wrapped with operation metrics.
func (c *Container) initDocumentUseCase() (docUsecase.DocumentUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for document use case: %w", err)
	}

	documentRepo, err := c.DocumentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get document repository for document use case: %w", err)
	}

	doctypeRepo, err := c.DoctypeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get doctype repository for document use case: %w", err)
	}

	useCase := docUsecase.NewDocumentUseCase(txManager, documentRepo, doctypeRepo, c.DocMethodRegistry())

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for document use case: %w", err)
	}

	return docUsecase.NewDocumentUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initMethodRegistry creates the method registry and registers the builtin
// methods. Login and logout close over the session use case.
func (c *Container) initMethodRegistry() (*method.Registry, error) {
	sessions, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for method registry: %w", err)
	}

	registry := method.NewRegistry()
	method.RegisterBuiltins(registry, c.version)

	registry.Register(&method.Method{
		Name:       method.LoginMethod,
		AllowGuest: true,
		Handler: func(ctx context.Context, req *method.Request) (any, error) {
			out, err := sessions.Login(ctx, req.Arg("usr"), req.Arg("pwd"))
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"message":   "Logged In",
				"user":      out.User,
				"full_name": out.FullName,
			}, nil
		},
	})
	registry.Register(&method.Method{
		Name:       method.LogoutMethod,
		AllowGuest: true,
		Handler: func(ctx context.Context, _ *method.Request) (any, error) {
			if err := sessions.Logout(ctx); err != nil {
				return nil, err
			}
			return "ok", nil
		},
	})

	return registry, nil
}

// initRestHandler creates the REST dispatch handler.
func (c *Container) initRestHandler() (*rest.Handler, error) {
	documentUseCase, err := c.DocumentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get document use case for rest handler: %w", err)
	}

	methodRegistry, err := c.MethodRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get method registry for rest handler: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for rest handler: %w", err)
	}

	return rest.NewHandler(
		documentUseCase,
		methodRegistry,
		c.ModuleResolver(),
		txManager,
		c.Logger(),
	), nil
}

// initAuthResolver creates the authentication resolver with the bearer
// token verifier derived from the configured signing secret.
func (c *Container) initAuthResolver() (*authHTTP.Resolver, error) {
	bearerTokens, err := c.BearerTokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get bearer token use case for auth resolver: %w", err)
	}

	apiKeys, err := c.APIKeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key use case for auth resolver: %w", err)
	}

	signingKey, err := authService.DeriveSigningKey(c.config.OAuthSigningKey, c.config.OAuthIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to derive bearer token signing key: %w", err)
	}
	verifier := authHTTP.NewJWTVerifier(signingKey, c.config.OAuthIssuer)

	return authHTTP.NewResolver(bearerTokens, apiKeys, verifier, c.authExtensions, c.Logger()), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	authResolver, err := c.AuthResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth resolver for http server: %w", err)
	}

	restHandler, err := c.RestHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get rest handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())

	routerConfig := http.RouterConfig{
		Resolver:                authResolver,
		RestHandler:             restHandler,
		MetricsNamespace:        c.config.MetricsNamespace,
		CORSEnabled:             c.config.CORSEnabled,
		CORSAllowOrigins:        c.config.CORSAllowOrigins,
		RateLimitEnabled:        c.config.RateLimitEnabled,
		RateLimitRequestsPerSec: c.config.RateLimitRequestsPerSec,
		RateLimitBurst:          c.config.RateLimitBurst,
	}
	if provider != nil {
		routerConfig.MeterProvider = provider.MeterProvider()
	}
	server.SetupRouter(routerConfig)

	return server, nil
}

// initMetricsServer creates the Prometheus metrics server when enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}
