// Package di provides dependency injection configuration for the foodgram server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/foodgramapp/foodgram-server/internal/auth"
	"github.com/foodgramapp/foodgram-server/internal/config"
	"github.com/foodgramapp/foodgram-server/internal/di/providers"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/media/images"
	"github.com/foodgramapp/foodgram-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideImageStorage)
	do.Provide(injector, providers.ProvideImageUploader)

	// Auth
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideCompositionValidator)
	do.Provide(injector, providers.ProvideRecipeService)
	do.Provide(injector, providers.ProvideMembershipService)
	do.Provide(injector, providers.ProvideShoppingListService)
	do.Provide(injector, providers.ProvideSubscriptionService)
	do.Provide(injector, providers.ProvideCatalogService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap resolves every provider so that configuration and startup
// errors surface before the process starts waiting for signals.
func Bootstrap(injector *do.RootScope) error {
	steps := []func() error{
		invoke[*config.Config](injector),
		invoke[*logger.Logger](injector),
		invoke[providers.AuthKey](injector),
		invoke[*providers.StoreHandle](injector),
		invoke[*images.Storage](injector),
		invoke[*images.Uploader](injector),
		invoke[*auth.TokenService](injector),
		invoke[*service.AuthService](injector),
		invoke[*service.UserService](injector),
		invoke[*service.RecipeService](injector),
		invoke[*service.MembershipService](injector),
		invoke[*service.ShoppingListService](injector),
		invoke[*service.SubscriptionService](injector),
		invoke[*service.CatalogService](injector),
		invoke[*providers.HTTPServerHandle](injector),
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func invoke[T any](injector do.Injector) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
