package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/foodgramapp/foodgram-server/internal/auth"
	"github.com/foodgramapp/foodgram-server/internal/config"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/media/images"
	"github.com/foodgramapp/foodgram-server/internal/service"
)

// ProvideAuthService provides the authentication service. Sessions that
// expired while the server was down are purged on startup.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewAuthService(storeHandle.Store, tokenService, log.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if n, err := svc.PurgeExpiredSessions(ctx); err != nil {
		log.WithError(err).Warn("Failed to purge expired sessions")
	} else if n > 0 {
		log.Info("Purged expired sessions", "count", n)
	}

	return svc, nil
}

// ProvideUserService provides the account service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, auth.DefaultPasswordParams, log.Logger), nil
}

// ProvideCompositionValidator provides the recipe composition rules.
func ProvideCompositionValidator(i do.Injector) (*service.CompositionValidator, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return service.NewCompositionValidator(service.CompositionLimits{
		CookingTimeMin:      cfg.Recipes.CookingTimeMin,
		CookingTimeMax:      cfg.Recipes.CookingTimeMax,
		MaxIngredientAmount: cfg.Recipes.IngredientAmountMax,
	}), nil
}

// ProvideRecipeService provides the recipe service.
func ProvideRecipeService(i do.Injector) (*service.RecipeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*service.CompositionValidator](i)
	uploader := do.MustInvoke[*images.Uploader](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecipeService(storeHandle.Store, validator, uploader, log.Logger), nil
}

// ProvideMembershipService provides the favorites and cart service.
func ProvideMembershipService(i do.Injector) (*service.MembershipService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMembershipService(storeHandle.Store, log.Logger), nil
}

// ProvideShoppingListService provides the shopping list service.
func ProvideShoppingListService(i do.Injector) (*service.ShoppingListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShoppingListService(storeHandle.Store, log.Logger), nil
}

// ProvideSubscriptionService provides the subscription service.
func ProvideSubscriptionService(i do.Injector) (*service.SubscriptionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSubscriptionService(storeHandle.Store, log.Logger), nil
}

// ProvideCatalogService provides the tag and ingredient lookups.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return service.NewCatalogService(storeHandle.Store), nil
}
