package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/foodgramapp/foodgram-server/internal/config"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/media/images"
)

// recipeImagesDir is the media subdirectory holding recipe pictures.
const recipeImagesDir = "recipes"

// ProvideImageStorage provides the recipe image storage.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.Data.MediaPath(), recipeImagesDir)
	if err != nil {
		return nil, fmt.Errorf("recipe image storage: %w", err)
	}

	log.Info("Image storage initialized", "root", storage.Root())

	return storage, nil
}

// ProvideImageUploader provides the data-URI image uploader.
func ProvideImageUploader(i do.Injector) (*images.Uploader, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storage := do.MustInvoke[*images.Storage](i)

	return images.NewUploader(storage, cfg.Recipes.MaxImageBytes, log.Logger), nil
}
