package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/mokjangapp/mokjang-server/internal/config"
	"github.com/mokjangapp/mokjang-server/internal/logger"
	"github.com/mokjangapp/mokjang-server/internal/media/photos"
)

// ProvidePhotoStorage provides the member photo storage.
func ProvidePhotoStorage(i do.Injector) (*photos.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := photos.NewStorage(cfg.Data.BasePath)
	if err != nil {
		return nil, fmt.Errorf("photo storage: %w", err)
	}

	log.Info("Photo storage initialized")

	return storage, nil
}
