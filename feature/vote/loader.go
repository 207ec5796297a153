package vote

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the vote feature around an existing service.
func NewFeature(service *Service, logg *zap.Logger) *Feature {
	return &Feature{service: service, handler: NewHandler(service, logg)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "vote"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
