package runs

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface for run history.
type Feature struct {
	store   *Store
	handler *Handler
	logger  *zap.Logger
}

// NewFeature creates the run history feature. A nil db disables it, the
// service then runs without persisted history.
func NewFeature(db *gorm.DB, logger *zap.Logger) *Feature {
	feature := &Feature{logger: logger}
	if db == nil {
		return feature
	}

	store, err := NewStore(db, logger)
	if err != nil {
		logger.Warn("Run history disabled", zap.Error(err))
		return feature
	}

	if missing := store.VerifySchema(); len(missing) > 0 {
		logger.Warn("Runs table is missing columns", zap.Strings("columns", missing))
	}

	feature.store = store
	feature.handler = NewHandler(store, logger)
	return feature
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "runs"
}

// IsEnabled reports whether a usable database connection exists.
func (f *Feature) IsEnabled() bool {
	return f.store != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Store exposes the run store so pipeline runs can be recorded into it.
// Returns nil while the feature is disabled.
func (f *Feature) Store() *Store {
	return f.store
}
