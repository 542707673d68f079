// Package api provides HTTP handlers for the TripCheck itinerary service.
//
// Thin orchestration layer: handlers decode requests, call the validation
// core, and delegate persistence to the store. The blocking policy lives
// here: error verdicts reject the mutation with 422, warning and info
// verdicts proceed with the verdict attached to the response and the
// warnings persisted as itinerary metadata.
package api

import (
	"fmt"

	"github.com/voyagehq/tripcheck/internal/core/config"
	"github.com/voyagehq/tripcheck/internal/core/db"
	"github.com/voyagehq/tripcheck/internal/rules"
)

// Service implements the HTTP API handlers.
type Service struct {
	store  *db.Store
	engine *rules.Engine
	cfg    *config.ServerConfig
}

// NewService creates a service instance with dependencies.
// The rule engine is seeded from the config's validation options.
func NewService(store *db.Store, engine *rules.Engine, cfg *config.ServerConfig) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}

	return &Service{
		store:  store,
		engine: engine,
		cfg:    cfg,
	}, nil
}

// EngineFromConfig constructs a rule engine from server configuration.
func EngineFromConfig(cfg *config.ServerConfig) *rules.Engine {
	return rules.NewEngine(&rules.Config{
		DisabledRules:  cfg.Validation.DisabledRules,
		EnableWarnings: cfg.Validation.EnableWarnings,
		EnableInfo:     cfg.Validation.EnableInfo,
	})
}
