package api

import (
	"github.com/JaimeStill/forecourt/internal/audit"
	"github.com/JaimeStill/forecourt/internal/cars"
	"github.com/JaimeStill/forecourt/internal/config"
	"github.com/JaimeStill/forecourt/internal/extraction"
	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/internal/intake"
	"github.com/JaimeStill/forecourt/internal/prompts"
	"github.com/JaimeStill/forecourt/internal/verifications"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Cars          cars.System
	Verifications verifications.System
	Audit         audit.System
	Intake        intake.System
	Prompts       prompts.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	carsSystem := cars.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
		runtime.MaxUploadSize,
	)

	verificationsSystem := verifications.New(db, runtime.Logger, runtime.Pagination)
	auditSystem := audit.New(db, runtime.Logger, runtime.Pagination)

	fallback := cfg.Extraction.Instructions
	if fallback == "" {
		fallback = extraction.DefaultInstructions
	}
	promptsSystem := prompts.New(db, runtime.Logger, runtime.Pagination, fallback)

	processor := intake.NewProcessor(
		identify.New(carsSystem, runtime.Logger),
		carsSystem,
		verificationsSystem,
		auditSystem,
		runtime.Metrics,
		runtime.Logger,
	)

	intakeSystem := intake.New(
		cfg.Intake,
		processor,
		extraction.New(cfg.Extraction, promptsSystem, runtime.Logger),
		runtime.Metrics,
		runtime.Logger,
	)

	return &Domain{
		Cars:          carsSystem,
		Verifications: verificationsSystem,
		Audit:         auditSystem,
		Intake:        intakeSystem,
		Prompts:       promptsSystem,
	}
}
