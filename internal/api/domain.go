package api

import (
	"github.com/JaimeStill/wayfarer/internal/plans"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Plans plans.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Plans: plans.New(
			runtime.Database.Connection(),
			runtime.Storage,
			runtime.Workflow,
			runtime.Logger,
			runtime.Pagination,
			runtime.ArtifactPrefix,
		),
	}
}
