package plans

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/wayfarer/internal/progress"
	"github.com/JaimeStill/wayfarer/internal/prompts"
	"github.com/JaimeStill/wayfarer/pkg/pagination"
)

// System defines the public contract for plan operations.
type System interface {
	Handler() *Handler

	// Plan records a running plan, executes the pipeline reporting to
	// display, and stores the outcome. When the pipeline fails the failed
	// plan is returned together with the error.
	Plan(ctx context.Context, cmd CreateCommand, display progress.Display) (*Plan, error)

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Plan], error)
	Find(ctx context.Context, id uuid.UUID) (*Plan, error)

	// Artifact opens the stored output of one stage. The caller closes it.
	Artifact(ctx context.Context, id uuid.UUID, stage prompts.Stage) (io.ReadCloser, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
