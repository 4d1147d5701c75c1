package workflow

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/wayfarer/internal/prompts"
	"github.com/JaimeStill/wayfarer/pkg/storage"
)

const artifactContentType = "text/markdown; charset=utf-8"

// ArtifactKey returns the storage key of a stage's artifact under prefix.
func ArtifactKey(prefix string, def prompts.Definition) string {
	return storage.Key(prefix, def.Artifact)
}

// PersistArtifacts writes each stage's text to its artifact under prefix.
// Existing artifacts are overwritten.
func PersistArtifacts(
	ctx context.Context,
	store storage.System,
	defs prompts.Definitions,
	prefix string,
	run *PipelineRun,
) error {
	keys := make([]string, len(run.Results))
	for i, res := range run.Results {
		def, err := defs.Lookup(res.Stage)
		if err != nil {
			return err
		}
		keys[i] = ArtifactKey(prefix, def)
	}

	g, gctx := errgroup.WithContext(ctx)

	for i, res := range run.Results {
		g.Go(func() error {
			key := keys[i]
			if err := store.Upload(gctx, key, strings.NewReader(res.Text), artifactContentType); err != nil {
				return fmt.Errorf("persist %s: %w", res.Stage, err)
			}
			return nil
		})
	}

	return g.Wait()
}
