package cli

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/eio"
	"github.com/aretw0/eio/pkg/domain"
)

// ValidationResult is the outcome for one model. Err is nil for a valid model.
type ValidationResult struct {
	Model string
	Err   error
}

// Validate loads every model in parallel, at most limit at a time, and checks
// its geometry references and model data counts. Results keep the order of
// models. The returned error is only set for failures of the run itself,
// such as cancellation.
func Validate(ctx context.Context, ws *eio.Workspace, models []string, limit int) ([]ValidationResult, error) {
	results := make([]ValidationResult, len(models))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, model := range models {
		i, model := i, model
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ValidationResult{Model: model, Err: validateModel(ctx, ws, model)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func validateModel(ctx context.Context, ws *eio.Workspace, model string) error {
	var errs []error
	found := false

	snap, err := ws.Sessions().LoadGeometry(ctx, model)
	switch {
	case errors.Is(err, domain.ErrArtifactNotFound):
	case err != nil:
		errs = append(errs, fmt.Errorf("geometry: %w", err))
	default:
		found = true
		if err := snap.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("geometry: %w", err))
		}
	}

	_, err = ws.Sessions().LoadModelData(ctx, model)
	switch {
	case errors.Is(err, domain.ErrArtifactNotFound):
	case err != nil:
		errs = append(errs, fmt.Errorf("model data: %w", err))
	default:
		found = true
	}

	if !found && len(errs) == 0 {
		return fmt.Errorf("%s: %w", model, domain.ErrModelNotFound)
	}
	return errors.Join(errs...)
}
