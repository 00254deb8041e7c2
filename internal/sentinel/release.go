package sentinel

import (
	"context"

	"github.com/autopeer-io/sentinel/pkg/log"
)

// releaser closes components in reverse order of construction.
type releaser struct {
	steps []releaseStep
}

type releaseStep struct {
	name string
	fn   func(ctx context.Context) error
}

func (r *releaser) push(name string, fn func(ctx context.Context) error) {
	r.steps = append(r.steps, releaseStep{name: name, fn: fn})
}

// release runs every step even if earlier ones fail. Failures are logged.
func (r *releaser) release(ctx context.Context) {
	for i := len(r.steps) - 1; i >= 0; i-- {
		step := r.steps[i]
		if err := step.fn(ctx); err != nil {
			log.Error(err, "Failed to release component", "component", step.name)
		}
	}
	r.steps = nil
}
