package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/scene"
)

// Layout builds the scene's document, binds a strict grid to its container
// and returns the placement of the first pass. The grid is torn down before
// Layout returns.
func Layout(s *scene.Scene, logger *log.Logger) (masonry.Placement, masonry.Config, error) {
	_, container := s.Build()

	opts := []masonry.GridOption{masonry.WithStrict(true)}
	if logger != nil {
		opts = append(opts, masonry.WithLogger(logger))
	}
	g, err := masonry.New(container, s.Options, opts...)
	if err != nil {
		return masonry.Placement{}, masonry.Config{}, err
	}
	defer g.Teardown()

	snap := g.Snapshot()
	if snap.Passes == 0 {
		return masonry.Placement{}, snap.Config, errors.New(errors.ErrCodeInternal, "layout pass did not complete")
	}
	return snap.Placement, snap.Config, nil
}

// Labels returns the tile label for each item of s.
func Labels(s *scene.Scene) []string {
	labels := make([]string, len(s.Items))
	for i, it := range s.Items {
		labels[i] = it.Label(i)
	}
	return labels
}
