package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/reflow/pkg/config"
	"github.com/matzehuels/reflow/pkg/scene"
	"github.com/matzehuels/reflow/pkg/snapshot"
)

// =============================================================================
// Layout
// =============================================================================

// Run advances host by exactly ticks frames, or until every container
// settles when ticks is 0. It returns the number of ticks run and whether
// the scene settled.
func Run(host *scene.Scene, ticks int, logger *log.Logger) (int, bool) {
	if ticks > 0 {
		for range ticks {
			host.Tick(DefaultStep)
		}
		return ticks, host.Settled()
	}

	n, ok := host.RunUntilSettled(DefaultStep, DefaultSettleTicks)
	if !ok {
		logger.Warn("scene did not settle", "ticks", n)
	} else {
		logger.Debug("scene settled", "ticks", n)
	}
	return n, ok
}

// Build creates the scene host for spec and runs it.
func Build(spec *config.Scene, ticks int, logger *log.Logger) (*scene.Scene, error) {
	host, err := spec.Build(logger)
	if err != nil {
		return nil, err
	}
	Run(host, ticks, logger)
	return host, nil
}

// Settle builds spec, runs it and captures the resulting frame.
func Settle(spec *config.Scene, ticks int, logger *log.Logger) (snapshot.Frame, error) {
	host, err := Build(spec, ticks, logger)
	if err != nil {
		return snapshot.Frame{}, err
	}
	defer host.Close()
	return Capture(spec, host), nil
}

// Capture snapshots host with the scene's name and canvas size.
func Capture(spec *config.Scene, host *scene.Scene) snapshot.Frame {
	return snapshot.Capture(host, spec.Name, spec.Extent())
}
