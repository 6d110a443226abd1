// Package sim hosts phenology engines: a Plant owns one engine and answers
// its liveness queries, and a Runner replays a scenario's schedule against
// a Plant one simulated day at a time.
package sim

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/pheno/internal/logging"
	"github.com/papapumpkin/pheno/internal/phenology"
)

var (
	// ErrNotAlive indicates a management action that needs a living crop.
	ErrNotAlive = errors.New("plant is not alive")
	// ErrAlreadySown indicates Sow on a crop that is already in the ground.
	ErrAlreadySown = errors.New("plant is already sown")
)

// Plant is a crop in the ground. It implements phenology.Host.
type Plant struct {
	name   string
	engine *phenology.Engine
	logger *logging.Logger
	alive  bool
}

// NewPlant creates an unsown plant that owns a new engine over phases.
func NewPlant(name string, phases *phenology.PhaseList, logger *logging.Logger, opts ...phenology.Option) (*Plant, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	p := &Plant{name: name, logger: logger.WithPlant(name)}
	opts = append(opts, phenology.WithHost(p), phenology.WithLogger(p.logger))
	engine, err := phenology.New(phases, opts...)
	if err != nil {
		return nil, fmt.Errorf("plant %q: %w", name, err)
	}
	p.engine = engine
	return p, nil
}

// Name returns the crop name.
func (p *Plant) Name() string { return p.name }

// IsAlive reports whether the plant has been sown and not yet ended.
func (p *Plant) IsAlive() bool { return p.alive }

// Engine returns the plant's phenology engine.
func (p *Plant) Engine() *phenology.Engine { return p.engine }

// Sow puts the plant in the ground and clears its phenology.
func (p *Plant) Sow() error {
	if p.alive {
		return fmt.Errorf("sow %q: %w", p.name, ErrAlreadySown)
	}
	if err := p.engine.Clear(); err != nil {
		return err
	}
	p.alive = true
	p.logger.Info("crop sown")
	return nil
}

// Harvest moves phenology to the last phase.
func (p *Plant) Harvest() error {
	if !p.alive {
		return fmt.Errorf("harvest %q: %w", p.name, ErrNotAlive)
	}
	return p.engine.Harvest()
}

// Prune clears the germinated and emerged flags.
func (p *Plant) Prune() error {
	if !p.alive {
		return fmt.Errorf("prune %q: %w", p.name, ErrNotAlive)
	}
	return p.engine.Pruning()
}

// End removes the plant from the ground. Phenology is cleared once the
// plant is no longer alive, so no further development is recorded.
func (p *Plant) End() error {
	if !p.alive {
		return fmt.Errorf("end %q: %w", p.name, ErrNotAlive)
	}
	p.alive = false
	if err := p.engine.Clear(); err != nil {
		p.alive = true
		return err
	}
	p.logger.Info("crop ended")
	return nil
}
