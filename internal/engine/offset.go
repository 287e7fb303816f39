package engine

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/piwi3910/SlabTile/internal/logging"
	"github.com/piwi3910/SlabTile/internal/model"
)

// GeneticConfig holds parameters for the grid offset search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
	// MinCutFraction is the share of a whole tile below which a cut tile
	// counts as a sliver.
	MinCutFraction float64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 24,
		Generations:    30,
		MutationRate:   0.3,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
		MinCutFraction: 0.2,
	}
}

// OffsetResult is the outcome of an offset search.
type OffsetResult struct {
	Offset      model.Point2D      `json:"offset"`
	Result      model.LayoutResult `json:"result"`
	Fitness     float64            `json:"fitness"`
	Baseline    float64            `json:"baseline"` // Fitness of the starting offset
	Slivers     int                `json:"slivers"`
	Evaluations int                `json:"evaluations"`
}

// chromosome is one candidate grid start offset within a single tile pitch.
type chromosome struct {
	offset  model.Point2D
	fitness float64
}

type offsetSearch struct {
	engine    *Engine
	enclosure model.Enclosure
	config    GeneticConfig
	stepX     float64
	stepY     float64
	rng       *rand.Rand
	cache     map[cellKey]float64
	best      OffsetResult
	haveBest  bool
}

// Slivers counts the cut tiles smaller than minFraction of a whole tile.
func Slivers(result model.LayoutResult, minFraction float64) int {
	limit := result.Settings.TileArea() * minFraction
	n := 0
	for _, t := range result.Tiles {
		if t.Cut && t.Area < limit {
			n++
		}
	}
	return n
}

// OffsetFitness scores a layout: fewer cut tiles is better and slivers count double.
func OffsetFitness(result model.LayoutResult, minFraction float64) float64 {
	return -float64(result.CutTiles() + 2*Slivers(result, minFraction))
}

// OptimizeOffset searches the grid start offset that minimises cut tiles and
// slivers for the enclosure. The engine's current offset seeds the population
// and elitism keeps the best layout, so the result is never worse than it.
// The search is deterministic for a given config seed.
func (e *Engine) OptimizeOffset(ctx context.Context, enclosure model.Enclosure, config GeneticConfig) (OffsetResult, error) {
	if err := validate(e.Settings, enclosure); err != nil {
		return OffsetResult{}, err
	}
	if config.PopulationSize < 1 {
		config.PopulationSize = 1
	}

	g := &offsetSearch{
		engine:    e,
		enclosure: enclosure,
		config:    config,
		stepX:     e.Settings.TileWidth + e.Settings.Seam,
		stepY:     e.Settings.TileHeight + e.Settings.Seam,
		rng:       rand.New(rand.NewSource(config.Seed)),
		cache:     make(map[cellKey]float64),
	}

	start := g.wrap(e.Settings.Offset)
	baseline, err := g.evaluate(ctx, start)
	if err != nil {
		return OffsetResult{}, err
	}

	population := make([]chromosome, config.PopulationSize)
	population[0] = chromosome{offset: start, fitness: baseline}
	for i := 1; i < len(population); i++ {
		off := model.Point2D{X: g.rng.Float64() * g.stepX, Y: g.rng.Float64() * g.stepY}
		if population[i], err = g.chromosome(ctx, off); err != nil {
			return OffsetResult{}, err
		}
	}

	for gen := 0; gen < config.Generations; gen++ {
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		newPop := make([]chromosome, 0, config.PopulationSize)

		eliteCount := min(config.EliteCount, len(population))
		newPop = append(newPop, population[:eliteCount]...)

		for len(newPop) < config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)
			child, err := g.chromosome(ctx, g.mutate(g.crossover(parent1, parent2)))
			if err != nil {
				return OffsetResult{}, err
			}
			newPop = append(newPop, child)
		}
		population = newPop
	}

	g.best.Baseline = baseline
	g.best.Evaluations = len(g.cache)
	logging.Logger().Debug("offset search finished",
		"offset_x", g.best.Offset.X,
		"offset_y", g.best.Offset.Y,
		"fitness", g.best.Fitness,
		"baseline", baseline,
		"evaluations", g.best.Evaluations)
	return g.best, nil
}

func (g *offsetSearch) chromosome(ctx context.Context, off model.Point2D) (chromosome, error) {
	off = g.wrap(off)
	f, err := g.evaluate(ctx, off)
	return chromosome{offset: off, fitness: f}, err
}

// evaluate lays out the enclosure with the given offset and records the best layout seen.
func (g *offsetSearch) evaluate(ctx context.Context, off model.Point2D) (float64, error) {
	key := keyOf(off)
	if f, ok := g.cache[key]; ok {
		return f, nil
	}

	settings := g.engine.Settings
	settings.Offset = off
	result, err := New(settings).Layout(ctx, g.enclosure)
	if err != nil {
		return math.Inf(-1), err
	}

	f := OffsetFitness(result, g.config.MinCutFraction)
	g.cache[key] = f
	if !g.haveBest || f > g.best.Fitness {
		g.haveBest = true
		g.best = OffsetResult{
			Offset:  off,
			Result:  result,
			Fitness: f,
			Slivers: Slivers(result, g.config.MinCutFraction),
		}
	}
	return f, nil
}

// wrap folds an offset into one tile pitch and snaps it to the grid
// resolution. Whole rows are removed together with their bias so the
// wrapped offset describes the same grid.
func (g *offsetSearch) wrap(off model.Point2D) model.Point2D {
	return roundSeed(foldOffset(off, g.engine.Settings.Bias, g.stepX, g.stepY))
}

// tournamentSelect picks the best individual from a random tournament.
func (g *offsetSearch) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return best
}

// crossover blends the two parent offsets with a random weight per axis.
func (g *offsetSearch) crossover(p1, p2 chromosome) model.Point2D {
	wx := g.rng.Float64()
	wy := g.rng.Float64()
	return model.Point2D{
		X: p1.offset.X*wx + p2.offset.X*(1-wx),
		Y: p1.offset.Y*wy + p2.offset.Y*(1-wy),
	}
}

// mutate nudges the offset by up to a quarter pitch on each axis.
func (g *offsetSearch) mutate(off model.Point2D) model.Point2D {
	if g.rng.Float64() < g.config.MutationRate {
		off.X += (g.rng.Float64() - 0.5) * g.stepX / 2
	}
	if g.rng.Float64() < g.config.MutationRate {
		off.Y += (g.rng.Float64() - 0.5) * g.stepY / 2
	}
	return off
}
