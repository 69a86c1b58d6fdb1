package main

import (
	"fmt"
	"math/rand"
	"time"
)

// BenchConfig describes one benchmark run.
type BenchConfig struct {
	Qubits    int
	Depth     int
	Shots     int
	Simulator string
	Strategy  InsertStrategy
	Seed      int64 // 0 means pick from the clock
}

// withDefaults fills unset fields: 2 qubits, 1 shot, the dense backend, a
// clock-derived seed. Depth is taken as written so a depth-0
// (measurements-only) run stays expressible; the CLI flag carries the
// classic default of 3.
func (cfg BenchConfig) withDefaults() BenchConfig {
	if cfg.Qubits == 0 {
		cfg.Qubits = 2
	}
	if cfg.Shots == 0 {
		cfg.Shots = 1
	}
	if cfg.Simulator == "" {
		cfg.Simulator = "dense"
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg
}

func (cfg BenchConfig) validate() error {
	if cfg.Qubits < 1 {
		return fmt.Errorf("qubits must be positive, got %d", cfg.Qubits)
	}
	if cfg.Depth < 0 {
		return fmt.Errorf("depth must be non-negative, got %d", cfg.Depth)
	}
	if cfg.Shots < 1 {
		return fmt.Errorf("shots must be positive, got %d", cfg.Shots)
	}
	return nil
}

// BenchResult holds the timing of one benchmark run.
type BenchResult struct {
	Config  BenchConfig // with defaults and seed resolved
	Gates   int
	Steps   int
	Total   time.Duration
	PerShot time.Duration
	Counts  map[string]int
}

// Record formats the result as the classic one-line record:
// "nqubits depth shots perShotSeconds".
func (r *BenchResult) Record() string {
	return fmt.Sprintf("%d %d %d %g",
		r.Config.Qubits, r.Config.Depth, r.Config.Shots, r.PerShot.Seconds())
}

// RunBench generates a random layered circuit from the config and times its
// simulation.
func RunBench(cfg BenchConfig) (*BenchResult, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	circ := RandomLayeredCircuit(cfg.Qubits, cfg.Depth, rng, cfg.Strategy)
	return BenchCircuit(cfg, circ, rng)
}

// BenchCircuit times the simulation of an already-built circuit. The rng
// drives measurement sampling; pass the generator used to build the circuit
// to keep a whole run reproducible from one seed.
func BenchCircuit(cfg BenchConfig, circ *Circuit, rng *rand.Rand) (*BenchResult, error) {
	cfg = cfg.withDefaults()
	if cfg.Shots < 1 {
		return nil, fmt.Errorf("shots must be positive, got %d", cfg.Shots)
	}

	sim, err := NewSimulator(cfg.Simulator)
	if err != nil {
		return nil, err
	}

	res, err := sim.Run(circ, cfg.Shots, rng)
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", sim.Name(), err)
	}

	cfg.Qubits = max(circ.NumQubits, 1)
	return &BenchResult{
		Config:  cfg,
		Gates:   len(circ.Gates),
		Steps:   circ.MaxSteps,
		Total:   res.Elapsed,
		PerShot: res.Elapsed / time.Duration(cfg.Shots),
		Counts:  res.Counts,
	}, nil
}

// RunSweep benchmarks a range of qubit counts at fixed depth and shots,
// reusing the same seed for every width so runs stay comparable.
func RunSweep(cfg BenchConfig, minQubits, maxQubits int) ([]*BenchResult, error) {
	if minQubits < 1 || maxQubits < minQubits {
		return nil, fmt.Errorf("bad sweep range [%d, %d]", minQubits, maxQubits)
	}

	cfg = cfg.withDefaults()
	results := make([]*BenchResult, 0, maxQubits-minQubits+1)
	for q := minQubits; q <= maxQubits; q++ {
		c := cfg
		c.Qubits = q
		res, err := RunBench(c)
		if err != nil {
			return nil, fmt.Errorf("sweep at %d qubits: %w", q, err)
		}
		results = append(results, res)
	}
	return results, nil
}
