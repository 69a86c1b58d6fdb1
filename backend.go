package main

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Simulator runs a circuit for a number of shots and reports measurement
// counts. Implementations differ in how they trade per-shot cost against
// generality.
type Simulator interface {
	Name() string
	Run(c *Circuit, shots int, rng *rand.Rand) (*RunResult, error)
}

// RunResult holds the outcome of simulating a circuit.
type RunResult struct {
	// Counts maps classical bitstrings to the number of shots that
	// produced them. Bit 0 is the leftmost character.
	Counts  map[string]int
	Shots   int
	Elapsed time.Duration
}

// Errors reported by the sampler backend for circuits it cannot handle.
var (
	ErrMidCircuitMeasurement = errors.New("sampler: circuit has non-terminal measurements")
	ErrClassicalControl      = errors.New("sampler: circuit has classically controlled gates")
	ErrResetUnsupported      = errors.New("sampler: circuit has reset operations")
)

// NewSimulator returns the simulator backend with the given name.
func NewSimulator(name string) (Simulator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dense":
		return &DenseSimulator{}, nil
	case "sampler":
		return &SamplerSimulator{}, nil
	}
	return nil, fmt.Errorf("unknown simulator %q (want dense or sampler)", name)
}

// DenseSimulator evolves a fresh statevector for every shot, sampling each
// measurement with collapse. It supports mid-circuit measurement, reset and
// classically controlled gates.
type DenseSimulator struct{}

func (d *DenseSimulator) Name() string { return "dense" }

func (d *DenseSimulator) Run(c *Circuit, shots int, rng *rand.Rand) (*RunResult, error) {
	if shots < 1 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}

	gates := c.SortedGates()
	ncb := c.NumCbits()
	counts := make(map[string]int)

	start := time.Now()
	for shot := 0; shot < shots; shot++ {
		state := NewStateVector(max(c.NumQubits, 1))
		cbits := make([]int, ncb)

		for _, g := range gates {
			if g.ClassicalControl >= 0 && cbits[g.ClassicalControl] != 1 {
				continue
			}
			switch g.Type {
			case "MEASURE":
				cbits[g.Target] = state.MeasureQubit(g.Target, rng)
			case "RESET":
				state.Reset(g.Target, rng)
			default:
				if err := state.Apply(g); err != nil {
					return nil, err
				}
			}
		}
		counts[countsKey(cbits)]++
	}

	return &RunResult{Counts: counts, Shots: shots, Elapsed: time.Since(start)}, nil
}

// SamplerSimulator evolves the statevector once and draws every shot from
// the terminal measurement distribution. It rejects circuits whose behavior
// depends on individual shot outcomes.
type SamplerSimulator struct{}

func (s *SamplerSimulator) Name() string { return "sampler" }

func (s *SamplerSimulator) Run(c *Circuit, shots int, rng *rand.Rand) (*RunResult, error) {
	if shots < 1 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}
	if err := checkSamplable(c); err != nil {
		return nil, err
	}

	start := time.Now()

	state := NewStateVector(max(c.NumQubits, 1))
	var measured []Gate
	for _, g := range c.SortedGates() {
		if g.Type == "MEASURE" {
			measured = append(measured, g)
			continue
		}
		if err := state.Apply(g); err != nil {
			return nil, err
		}
	}

	ncb := c.NumCbits()
	counts := make(map[string]int)
	if len(measured) == 0 {
		counts[countsKey(make([]int, ncb))] = shots
		return &RunResult{Counts: counts, Shots: shots, Elapsed: time.Since(start)}, nil
	}

	// Marginalize the basis-state distribution onto the measured bits.
	dist := make(map[string]float64)
	cbits := make([]int, ncb)
	for i, p := range state.Probabilities() {
		if p == 0 {
			continue
		}
		for k := range cbits {
			cbits[k] = 0
		}
		for _, m := range measured {
			cbits[m.Target] = (i >> m.Target) & 1
		}
		dist[countsKey(cbits)] += p
	}

	outcomes := make([]string, 0, len(dist))
	for key := range dist {
		outcomes = append(outcomes, key)
	}
	sort.Strings(outcomes)

	cum := make([]float64, len(outcomes))
	acc := 0.0
	for i, key := range outcomes {
		acc += dist[key]
		cum[i] = acc
	}

	for shot := 0; shot < shots; shot++ {
		idx := sort.SearchFloat64s(cum, rng.Float64())
		if idx >= len(outcomes) {
			idx = len(outcomes) - 1
		}
		counts[outcomes[idx]]++
	}

	return &RunResult{Counts: counts, Shots: shots, Elapsed: time.Since(start)}, nil
}

// checkSamplable verifies that every measurement is the last operation on
// its qubit and that nothing conditions on classical bits.
func checkSamplable(c *Circuit) error {
	measureStep := make(map[int]int)
	for _, g := range c.Gates {
		if g.ClassicalControl >= 0 {
			return ErrClassicalControl
		}
		if g.Type == "RESET" {
			return ErrResetUnsupported
		}
		if g.Type == "MEASURE" {
			measureStep[g.Target] = g.Step
		}
	}
	for _, g := range c.Gates {
		if g.Type == "MEASURE" {
			continue
		}
		for _, q := range g.Qubits() {
			if ms, ok := measureStep[q]; ok && g.Step > ms {
				return ErrMidCircuitMeasurement
			}
		}
	}
	return nil
}

// countsKey formats classical bits as a string with bit 0 leftmost.
func countsKey(cbits []int) string {
	var sb strings.Builder
	for _, b := range cbits {
		sb.WriteByte('0' + byte(b))
	}
	return sb.String()
}
