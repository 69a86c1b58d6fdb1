package main

import (
	"math"
	"math/rand"
)

// RandomLayeredCircuit builds a random circuit of the shape used by the
// benchmark: each layer applies an arbitrary rotation Rz·Ry·Rx with angles
// uniform in [0, 2*pi) to every qubit, then a fan of CNOTs from one randomly
// chosen control qubit to every other qubit. All qubits are measured at the
// end.
//
// Rotation and entangling layers are scheduled with the given insert
// strategy; the terminal measurements always go inline.
func RandomLayeredCircuit(nqubits, depth int, rng *rand.Rand, strategy InsertStrategy) *Circuit {
	if nqubits < 1 {
		return &Circuit{}
	}
	c := &Circuit{NumQubits: nqubits}

	for d := 0; d < depth; d++ {
		for q := 0; q < nqubits; q++ {
			c.Append(strategy,
				Rx(q, 2*math.Pi*rng.Float64()),
				Ry(q, 2*math.Pi*rng.Float64()),
				Rz(q, 2*math.Pi*rng.Float64()),
			)
		}

		ctrl := rng.Intn(nqubits)
		fan := make([]Gate, 0, nqubits-1)
		for targ := 0; targ < nqubits; targ++ {
			if targ != ctrl {
				fan = append(fan, CNOT(ctrl, targ))
			}
		}
		c.Append(strategy, fan...)
	}

	for q := 0; q < nqubits; q++ {
		c.Append(StrategyInline, Measure(q))
	}
	return c
}
