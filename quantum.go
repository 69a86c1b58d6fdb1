package main

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
)

// StateVector holds the dense amplitude vector of an n-qubit register.
// Gate kernels update amplitude pairs in place; no per-gate allocation.
type StateVector struct {
	amps []complex128
	nq   int
}

// NewStateVector returns the |0...0> state on numQubits qubits.
func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{amps: amps, nq: numQubits}
}

func (s *StateVector) NumQubits() int { return s.nq }

// Amplitudes exposes the raw amplitude slice. Callers must not resize it.
func (s *StateVector) Amplitudes() []complex128 { return s.amps }

// Norm returns the 2-norm of the state, 1 up to floating error.
func (s *StateVector) Norm() float64 {
	total := 0.0
	for _, a := range s.amps {
		total += real(a)*real(a) + imag(a)*imag(a)
	}
	return math.Sqrt(total)
}

// Apply applies a unitary gate to the state. MEASURE and RESET are not
// unitary and are handled by the simulators.
func (s *StateVector) Apply(g Gate) error {
	theta := 0.0
	if len(g.Params) > 0 {
		theta = g.Params[0]
	}

	switch g.Type {
	case "I":
	case "H":
		s.applyH(g.Target)
	case "X":
		s.applyX(g.Target)
	case "Y":
		s.applyY(g.Target)
	case "Z":
		s.applyZ(g.Target)
	case "S":
		s.applyPhase(g.Target, condPhase(g.IsDagger, math.Pi/2))
	case "T":
		s.applyPhase(g.Target, condPhase(g.IsDagger, math.Pi/4))
	case "SX":
		s.applySX(g.Target, g.IsDagger)
	case "RX":
		s.applyRX(g.Target, theta)
	case "RY":
		s.applyRY(g.Target, theta)
	case "RZ":
		s.applyRZ(g.Target, theta)
	case "P", "U1":
		s.applyPhase(g.Target, cmplx.Exp(complex(0, theta)))
	case "CX":
		s.applyCX(g.Control, g.Target)
	case "CZ":
		s.applyCZ(g.Control, g.Target)
	case "SWAP":
		s.applySWAP(g.Control, g.Target)
	default:
		return fmt.Errorf("unsupported gate %q", g.Type)
	}
	return nil
}

func condPhase(dagger bool, angle float64) complex128 {
	if dagger {
		angle = -angle
	}
	return cmplx.Exp(complex(0, angle))
}

func (s *StateVector) applyH(q int) {
	h := complex(1/math.Sqrt2, 0)
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			a, b := s.amps[i], s.amps[j]
			s.amps[i] = h * (a + b)
			s.amps[j] = h * (a - b)
		}
	}
}

func (s *StateVector) applyX(q int) {
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *StateVector) applyY(q int) {
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			s.amps[i], s.amps[j] = 1i*s.amps[j], -1i*s.amps[i]
		}
	}
}

func (s *StateVector) applyZ(q int) {
	bit := 1 << q
	for i := range s.amps {
		if i&bit != 0 {
			s.amps[i] = -s.amps[i]
		}
	}
}

// applyPhase multiplies the |1> branch of the qubit by the given factor.
func (s *StateVector) applyPhase(q int, factor complex128) {
	bit := 1 << q
	for i := range s.amps {
		if i&bit != 0 {
			s.amps[i] *= factor
		}
	}
}

func (s *StateVector) applySX(q int, dagger bool) {
	p := complex(0.5, 0.5)  // (1+i)/2
	m := complex(0.5, -0.5) // (1-i)/2
	if dagger {
		p, m = m, p
	}
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			a, b := s.amps[i], s.amps[j]
			s.amps[i] = p*a + m*b
			s.amps[j] = m*a + p*b
		}
	}
}

func (s *StateVector) applyRX(q int, theta float64) {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			a, b := s.amps[i], s.amps[j]
			s.amps[i] = c*a + js*b
			s.amps[j] = js*a + c*b
		}
	}
}

func (s *StateVector) applyRY(q int, theta float64) {
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			a, b := s.amps[i], s.amps[j]
			s.amps[i] = c*a - sn*b
			s.amps[j] = sn*a + c*b
		}
	}
}

func (s *StateVector) applyRZ(q int, theta float64) {
	phase := cmplx.Exp(complex(0, theta/2))
	conj := cmplx.Conj(phase)
	bit := 1 << q
	for i := range s.amps {
		if i&bit != 0 {
			s.amps[i] *= phase
		} else {
			s.amps[i] *= conj
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	cBit := 1 << control
	tBit := 1 << target
	for i := range s.amps {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *StateVector) applyCZ(control, target int) {
	cBit := 1 << control
	tBit := 1 << target
	for i := range s.amps {
		if i&cBit != 0 && i&tBit != 0 {
			s.amps[i] = -s.amps[i]
		}
	}
}

func (s *StateVector) applySWAP(q1, q2 int) {
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := range s.amps {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i &^ bit1) | bit2
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

// MeasureQubit samples a computational-basis measurement of the qubit,
// collapses the state onto the outcome and renormalizes. Returns 0 or 1.
func (s *StateVector) MeasureQubit(q int, rng *rand.Rand) int {
	bit := 1 << q
	prob1 := 0.0
	for i, a := range s.amps {
		if i&bit != 0 {
			prob1 += real(a)*real(a) + imag(a)*imag(a)
		}
	}

	outcome := 0
	keep := 1 - prob1
	if rng.Float64() < prob1 {
		outcome = 1
		keep = prob1
	}

	norm := complex(1/math.Sqrt(keep), 0)
	for i := range s.amps {
		hit := i&bit != 0
		if hit == (outcome == 1) {
			s.amps[i] *= norm
		} else {
			s.amps[i] = 0
		}
	}
	return outcome
}

// Reset measures the qubit and flips it back to |0> when the outcome is 1.
func (s *StateVector) Reset(q int, rng *rand.Rand) {
	if s.MeasureQubit(q, rng) == 1 {
		s.applyX(q)
	}
}

// Probabilities returns |amp|^2 for every basis state.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.amps))
	for i, a := range s.amps {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}

// SampleBasisState draws one basis state from the state's distribution.
func (s *StateVector) SampleBasisState(rng *rand.Rand) int {
	r := rng.Float64()
	acc := 0.0
	for i, a := range s.amps {
		acc += real(a)*real(a) + imag(a)*imag(a)
		if r < acc {
			return i
		}
	}
	return len(s.amps) - 1
}
