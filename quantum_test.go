package main

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"
)

const amplitudeTolerance = 1e-10

func TestHadamardSuperposition(t *testing.T) {
	s := NewStateVector(1)
	if err := s.Apply(GateOp("H", 0)); err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	want := 1 / math.Sqrt2
	for i, a := range s.Amplitudes() {
		if math.Abs(cmplx.Abs(a)-want) > amplitudeTolerance {
			t.Errorf("amp[%d] = %v, want magnitude %g", i, a, want)
		}
	}
}

func TestBellState(t *testing.T) {
	s := NewStateVector(2)
	s.Apply(GateOp("H", 0))
	s.Apply(CNOT(0, 1))

	amps := s.Amplitudes()
	want := 1 / math.Sqrt2
	if math.Abs(cmplx.Abs(amps[0])-want) > amplitudeTolerance {
		t.Errorf("amp |00> = %v, want magnitude %g", amps[0], want)
	}
	if math.Abs(cmplx.Abs(amps[3])-want) > amplitudeTolerance {
		t.Errorf("amp |11> = %v, want magnitude %g", amps[3], want)
	}
	if cmplx.Abs(amps[1]) > amplitudeTolerance || cmplx.Abs(amps[2]) > amplitudeTolerance {
		t.Errorf("amp |01>=%v amp |10>=%v, want 0", amps[1], amps[2])
	}
}

func TestRxPiActsAsX(t *testing.T) {
	s := NewStateVector(1)
	s.Apply(Rx(0, math.Pi))

	// RX(pi) = -i*X, so |0> maps onto |1> up to global phase.
	amps := s.Amplitudes()
	if math.Abs(cmplx.Abs(amps[1])-1) > amplitudeTolerance {
		t.Errorf("amp |1| = %v, want magnitude 1", amps[1])
	}
	if cmplx.Abs(amps[0]) > amplitudeTolerance {
		t.Errorf("amp |0| = %v, want 0", amps[0])
	}
}

func TestSDaggerInvertsS(t *testing.T) {
	s := NewStateVector(1)
	s.Apply(GateOp("H", 0))

	sd := GateOp("S", 0)
	sd.IsDagger = true
	s.Apply(GateOp("S", 0))
	s.Apply(sd)
	s.Apply(GateOp("H", 0))

	// H S S† H = I, so the state is back at |0>.
	if math.Abs(cmplx.Abs(s.Amplitudes()[0])-1) > amplitudeTolerance {
		t.Errorf("amp |0> = %v, want magnitude 1", s.Amplitudes()[0])
	}
}

func TestSXSquaredIsX(t *testing.T) {
	s := NewStateVector(1)
	s.Apply(GateOp("SX", 0))
	s.Apply(GateOp("SX", 0))

	if math.Abs(cmplx.Abs(s.Amplitudes()[1])-1) > amplitudeTolerance {
		t.Errorf("amp |1> = %v, want magnitude 1 after two √X", s.Amplitudes()[1])
	}
}

func TestNormPreservedByRandomCircuit(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := RandomLayeredCircuit(4, 5, rng, StrategyEarliest)

	s := NewStateVector(4)
	for _, g := range c.SortedGates() {
		if g.Type == "MEASURE" {
			continue
		}
		if err := s.Apply(g); err != nil {
			t.Fatalf("Apply(%s): %v", g.Type, err)
		}
	}

	if math.Abs(s.Norm()-1) > 1e-9 {
		t.Errorf("norm = %g, want 1", s.Norm())
	}
}

func TestMeasureCollapsesEntangledPair(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 20; i++ {
		s := NewStateVector(2)
		s.Apply(GateOp("H", 0))
		s.Apply(CNOT(0, 1))

		first := s.MeasureQubit(0, rng)
		second := s.MeasureQubit(1, rng)
		if first != second {
			t.Fatalf("Bell pair measured %d and %d, outcomes must agree", first, second)
		}
		if math.Abs(s.Norm()-1) > 1e-9 {
			t.Errorf("norm after collapse = %g, want 1", s.Norm())
		}
	}
}

func TestMeasureDeterministicStates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	s := NewStateVector(1)
	if got := s.MeasureQubit(0, rng); got != 0 {
		t.Errorf("measuring |0> gave %d, want 0", got)
	}

	s = NewStateVector(1)
	s.Apply(GateOp("X", 0))
	if got := s.MeasureQubit(0, rng); got != 1 {
		t.Errorf("measuring |1> gave %d, want 1", got)
	}
}

func TestResetReturnsQubitToZero(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := NewStateVector(2)
	s.Apply(GateOp("X", 0))
	s.Apply(GateOp("H", 1))
	s.Reset(0, rng)

	for i, a := range s.Amplitudes() {
		if i&1 != 0 && cmplx.Abs(a) > amplitudeTolerance {
			t.Errorf("amp[%d] = %v after reset, want 0 on the |1> branch", i, a)
		}
	}
	if math.Abs(s.Norm()-1) > 1e-9 {
		t.Errorf("norm after reset = %g, want 1", s.Norm())
	}
}

func TestProbabilitiesSumToOne(t *testing.T) {
	s := NewStateVector(3)
	s.Apply(GateOp("H", 0))
	s.Apply(GateOp("H", 1))
	s.Apply(CNOT(1, 2))

	total := 0.0
	for _, p := range s.Probabilities() {
		total += p
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("probabilities sum to %g, want 1", total)
	}
}

func TestSampleBasisStateRespectsSupport(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	s := NewStateVector(2)
	s.Apply(GateOp("H", 0))
	s.Apply(CNOT(0, 1))

	for i := 0; i < 50; i++ {
		got := s.SampleBasisState(rng)
		if got != 0 && got != 3 {
			t.Fatalf("sampled basis state %d, want 0 or 3 for a Bell pair", got)
		}
	}
}

func TestApplyRejectsUnknownGate(t *testing.T) {
	s := NewStateVector(1)
	if err := s.Apply(GateOp("CCX", 0)); err == nil {
		t.Fatal("expected error for unsupported gate, got nil")
	}
}
