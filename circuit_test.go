package main

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestAppendEarliestPacksParallelGates(t *testing.T) {
	c := &Circuit{NumQubits: 4}
	c.Append(StrategyEarliest, GateOp("H", 0))
	c.Append(StrategyEarliest, GateOp("H", 1))
	c.Append(StrategyEarliest, CNOT(0, 1))
	c.Append(StrategyEarliest, GateOp("X", 2))

	fmt.Printf("Scheduled %d gates:\n", len(c.Gates))
	for _, g := range c.Gates {
		fmt.Printf("  Step %d: Type=%s Target=%d Control=%d\n", g.Step, g.Type, g.Target, g.Control)
	}

	if c.Gates[0].Step != c.Gates[1].Step {
		t.Errorf("H q[0] at step %d, H q[1] at step %d - expected same step for parallel gates",
			c.Gates[0].Step, c.Gates[1].Step)
	}
	if c.Gates[2].Step <= c.Gates[0].Step {
		t.Errorf("CX should be after H gates, got CX at step %d, H at step %d",
			c.Gates[2].Step, c.Gates[0].Step)
	}
	// X q[2] touches a free qubit, so it packs into the first step.
	if c.Gates[3].Step != 0 {
		t.Errorf("X q[2] should pack into step 0, got step %d", c.Gates[3].Step)
	}
}

func TestAppendNewOpensFreshSteps(t *testing.T) {
	c := &Circuit{NumQubits: 2}
	c.Append(StrategyNew, GateOp("H", 0), GateOp("H", 1))

	if c.Gates[0].Step != 0 || c.Gates[1].Step != 1 {
		t.Errorf("new strategy should give each op its own step, got %d and %d",
			c.Gates[0].Step, c.Gates[1].Step)
	}
	if c.MaxSteps != 2 {
		t.Errorf("MaxSteps = %d, want 2", c.MaxSteps)
	}
}

func TestAppendInlineSharesLastStep(t *testing.T) {
	c := &Circuit{NumQubits: 3}
	c.Append(StrategyNew, GateOp("H", 0))
	c.Append(StrategyInline, GateOp("X", 1))
	c.Append(StrategyInline, GateOp("Z", 2))

	if c.Gates[1].Step != 0 || c.Gates[2].Step != 0 {
		t.Errorf("inline ops on free qubits should share step 0, got %d and %d",
			c.Gates[1].Step, c.Gates[2].Step)
	}

	// Conflicting qubit forces a new step.
	c.Append(StrategyInline, GateOp("Y", 0))
	if got := c.Gates[3].Step; got != 1 {
		t.Errorf("inline op on occupied qubit should open step 1, got %d", got)
	}
}

func TestAppendNewThenInline(t *testing.T) {
	c := &Circuit{NumQubits: 3}
	c.Append(StrategyEarliest, GateOp("H", 0))
	c.Append(StrategyNewThenInline, GateOp("X", 0), GateOp("X", 1), GateOp("X", 2))

	if c.Gates[1].Step != 1 {
		t.Errorf("first op of batch should open a new step, got %d", c.Gates[1].Step)
	}
	if c.Gates[2].Step != 1 || c.Gates[3].Step != 1 {
		t.Errorf("rest of batch should continue inline at step 1, got %d and %d",
			c.Gates[2].Step, c.Gates[3].Step)
	}
}

func TestEarliestOrdersClassicalDependency(t *testing.T) {
	c := &Circuit{NumQubits: 2}
	c.Append(StrategyEarliest, Measure(0))
	x := GateOp("X", 1)
	x.ClassicalControl = 0
	c.Append(StrategyEarliest, x)

	// The conditioned gate touches a free qubit but reads the bit the
	// measurement writes, so it cannot share the measurement's step.
	if c.Gates[1].Step <= c.Gates[0].Step {
		t.Errorf("classically controlled X at step %d should come after measure at step %d",
			c.Gates[1].Step, c.Gates[0].Step)
	}
}

func TestQASMRoundTrip(t *testing.T) {
	c := &Circuit{NumQubits: 3}
	c.Append(StrategyEarliest, GateOp("H", 0))
	c.Append(StrategyEarliest, CNOT(0, 1))
	c.Append(StrategyEarliest, Rx(2, math.Pi/2))
	c.Append(StrategyEarliest, Measure(0))
	z := GateOp("Z", 2)
	z.ClassicalControl = 0
	c.Append(StrategyEarliest, z)

	qasm := c.ToQASM()
	fmt.Printf("Round-trip QASM output:\n%s\n", qasm)

	if !strings.Contains(qasm, "rx(pi/2) q[2];") {
		t.Errorf("expected 'rx(pi/2) q[2];' in QASM, got:\n%s", qasm)
	}
	if !strings.Contains(qasm, "if (c[0]==1) z q[2];") {
		t.Errorf("expected conditional z in QASM, got:\n%s", qasm)
	}

	c2, err := ParseQASM(qasm)
	if err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}
	if len(c2.Gates) != len(c.Gates) {
		t.Fatalf("round-trip: expected %d gates, got %d", len(c.Gates), len(c2.Gates))
	}

	// QASM emits gates in step order, so compare against the sorted view.
	want := c.SortedGates()
	for i, g := range c2.Gates {
		if g.Type != want[i].Type || g.Target != want[i].Target {
			t.Errorf("gate %d: got %s q[%d], want %s q[%d]",
				i, g.Type, g.Target, want[i].Type, want[i].Target)
		}
	}
	if math.Abs(c2.Gates[1].Params[0]-math.Pi/2) > 1e-10 {
		t.Errorf("rx param: got %g, want %g", c2.Gates[1].Params[0], math.Pi/2)
	}
	if c2.Gates[4].ClassicalControl != 0 {
		t.Errorf("conditional z: ClassicalControl = %d, want 0", c2.Gates[4].ClassicalControl)
	}
}

func TestParseQASMDaggerGates(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[1];
creg c[1];

sdg q[0];
tdg q[0];`

	c, err := ParseQASM(qasm)
	if err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}
	if len(c.Gates) != 2 {
		t.Fatalf("expected 2 gates, got %d", len(c.Gates))
	}
	if c.Gates[0].Type != "S" || !c.Gates[0].IsDagger {
		t.Errorf("gate 0: got Type=%s IsDagger=%v, want S dagger", c.Gates[0].Type, c.Gates[0].IsDagger)
	}
	if c.Gates[1].Type != "T" || !c.Gates[1].IsDagger {
		t.Errorf("gate 1: got Type=%s IsDagger=%v, want T dagger", c.Gates[1].Type, c.Gates[1].IsDagger)
	}
}

func TestParseQASMRejectsUnknownStatement(t *testing.T) {
	qasm := `OPENQASM 2.0;
qreg q[2];
frobnicate q[0];`

	if _, err := ParseQASM(qasm); err == nil {
		t.Fatal("expected error for unrecognized statement, got nil")
	}
}

func TestParseQASMRejectsUnsupportedGates(t *testing.T) {
	// Statements that fit the gate grammar but name gates the simulators
	// never execute must fail at parse time, not mid-run.
	lines := []string{
		"frobnicate q[0];",
		"xx q[0], q[1];",
		"crx(pi/2) q[0], q[1];",
		"u3(pi/2) q[0];",
		"if (c[0]==1) foo(pi) q[1];",
	}

	for _, line := range lines {
		qasm := "OPENQASM 2.0;\nqreg q[2];\ncreg c[2];\n" + line
		c, err := ParseQASM(qasm)
		fmt.Printf("ParseQASM with %q -> err=%v\n", line, err)
		if err == nil {
			t.Errorf("%q: expected parse error, got circuit with %d gates", line, len(c.Gates))
		}
	}
}

func TestParseQASMAcceptsSupportedGateSet(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];

id q[0];
sx q[0];
sxdg q[1];
u1(pi/4) q[0];
swap q[0], q[1];`

	c, err := ParseQASM(qasm)
	if err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}
	if len(c.Gates) != 5 {
		t.Fatalf("expected 5 gates, got %d", len(c.Gates))
	}
	if c.Gates[0].Type != "I" {
		t.Errorf("id should map onto the identity gate, got %q", c.Gates[0].Type)
	}
	if c.Gates[2].Type != "SX" || !c.Gates[2].IsDagger {
		t.Errorf("sxdg: got Type=%s IsDagger=%v, want SX dagger", c.Gates[2].Type, c.Gates[2].IsDagger)
	}
}

func TestParseInsertStrategy(t *testing.T) {
	tests := []struct {
		input string
		want  InsertStrategy
		ok    bool
	}{
		{"earliest", StrategyEarliest, true},
		{"", StrategyEarliest, true},
		{"NEW", StrategyNew, true},
		{"inline", StrategyInline, true},
		{"new-then-inline", StrategyNewThenInline, true},
		{"newtheninline", StrategyNewThenInline, true},
		{"soonest", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseInsertStrategy(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("ParseInsertStrategy(%q): err=%v, want ok=%v", tt.input, err, tt.ok)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseInsertStrategy(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNumCbits(t *testing.T) {
	c := &Circuit{NumQubits: 3}
	if got := c.NumCbits(); got != 0 {
		t.Errorf("empty circuit NumCbits = %d, want 0", got)
	}

	c.Append(StrategyEarliest, Measure(2))
	if got := c.NumCbits(); got != 3 {
		t.Errorf("NumCbits = %d, want 3", got)
	}
}
