package main

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	singleGateParamRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\];?$`)
	twoQubitRegex        = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	twoQubitParamRegex   = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	measureRegex         = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*\w+\[(\d+)\];?$`)
	resetRegex           = regexp.MustCompile(`^reset\s+q\[(\d+)\];?$`)
	ifRegex              = regexp.MustCompile(`^if\s*\(\s*\w+\[(\d+)\]\s*==\s*1\s*\)\s+(\w+)\s+q\[(\d+)\];?$`)
	ifParamRegex         = regexp.MustCompile(`^if\s*\(\s*\w+\[(\d+)\]\s*==\s*1\s*\)\s+(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\];?$`)
	qregRegex            = regexp.MustCompile(`qreg\s+\w+\[(\d+)\]`)
)

// InsertStrategy is the policy used by Append to schedule new operations
// into steps of the circuit timeline.
type InsertStrategy int

const (
	// StrategyEarliest slides each operation to the earliest step where
	// every qubit (and classical bit) it touches is free.
	StrategyEarliest InsertStrategy = iota
	// StrategyNew puts every operation in a fresh step of its own.
	StrategyNew
	// StrategyInline places operations in the last existing step, opening
	// a new step only when a qubit is already occupied there.
	StrategyInline
	// StrategyNewThenInline opens a new step for the first operation of a
	// batch and continues inline for the rest.
	StrategyNewThenInline
)

func (s InsertStrategy) String() string {
	switch s {
	case StrategyEarliest:
		return "earliest"
	case StrategyNew:
		return "new"
	case StrategyInline:
		return "inline"
	case StrategyNewThenInline:
		return "new-then-inline"
	}
	return fmt.Sprintf("InsertStrategy(%d)", int(s))
}

// ParseInsertStrategy maps a CLI spelling to an InsertStrategy.
func ParseInsertStrategy(s string) (InsertStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "earliest":
		return StrategyEarliest, nil
	case "new":
		return StrategyNew, nil
	case "inline":
		return StrategyInline, nil
	case "new-then-inline", "newtheninline":
		return StrategyNewThenInline, nil
	}
	return 0, fmt.Errorf("unknown insert strategy %q (want earliest, new, inline or new-then-inline)", s)
}

// Gate represents a single operation placed on the circuit timeline.
type Gate struct {
	Type             string
	Target           int
	Control          int // -1 if not a controlled gate
	Step             int // position in circuit timeline, assigned by Append
	Params           []float64
	IsDagger         bool // true for adjoint gates (S†, T†, √X†)
	ClassicalControl int  // -1 if not classically controlled, else classical bit index
}

func newGate(gateType string, target int) Gate {
	return Gate{Type: gateType, Target: target, Control: -1, ClassicalControl: -1}
}

// GateOp returns an unparameterized single-qubit gate.
func GateOp(gateType string, target int) Gate { return newGate(gateType, target) }

// Rx, Ry and Rz return rotation gates about the respective axis.
func Rx(target int, theta float64) Gate {
	g := newGate("RX", target)
	g.Params = []float64{theta}
	return g
}

func Ry(target int, theta float64) Gate {
	g := newGate("RY", target)
	g.Params = []float64{theta}
	return g
}

func Rz(target int, theta float64) Gate {
	g := newGate("RZ", target)
	g.Params = []float64{theta}
	return g
}

// CNOT returns a controlled-X gate.
func CNOT(control, target int) Gate {
	g := newGate("CX", target)
	g.Control = control
	return g
}

// ControlledOp returns a generic two-qubit controlled gate (CZ, SWAP, CRX...).
func ControlledOp(gateType string, control, target int, params ...float64) Gate {
	g := newGate(gateType, target)
	g.Control = control
	g.Params = params
	return g
}

// Measure returns a terminal measurement of the qubit into classical bit
// with the same index.
func Measure(target int) Gate { return newGate("MEASURE", target) }

// ResetOp returns a reset of the qubit to |0>.
func ResetOp(target int) Gate { return newGate("RESET", target) }

// Qubits returns the qubit indices the gate acts on.
func (g Gate) Qubits() []int {
	if g.Control >= 0 {
		return []int{g.Control, g.Target}
	}
	return []int{g.Target}
}

// references reports whether the gate acts on the given qubit.
func (g Gate) references(qubit int) bool {
	return g.Target == qubit || g.Control == qubit
}

// conflictsWith reports whether two gates cannot share a step: either they
// touch a common qubit, or one measures the classical bit the other reads.
func (g Gate) conflictsWith(o Gate) bool {
	for _, q := range g.Qubits() {
		if o.references(q) {
			return true
		}
	}
	if g.Type == "MEASURE" && o.ClassicalControl == g.Target {
		return true
	}
	if o.Type == "MEASURE" && g.ClassicalControl == o.Target {
		return true
	}
	return false
}

// Circuit holds the quantum circuit as gates on a step timeline.
type Circuit struct {
	NumQubits int
	Gates     []Gate
	MaxSteps  int
}

// Append schedules the given operations onto the circuit according to the
// insert strategy. Qubit count grows as needed.
func (c *Circuit) Append(strategy InsertStrategy, ops ...Gate) {
	for i, op := range ops {
		switch strategy {
		case StrategyNew:
			op.Step = c.MaxSteps
		case StrategyInline:
			op.Step = c.inlineStep(op)
		case StrategyNewThenInline:
			if i == 0 {
				op.Step = c.MaxSteps
			} else {
				op.Step = c.inlineStep(op)
			}
		default:
			op.Step = c.earliestStep(op)
		}
		c.place(op)
	}
}

func (c *Circuit) place(op Gate) {
	c.Gates = append(c.Gates, op)
	if op.Step >= c.MaxSteps {
		c.MaxSteps = op.Step + 1
	}
	for _, q := range op.Qubits() {
		if q >= c.NumQubits {
			c.NumQubits = q + 1
		}
	}
}

// earliestStep returns the first step after every scheduled gate the
// operation conflicts with.
func (c *Circuit) earliestStep(op Gate) int {
	step := 0
	for _, g := range c.Gates {
		if g.conflictsWith(op) && g.Step >= step {
			step = g.Step + 1
		}
	}
	return step
}

// inlineStep returns the last step when the operation fits there, otherwise
// the next fresh step.
func (c *Circuit) inlineStep(op Gate) int {
	last := c.MaxSteps - 1
	if last < 0 {
		return 0
	}
	for _, g := range c.Gates {
		if g.Step == last && g.conflictsWith(op) {
			return c.MaxSteps
		}
	}
	return last
}

// SortedGates returns the gates ordered by step, preserving insertion order
// within a step.
func (c *Circuit) SortedGates() []Gate {
	gates := make([]Gate, len(c.Gates))
	copy(gates, c.Gates)
	slices.SortStableFunc(gates, func(a, b Gate) int {
		return a.Step - b.Step
	})
	return gates
}

// GateAt returns the gate at the given step and qubit, or nil.
func (c *Circuit) GateAt(step, qubit int) *Gate {
	for i := range c.Gates {
		g := &c.Gates[i]
		if g.Step == step && g.references(qubit) {
			return g
		}
	}
	return nil
}

// NumCbits returns the number of classical bits needed, derived from
// measurements and classical controls. Zero when no measurements exist.
func (c *Circuit) NumCbits() int {
	maxBit := -1
	for _, g := range c.Gates {
		if g.Type == "MEASURE" {
			maxBit = max(maxBit, g.Target)
		}
		maxBit = max(maxBit, g.ClassicalControl)
	}
	return maxBit + 1
}

// measureAtStep returns the qubit measured at the given step, or -1.
func (c *Circuit) measureAtStep(step int) int {
	for _, g := range c.Gates {
		if g.Step == step && g.Type == "MEASURE" {
			return g.Target
		}
	}
	return -1
}

// ToQASM generates QASM 2.0 output for the circuit.
func (c *Circuit) ToQASM() string {
	numQubits := max(c.NumQubits, 1)
	numCbits := max(c.NumCbits(), 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numCbits)

	for _, g := range c.SortedGates() {
		writeGateQASM(&sb, g)
	}
	return sb.String()
}

func writeGateQASM(sb *strings.Builder, g Gate) {
	name := strings.ToLower(g.Type)
	switch {
	case g.Type == "MEASURE":
		fmt.Fprintf(sb, "measure q[%d] -> c[%d];\n", g.Target, g.Target)
	case g.Type == "RESET":
		fmt.Fprintf(sb, "reset q[%d];\n", g.Target)
	case g.ClassicalControl >= 0:
		if len(g.Params) > 0 {
			fmt.Fprintf(sb, "if (c[%d]==1) %s(%s) q[%d];\n", g.ClassicalControl, name, formatParam(g.Params[0]), g.Target)
		} else if g.IsDagger {
			fmt.Fprintf(sb, "if (c[%d]==1) %sdg q[%d];\n", g.ClassicalControl, name, g.Target)
		} else {
			fmt.Fprintf(sb, "if (c[%d]==1) %s q[%d];\n", g.ClassicalControl, name, g.Target)
		}
	case g.Control >= 0:
		if len(g.Params) > 0 {
			fmt.Fprintf(sb, "%s(%s) q[%d], q[%d];\n", name, formatParam(g.Params[0]), g.Control, g.Target)
		} else {
			fmt.Fprintf(sb, "%s q[%d], q[%d];\n", name, g.Control, g.Target)
		}
	case len(g.Params) > 0:
		fmt.Fprintf(sb, "%s(%s) q[%d];\n", name, formatParam(g.Params[0]), g.Target)
	case g.IsDagger:
		fmt.Fprintf(sb, "%sdg q[%d];\n", name, g.Target)
	default:
		fmt.Fprintf(sb, "%s q[%d];\n", name, g.Target)
	}
}

// ParseQASM parses QASM 2.0 text into a circuit, scheduling operations with
// the earliest strategy. Only the gate set the simulators execute is
// accepted; anything else is an error.
func ParseQASM(qasm string) (*Circuit, error) {
	c := &Circuit{}

	for lineno, raw := range strings.Split(qasm, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") {
			continue
		}
		if strings.HasPrefix(line, "qreg") {
			if m := qregRegex.FindStringSubmatch(line); m != nil {
				n, _ := strconv.Atoi(m[1])
				c.NumQubits = max(c.NumQubits, n)
			}
			continue
		}

		op, err := parseGateLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno+1, err)
		}
		c.Append(StrategyEarliest, op)
	}
	return c, nil
}

// Gate names the parser accepts, limited to what the simulators execute.
var (
	qasmSingleGates   = map[string]bool{"I": true, "H": true, "X": true, "Y": true, "Z": true, "S": true, "T": true, "SX": true}
	qasmRotationGates = map[string]bool{"RX": true, "RY": true, "RZ": true, "P": true, "U1": true}
	qasmTwoQubitGates = map[string]bool{"CX": true, "CZ": true, "SWAP": true}
)

func parseGateLine(line string) (Gate, error) {
	if m := measureRegex.FindStringSubmatch(line); m != nil {
		target, _ := strconv.Atoi(m[1])
		return Measure(target), nil
	}
	if m := resetRegex.FindStringSubmatch(line); m != nil {
		target, _ := strconv.Atoi(m[1])
		return ResetOp(target), nil
	}
	if m := ifParamRegex.FindStringSubmatch(line); m != nil {
		gateType := strings.ToUpper(m[2])
		if !qasmRotationGates[gateType] {
			return Gate{}, fmt.Errorf("unsupported gate %q", m[2])
		}
		cbit, _ := strconv.Atoi(m[1])
		param, ok := parseParamExpr(m[3])
		if !ok {
			return Gate{}, fmt.Errorf("bad parameter %q", m[3])
		}
		target, _ := strconv.Atoi(m[4])
		g := newGate(gateType, target)
		g.Params = []float64{param}
		g.ClassicalControl = cbit
		return g, nil
	}
	if m := ifRegex.FindStringSubmatch(line); m != nil {
		cbit, _ := strconv.Atoi(m[1])
		target, _ := strconv.Atoi(m[3])
		g, err := singleQubitGate(m[2], target)
		if err != nil {
			return Gate{}, err
		}
		g.ClassicalControl = cbit
		return g, nil
	}
	if m := twoQubitParamRegex.FindStringSubmatch(line); m != nil {
		// No parameterized two-qubit gate is executed.
		return Gate{}, fmt.Errorf("unsupported gate %q", m[1])
	}
	if m := twoQubitRegex.FindStringSubmatch(line); m != nil {
		gateType := strings.ToUpper(m[1])
		if !qasmTwoQubitGates[gateType] {
			return Gate{}, fmt.Errorf("unsupported gate %q", m[1])
		}
		control, _ := strconv.Atoi(m[2])
		target, _ := strconv.Atoi(m[3])
		return ControlledOp(gateType, control, target), nil
	}
	if m := singleGateParamRegex.FindStringSubmatch(line); m != nil {
		gateType := strings.ToUpper(m[1])
		if !qasmRotationGates[gateType] {
			return Gate{}, fmt.Errorf("unsupported gate %q", m[1])
		}
		param, ok := parseParamExpr(m[2])
		if !ok {
			return Gate{}, fmt.Errorf("bad parameter %q", m[2])
		}
		target, _ := strconv.Atoi(m[3])
		g := newGate(gateType, target)
		g.Params = []float64{param}
		return g, nil
	}
	if m := singleGateRegex.FindStringSubmatch(line); m != nil {
		target, _ := strconv.Atoi(m[2])
		return singleQubitGate(m[1], target)
	}
	return Gate{}, fmt.Errorf("unrecognized statement %q", line)
}

func singleQubitGate(name string, target int) (Gate, error) {
	gateType := strings.ToUpper(name)
	isDagger := false
	if strings.HasSuffix(gateType, "DG") {
		isDagger = true
		gateType = strings.TrimSuffix(gateType, "DG")
	}
	if gateType == "ID" {
		gateType = "I"
	}
	if !qasmSingleGates[gateType] {
		return Gate{}, fmt.Errorf("unsupported gate %q", name)
	}
	g := newGate(gateType, target)
	g.IsDagger = isDagger
	return g, nil
}
