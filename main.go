package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	flagQubits    int
	flagDepth     int
	flagShots     int
	flagSim       string
	flagStrategy  string
	flagSeed      int64
	flagVerbose   bool
	flagPlain     bool
	flagDumpQASM  bool
	flagFromQASM  string
	flagMinQubits int
	flagMaxQubits int
)

// topOutcomes caps the outcome listing in verbose output.
const topOutcomes = 8

var rootCmd = &cobra.Command{
	Use:   "qsimbench [nqubits [depth [shots]]]",
	Short: "Benchmark per-shot runtime of simulating random quantum circuits",
	Long: `qsimbench builds a random layered circuit (arbitrary single-qubit
rotations followed by a CNOT fan from a random control in each layer,
terminal measurements on every qubit), simulates it on one of two
statevector backends and reports the averaged per-shot wall-clock time.

Positional arguments mirror the classic invocation and override the
corresponding flags.`,
	Args:          cobra.MaximumNArgs(3),
	SilenceUsage:  true,
	RunE:          runRoot,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Benchmark a range of qubit counts at fixed depth and shots",
	Args:  cobra.NoArgs,
	RunE:  runSweep,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVarP(&flagQubits, "qubits", "n", 2, "number of qubits in the circuit")
	pf.IntVarP(&flagDepth, "depth", "d", 3, "number of rotation+CNOT layers")
	pf.IntVarP(&flagShots, "shots", "r", 1, "number of repetitions to time")
	pf.StringVarP(&flagSim, "simulator", "s", "dense", "simulator backend (dense or sampler)")
	pf.StringVar(&flagStrategy, "strategy", "earliest", "insert strategy (earliest, new, inline, new-then-inline)")
	pf.Int64Var(&flagSeed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.BoolVar(&flagPlain, "plain", false, "plain output only, no spinner or styling")

	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "print the circuit diagram and outcome counts")
	rootCmd.Flags().BoolVar(&flagDumpQASM, "dump-qasm", false, "print the circuit as QASM 2.0 before running")
	rootCmd.Flags().StringVar(&flagFromQASM, "from-qasm", "", "benchmark a circuit loaded from a QASM file instead of a random one")

	sweepCmd.Flags().IntVar(&flagMinQubits, "min-qubits", 1, "first qubit count in the sweep")
	sweepCmd.Flags().IntVar(&flagMaxQubits, "max-qubits", 10, "last qubit count in the sweep")

	rootCmd.AddCommand(sweepCmd)
}

func configFromFlags(args []string) (BenchConfig, error) {
	cfg := BenchConfig{
		Qubits: flagQubits,
		Depth:  flagDepth,
		Shots:  flagShots,
		Seed:   flagSeed,
	}

	// Positional overrides: nqubits, depth, shots.
	targets := []*int{&cfg.Qubits, &cfg.Depth, &cfg.Shots}
	names := []string{"nqubits", "depth", "shots"}
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return cfg, fmt.Errorf("bad %s argument %q", names[i], arg)
		}
		*targets[i] = n
	}

	strategy, err := ParseInsertStrategy(flagStrategy)
	if err != nil {
		return cfg, err
	}
	cfg.Strategy = strategy
	cfg.Simulator = flagSim
	return cfg, nil
}

func plainOutput() bool {
	return flagPlain || !isatty.IsTerminal(os.Stdout.Fd())
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := configFromFlags(args)
	if err != nil {
		return err
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	var circ *Circuit
	if flagFromQASM != "" {
		data, err := os.ReadFile(flagFromQASM)
		if err != nil {
			return err
		}
		circ, err = ParseQASM(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", flagFromQASM, err)
		}
		cfg.Qubits = max(circ.NumQubits, 1)
		cfg.Depth = circ.MaxSteps
	} else {
		circ = RandomLayeredCircuit(cfg.Qubits, cfg.Depth, rng, cfg.Strategy)
	}

	if flagDumpQASM {
		fmt.Print(circ.ToQASM())
	}
	if flagVerbose {
		fmt.Println(RenderCircuit(circ))
	}

	run := func() (*BenchResult, error) {
		return BenchCircuit(cfg, circ, rng)
	}

	var res *BenchResult
	if plainOutput() {
		res, err = run()
	} else {
		label := fmt.Sprintf("simulating %d qubits, depth %d, %d shots on the %s backend",
			cfg.Qubits, cfg.Depth, cfg.Shots, cfg.Simulator)
		res, err = runWithSpinner(label, run)
	}
	if err != nil {
		return err
	}

	fmt.Println(res.Record())
	if !plainOutput() {
		fmt.Println(RenderSummary(res))
		if flagVerbose {
			fmt.Print(RenderCounts(res.Counts, res.Config.Shots, topOutcomes))
		}
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := configFromFlags(nil)
	if err != nil {
		return err
	}

	results, err := RunSweep(cfg, flagMinQubits, flagMaxQubits)
	if err != nil {
		return err
	}

	if plainOutput() {
		for _, r := range results {
			fmt.Println(r.Record())
		}
		return nil
	}
	fmt.Print(RenderSweepTable(results))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
