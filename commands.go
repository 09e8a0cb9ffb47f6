package main

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// diagramWidth folds diagrams printed by the CLI.
const diagramWidth = 100

// app is the state shared by the command tree.
type app struct {
	cfgPath string
	verbose bool
	cfg     *Config
	logger  *zap.Logger
}

// newRootCmd builds the shorcirq command tree.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "shorcirq",
		Short: "Quantum period finding and Shor factorization on a local simulator",
		Long: `shorcirq builds the circuits behind Shor's algorithm (the Quantum Fourier
Transform and the period-finding scaffold), runs them on a state-vector
simulator and factors small composites with the classical simulation of the
algorithm.

Run "shorcirq demo" for the full walkthrough or "shorcirq browse" for the
interactive circuit browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(a.cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg

			logger, err := newLogger(cfg.Logging.Level, a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "shorcirq.yaml", "Path to the YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.demoCmd(),
		a.factorCmd(),
		a.qftCmd(),
		a.periodCmd(),
		a.browseCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) simulator() *StateVectorSimulator {
	return NewStateVectorSimulator(a.cfg.Seed)
}

// factorizer returns a fresh Factorizer for one number, so every number
// starts from the same seed.
func (a *app) factorizer(attempts int, seed int64, trial, quantum bool) *Factorizer {
	opts := []Option{
		WithMaxAttempts(attempts),
		WithSeed(seed),
		WithLogger(a.logger),
	}
	if !trial {
		opts = append(opts, WithoutTrialDivision())
	}
	if quantum {
		opts = append(opts, WithOrderFinder(NewQuantumOrderFinder(a.simulator(), a.cfg.CountingQubits, a.cfg.Shots, a.logger)))
	}
	return NewFactorizer(opts...)
}

func (a *app) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo [key]",
		Short: "Run the gate, QFT, period-finding and factoring demonstrations",
		Long: `Without arguments, demo runs the full walkthrough. With a key it draws and
simulates that one demonstration circuit.`,
		Example: `  shorcirq demo
  shorcirq demo toffoli`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := NewReporter(cmd.OutOrStdout(), a.simulator(), a.cfg.Shots, diagramWidth)

			if len(args) == 1 {
				d, ok := FindDemo(args[0])
				if !ok {
					return fmt.Errorf("unknown demo %q, available: %s", args[0], strings.Join(DemoKeys(), ", "))
				}
				d.Simulate = true
				return rep.Demo(d)
			}

			rep.Banner("QUANTUM GATES EXAMPLES")
			for _, d := range Demos() {
				if d.Category != CategoryGates {
					continue
				}
				if err := rep.Demo(d); err != nil {
					return err
				}
			}

			rep.Banner("SHOR'S ALGORITHM FOR INTEGER FACTORIZATION")
			if err := rep.QFT(3); err != nil {
				return err
			}
			rep.PeriodFinding(big.NewInt(7), big.NewInt(15), a.cfg.CountingQubits)

			rep.Banner("Classical Simulation Examples")
			for _, n := range a.cfg.Numbers {
				f := a.factorizer(a.cfg.MaxAttempts, a.cfg.Seed, a.cfg.TrialDivision, a.cfg.QuantumOrderFinding)
				res, err := f.Factor(big.NewInt(n))
				if err != nil {
					return err
				}
				rep.Factorization(res)
				rep.Summary(res)
			}

			rep.Notes()
			return nil
		},
	}
}

func (a *app) factorCmd() *cobra.Command {
	var (
		attempts int
		seed     int64
		noTrial  bool
		quantum  bool
	)
	cmd := &cobra.Command{
		Use:   "factor N...",
		Short: "Factor one or more integers",
		Example: `  shorcirq factor 15 21 35
  shorcirq factor --no-trial-division --quantum 15`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers := make([]*big.Int, len(args))
			for i, arg := range args {
				n, ok := new(big.Int).SetString(arg, 10)
				if !ok {
					return fmt.Errorf("%q is not an integer", arg)
				}
				numbers[i] = n
			}
			if !cmd.Flags().Changed("attempts") {
				attempts = a.cfg.MaxAttempts
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Seed
			}
			if !cmd.Flags().Changed("quantum") {
				quantum = a.cfg.QuantumOrderFinding
			}
			trial := a.cfg.TrialDivision && !noTrial

			rep := NewReporter(cmd.OutOrStdout(), a.simulator(), a.cfg.Shots, diagramWidth)
			for _, n := range numbers {
				if IsProbablePrime(n) {
					a.logger.Info("skipping prime", zap.String("n", n.String()))
					rep.Prime(n)
					continue
				}
				res, err := a.factorizer(attempts, seed, trial, quantum).Factor(n)
				if err != nil {
					return err
				}
				rep.Factorization(res)
				rep.Summary(res)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&attempts, "attempts", DefaultMaxAttempts, "Witnesses to try before giving up")
	cmd.Flags().Int64Var(&seed, "seed", DefaultSeed, "Seed for the witness generator")
	cmd.Flags().BoolVar(&noTrial, "no-trial-division", false, "Skip trial division so the witness loop runs")
	cmd.Flags().BoolVar(&quantum, "quantum", false, "Estimate orders with the simulated period-finding circuit")
	return cmd
}

func (a *app) qftCmd() *cobra.Command {
	var inverse, asQASM bool
	cmd := &cobra.Command{
		Use:   "qft n",
		Short: "Print the n-qubit Quantum Fourier Transform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 || n > MaxSimQubits {
				return fmt.Errorf("qubit count must be an integer in [1, %d], got %q", MaxSimQubits, args[0])
			}
			qc := BuildQFT(n)
			if inverse {
				qc = BuildInverseQFT(n)
			}
			out := cmd.OutOrStdout()
			if asQASM {
				fmt.Fprint(out, ToQASM(qc))
				return nil
			}
			fmt.Fprintf(out, "%s: %d gates, depth %d\n", qc.Name, len(qc.Gates), Depth(qc))
			fmt.Fprint(out, RenderDiagram(qc, diagramWidth))
			return nil
		},
	}
	cmd.Flags().BoolVar(&inverse, "inverse", false, "Print the inverse transform")
	cmd.Flags().BoolVar(&asQASM, "qasm", false, "Print OpenQASM 2.0 instead of a diagram")
	return cmd
}

func (a *app) periodCmd() *cobra.Command {
	var (
		run      bool
		counting int
	)
	cmd := &cobra.Command{
		Use:   "period a N",
		Short: "Print the period-finding circuit for a modulo N",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, ok := new(big.Int).SetString(args[0], 10)
			if !ok {
				return fmt.Errorf("%q is not an integer", args[0])
			}
			n, ok := new(big.Int).SetString(args[1], 10)
			if !ok {
				return fmt.Errorf("%q is not an integer", args[1])
			}
			if n.Cmp(bigOne) <= 0 {
				return fmt.Errorf("%w: got %s", ErrInvalidModulus, n)
			}
			if !cmd.Flags().Changed("counting") {
				counting = a.cfg.CountingQubits
			}
			if counting < 1 || counting+n.BitLen() > MaxSimQubits {
				return fmt.Errorf("%w: %d counting + %d auxiliary qubits", ErrTooManyQubits, counting, n.BitLen())
			}

			out := cmd.OutOrStdout()
			sim := a.simulator()
			rep := NewReporter(out, sim, a.cfg.Shots, diagramWidth)
			rep.PeriodFinding(base, n, counting)
			if !run {
				return nil
			}

			counts, err := rep.Counts(BuildPeriodFinding(base, n, counting))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Most frequent reading: |%s⟩\n", counts.MostFrequent())
			finder := NewQuantumOrderFinder(sim, counting, a.cfg.Shots, a.logger)
			r := finder.FindOrder(base, n)
			if r == nil {
				fmt.Fprintf(out, "\n%s: gcd(%s, %s) != 1 or no order exists\n", failureStyle.Render("No period"), base, n)
				return nil
			}
			fmt.Fprintf(out, "\nPeriod: r = %s\n", r)
			return nil
		},
	}
	cmd.Flags().BoolVar(&run, "run", false, "Simulate the circuit and extract the period")
	cmd.Flags().IntVar(&counting, "counting", 4, "Counting qubits")
	return cmd
}

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the demonstration circuits interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(newBrowser(a.simulator(), a.cfg.Shots), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	var save string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if save != "" {
				if err := a.cfg.Save(save); err != nil {
					return err
				}
				a.logger.Info("config saved", zap.String("path", save))
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "Also write the configuration to this path")
	return cmd
}
