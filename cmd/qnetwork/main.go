package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/qnetwork_reorganized/internal/report"
	"github.com/qnetwork_reorganized/pkg/matrix"
	"github.com/qnetwork_reorganized/pkg/qnetwork"
)

var log = logrus.New()

type cliOptions struct {
	configPath string
	stateSize  int
	actionSize int
	hiddenSize int
	seed       int64
	states     string
	chunk      int
	out        string
	color      bool
	verbose    bool
}

// Main entry point for the Q-network tool
func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one invocation and returns the process exit code.
func run(args []string) int {
	mode := "default"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		mode, args = args[0], args[1:]
	}

	if mode == "help" {
		printHelp()
		return 0
	}

	opts, err := parseFlags(mode, args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		log.WithError(err).Error("invalid arguments")
		return 2
	}
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	switch mode {
	case "default":
		err = runForward(opts)
	case "plot":
		err = runPlot(opts)
	case "save":
		err = runSave(opts)
	default:
		fmt.Printf("Unknown mode: %s\n", mode)
		printHelp()
		return 1
	}

	if err != nil {
		log.WithError(err).Error(mode + " failed")
		return 1
	}
	return 0
}

func parseFlags(mode string, args []string) (*cliOptions, error) {
	o := &cliOptions{}
	fs := flag.NewFlagSet(mode, flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "YAML config file (overrides size flags)")
	fs.IntVar(&o.stateSize, "state-size", 4, "dimension of each state")
	fs.IntVar(&o.actionSize, "action-size", 2, "number of discrete actions")
	fs.IntVar(&o.hiddenSize, "hidden", qnetwork.DefaultHiddenSize, "hidden layer width")
	fs.Int64Var(&o.seed, "seed", 0, "parameter initialization seed")
	fs.StringVar(&o.states, "state", "", "states as comma separated values, ';' between states (default: one zero state)")
	fs.IntVar(&o.chunk, "chunk", 0, "evaluate states this many rows at a time (0: whole batch)")
	fs.StringVar(&o.out, "out", "", "output file for plot and save modes")
	fs.BoolVar(&o.color, "color", true, "colorize table output")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

func buildNetwork(o *cliOptions) (*qnetwork.QNetwork, error) {
	cfg := qnetwork.NewConfig(o.stateSize, o.actionSize, o.hiddenSize, o.seed)
	if o.configPath != "" {
		loaded, err := qnetwork.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	return qnetwork.New(*cfg, qnetwork.WithLogger(log))
}

// parseStates reads "1,2,3;4,5,6" into rows. An empty string yields a
// single zero state.
func parseStates(s string, stateSize int) ([][]float64, error) {
	if strings.TrimSpace(s) == "" {
		return [][]float64{make([]float64, stateSize)}, nil
	}

	var states [][]float64
	for i, group := range strings.Split(s, ";") {
		var row []float64
		for _, field := range strings.Split(group, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "state %d", i)
			}
			row = append(row, v)
		}
		states = append(states, row)
	}
	return states, nil
}

func evaluate(o *cliOptions) ([][]float64, error) {
	q, err := buildNetwork(o)
	if err != nil {
		return nil, err
	}
	states, err := parseStates(o.states, q.StateSize())
	if err != nil {
		return nil, err
	}
	if o.chunk <= 0 {
		return q.ForwardRows(states)
	}

	batch, err := matrix.FromRows(states)
	if err != nil {
		return nil, err
	}
	out, err := q.ForwardChunked(batch, o.chunk)
	if err != nil {
		return nil, err
	}
	return matrix.ToRows(out), nil
}

func runForward(o *cliOptions) error {
	values, err := evaluate(o)
	if err != nil {
		return err
	}
	return report.WriteTable(os.Stdout, values, o.color)
}

func runPlot(o *cliOptions) error {
	values, err := evaluate(o)
	if err != nil {
		return err
	}
	if o.out == "" {
		o.out = "qnetwork.html"
	}
	f, err := os.Create(o.out)
	if err != nil {
		return errors.Wrap(err, "create chart file")
	}
	defer f.Close()

	if err := report.RenderBarChart(f, values, "Q-network action distribution"); err != nil {
		return err
	}
	log.WithField("path", o.out).Info("chart written")
	return nil
}

func runSave(o *cliOptions) error {
	q, err := buildNetwork(o)
	if err != nil {
		return err
	}
	if o.out == "" {
		o.out = "qnetwork.gob"
	}
	if err := q.SaveFile(o.out); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"path":       o.out,
		"network_id": q.ID().String(),
	}).Info("checkpoint written")
	return nil
}

// printHelp displays usage information
func printHelp() {
	fmt.Println("\nUsage: qnetwork [mode] [flags]")
	fmt.Println("\nAvailable modes:")
	fmt.Println("  default  - Build a network and print action values for -state")
	fmt.Println("  plot     - Render action values as an HTML bar chart to -out")
	fmt.Println("  save     - Write a freshly initialized checkpoint to -out")
	fmt.Println("  help     - Display this help message")
	fmt.Println("\nFlags: -config -state-size -action-size -hidden -seed -state -chunk -out -color -v")
}
