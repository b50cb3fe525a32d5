package simulator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/katalvlaran/pulsetrace/internal/logging"
)

// Defaults for a simulator run.
const (
	DefaultBinary = "specs"
	DefaultOutput = "traces/delete_me.vcd"
	DefaultAbsTol = 1e-8
	DefaultRelTol = 1e-4
)

var (
	// ErrNoNetlist indicates a run with neither a netlist nor custom arguments.
	ErrNoNetlist = errors.New("simulator: need a netlist or custom arguments")

	// ErrSimulatorFailed indicates a non-zero exit status.
	ErrSimulatorFailed = errors.New("simulator: run failed")
)

// Config describes one simulator invocation.
//
// Netlist, when set, produces "-f <netlist> -o <output> --abstol <a> --reltol <r>".
// Custom settings are merged over -o/--abstol/--reltol and appended, for
// options the simulator takes that Config does not name. Echo, when set,
// receives the simulator's output if the run fails or Verbose is on.
type Config struct {
	Binary  string
	Dir     string
	Netlist string
	Output  string
	AbsTol  float64
	RelTol  float64
	Custom  []Arg
	Verbose bool
	Echo    io.Writer
	Logger  *slog.Logger
}

// DefaultConfig returns a config with the simulator's usual tolerances.
func DefaultConfig() Config {
	return Config{
		Binary: DefaultBinary,
		Output: DefaultOutput,
		AbsTol: DefaultAbsTol,
		RelTol: DefaultRelTol,
	}
}

// Result reports a finished run.
type Result struct {
	Command  []string
	ExitCode int
	Output   []byte // stdout and stderr interleaved
	Elapsed  time.Duration
}

// Command returns the executable path and arguments Run would use.
func (c Config) Command() (string, []string, error) {
	if c.Netlist == "" && c.Custom == nil {
		return "", nil, ErrNoNetlist
	}
	bin := c.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	if c.Dir != "" {
		bin = filepath.Join(c.Dir, bin)
	}

	base := []Arg{
		String("o", c.Output),
		Float("abstol", c.AbsTol),
		Float("reltol", c.RelTol),
	}
	var args []string
	if c.Netlist != "" {
		args = Args(append([]Arg{String("f", c.Netlist)}, base...))
	}
	if c.Custom != nil {
		args = append(args, Args(Merge(base, c.Custom))...)
	}

	return bin, args, nil
}

// Run executes the simulator and waits for it. A non-zero exit returns
// both the Result and an error wrapping ErrSimulatorFailed.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	bin, args, err := cfg.Command()
	if err != nil {
		return nil, err
	}
	log := logging.OrDiscard(cfg.Logger)

	cmd := exec.CommandContext(ctx, bin, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	log.Info("running simulator", "command", bin, "args", args)
	start := time.Now()
	err = cmd.Run()
	res := &Result{
		Command: append([]string{bin}, args...),
		Output:  out.Bytes(),
		Elapsed: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("simulator: start %s: %w", bin, err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	log.Info("simulator finished", "exit_code", res.ExitCode, "elapsed", res.Elapsed)

	if cfg.Echo != nil && (res.ExitCode != 0 || cfg.Verbose) {
		_, _ = cfg.Echo.Write(res.Output)
	}
	if res.ExitCode != 0 {
		return res, fmt.Errorf("%w: exit code %d", ErrSimulatorFailed, res.ExitCode)
	}

	return res, nil
}
