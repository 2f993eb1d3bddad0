// pkg/winget/client.go
package winget

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrListFailed means `winget upgrade` exited with an error and printed no table
	ErrListFailed = errors.New("listing upgrades failed")

	// ErrTimedOut means winget was killed after running past the configured timeout
	ErrTimedOut = errors.New("timed out")
)

// waitDelay bounds how long Run waits for installers that inherited the
// output pipes once winget itself has been killed
const waitDelay = 5 * time.Second

// Runner executes a command and captures its output. The returned error is
// reserved for failing to run the command at all or for the context ending
// before it finished; a non-zero exit status is reported through
// CommandResult.ExitCode.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	res := CommandResult{
		Stdout: DecodeOutput(stdout.Bytes()),
		Stderr: DecodeOutput(stderr.Bytes()),
	}

	// A killed process also exits non-zero; report why it was killed
	if err != nil && ctx.Err() != nil {
		res.ExitCode = -1
		return res, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}

// ClientOptions controls the arguments passed to winget
type ClientOptions struct {
	Executable       string
	Source           string // restrict to one source, e.g. "winget" or "msstore"
	IncludeUnknown   bool
	AcceptAgreements bool
	Silent           bool
	Timeout          time.Duration // per invocation, 0 means none
}

type Client struct {
	runner Runner
	opts   ClientOptions
	logger logrus.FieldLogger
}

func NewClient(runner Runner, opts ClientOptions, logger logrus.FieldLogger) *Client {
	if runner == nil {
		runner = ExecRunner{}
	}
	if opts.Executable == "" {
		opts.Executable = DefaultExecutable
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Client{
		runner: runner,
		opts:   opts,
		logger: logger,
	}
}

// ListUpgrades runs `winget upgrade` and parses the table it prints
func (c *Client) ListUpgrades(ctx context.Context) ([]PackageRecord, error) {
	args := []string{"upgrade"}
	if c.opts.IncludeUnknown {
		args = append(args, "--include-unknown")
	}
	if c.opts.Source != "" {
		args = append(args, "--source", c.opts.Source)
	}
	if c.opts.AcceptAgreements {
		args = append(args, "--accept-source-agreements")
	}

	res, err := c.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("running winget: %w", err)
	}

	records, err := ParseUpgradeList(res.Stdout)
	if err != nil {
		return nil, err
	}

	// winget exits non-zero for some benign cases while still printing the table
	if !res.Succeeded() && len(records) == 0 {
		return nil, fmt.Errorf("%w: exit code %d: %s", ErrListFailed, res.ExitCode, failureDetail(res))
	}

	c.logger.WithField("count", len(records)).Debug("Parsed upgrade list")
	return records, nil
}

// Upgrade runs a silent upgrade of a single package and classifies the result
func (c *Client) Upgrade(ctx context.Context, id string) Outcome {
	args := []string{"upgrade", "--id", id, "--exact"}
	if c.opts.Source != "" {
		args = append(args, "--source", c.opts.Source)
	}
	if c.opts.AcceptAgreements {
		args = append(args, "--accept-source-agreements", "--accept-package-agreements")
	}
	if c.opts.Silent {
		// -h is accepted by more winget releases than --silent
		args = append(args, "-h")
	}

	res, err := c.run(ctx, args...)
	if err != nil {
		return Outcome{Kind: GenericFailure, ID: id, Detail: truncate(err.Error(), maxDetailLength)}
	}

	outcome := Classify(id, res)
	c.logger.WithFields(logrus.Fields{
		"id":      id,
		"outcome": outcome.Kind,
	}).Debug(outcome.Detail)
	return outcome
}

func (c *Client) run(ctx context.Context, args ...string) (CommandResult, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := c.runner.Run(ctx, c.opts.Executable, args...)

	entry := c.logger.WithFields(logrus.Fields{
		"command":  c.opts.Executable,
		"args":     args,
		"duration": time.Since(start),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && c.opts.Timeout > 0 {
			err = fmt.Errorf("%w after %s", ErrTimedOut, c.opts.Timeout)
		}
		entry.WithError(err).Debug("winget failed to run")
		return res, err
	}
	entry.WithField("exit_code", res.ExitCode).Debug("winget finished")
	return res, nil
}
