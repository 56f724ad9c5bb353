package launcher

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"slices"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/kula-app/m3u-proxy-entrypoint/internal/config"
)

// ExecFunc replaces the current process image, see execve(2).
// It only returns on failure.
type ExecFunc func(argv0 string, argv []string, envv []string) error

// ExitError is returned when the entrypoint must stop with a specific exit code
// instead of handing off to the proxy
type ExitError struct {
	Code   int
	Signal os.Signal
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("received %s before launch, exiting with code %d", e.Signal, e.Code)
}

// TrapSignals starts catching SIGINT and SIGTERM so that a signal delivered
// before the hand-off results in a conventional exit code. Once the process
// image is replaced the new program installs its own handlers. The returned
// stop function restores default handling.
func TrapSignals() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, unix.SIGINT, unix.SIGTERM)
	return ch, func() { signal.Stop(ch) }
}

// ExitCodeForSignal maps a termination signal to the shell convention 128+n
func ExitCodeForSignal(sig os.Signal) int {
	if s, ok := sig.(unix.Signal); ok {
		return 128 + int(s)
	}
	return 1
}

// Launcher hands the process over to the proxy binary
type Launcher struct {
	logger *slog.Logger

	// Exec performs the process replacement
	Exec ExecFunc

	// LookPath resolves the binary name to an executable path
	LookPath func(file string) (string, error)

	// Environ returns the environment passed to the new process image
	Environ func() []string

	// Signals delivers trapped signals, may be nil
	Signals <-chan os.Signal
}

// NewLauncher creates a launcher that replaces the current process via execve(2)
func NewLauncher(logger *slog.Logger, signals <-chan os.Signal) *Launcher {
	return &Launcher{
		logger:   logger,
		Exec:     unix.Exec,
		LookPath: exec.LookPath,
		Environ:  os.Environ,
		Signals:  signals,
	}
}

// Launch replaces the current process with binary, passing the synthesized
// arguments followed by the caller's arguments verbatim. On success it never
// returns; signals go straight to the new image since no parent remains.
func (l *Launcher) Launch(binary string, synthesized, callerArgs []string) error {
	if err := l.checkSignals(); err != nil {
		return err
	}

	path, err := l.LookPath(binary)
	if err != nil {
		return fmt.Errorf("failed to resolve executable %q: %w", binary, err)
	}

	argv := make([]string, 0, 1+len(synthesized)+len(callerArgs))
	argv = append(argv, binary)
	argv = append(argv, synthesized...)
	argv = append(argv, callerArgs...)

	l.logger.Info("launching m3u-proxy",
		"path", path,
		"args", redactArgs(argv[1:]))

	if err := l.checkSignals(); err != nil {
		return err
	}

	if err := l.Exec(path, argv, l.Environ()); err != nil {
		return fmt.Errorf("failed to exec %q: %w", path, err)
	}
	return nil
}

// redactArgs returns a copy of args safe for logging, with the password in
// any database URL hidden
func redactArgs(args []string) []string {
	const long, short = "--database-url", "-d"
	out := slices.Clone(args)
	for i, arg := range out {
		switch {
		case (arg == long || arg == short) && i+1 < len(out):
			out[i+1] = config.RedactURL(out[i+1])
		case strings.HasPrefix(arg, long+"="):
			out[i] = long + "=" + config.RedactURL(strings.TrimPrefix(arg, long+"="))
		}
	}
	return out
}

func (l *Launcher) checkSignals() error {
	if l.Signals == nil {
		return nil
	}
	select {
	case sig := <-l.Signals:
		l.logger.Warn("signal received before launch, aborting", "signal", sig.String())
		return &ExitError{Code: ExitCodeForSignal(sig), Signal: sig}
	default:
		return nil
	}
}
