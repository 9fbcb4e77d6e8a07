package scorer

import "fmt"

// ProcessError reports an engine process that did not exit cleanly. ExitCode
// is the process exit status, or -1 when the process never reached a normal
// exit (start failure, context cancellation). Stderr carries whatever the
// engine wrote to its diagnostic stream, which is the only place the
// engines explain themselves.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Timeout  bool
}

func (e *ProcessError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("scoring engine timed out (exit code %d)", e.ExitCode)
	}
	return fmt.Sprintf("scoring engine exited with code %d", e.ExitCode)
}

// MalformedOutputError reports a zero-exit engine whose stdout was not a
// valid result document. Raw retains the offending output for logging.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("scoring engine produced malformed output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }
