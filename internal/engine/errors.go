package engine

import "fmt"

// ConfigError reports invalid construction parameters. It is returned by New
// before any buffer is allocated.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("engine config: %s: %s", e.Field, e.Reason)
}

// CompileError reports a kernel that failed to specialize. It is fatal: the
// pipeline loader surfaces it before any simulation dispatch and the engine
// cannot proceed in a degraded mode.
type CompileError struct {
	Kernel string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile kernel %q: %v", e.Kernel, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// DispatchError reports a dispatch that failed to execute. There is no retry
// path; a failed dispatch terminates the run.
type DispatchError struct {
	Kernel string
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch kernel %q: %v", e.Kernel, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
