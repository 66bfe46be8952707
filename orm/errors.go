package orm

import "fmt"

// ConfigurationError reports invalid or missing adapter settings. It is
// raised from the accessors on every call, never cached.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
	}
	return "configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// BootstrapError wraps any failure inside Load under a single error type.
// Callers distinguish sub-causes by message or wrapped cause, not by the
// type of the original failure.
type BootstrapError struct {
	Step string
	Err  error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap failed at %s: %v", e.Step, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }
