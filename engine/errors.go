package engine

import (
	"errors"
	"fmt"
)

// ErrAborted signals that the subject pressed the abort key (or closed the
// window). It is not a failure: the current trial is discarded and the
// session loop stops gracefully, keeping the results collected so far.
var ErrAborted = errors.New("session aborted by subject")

// ConfigError reports an invalid experimental parameter. It is raised before
// any trial runs.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

// DeviceError reports a failure to acquire a display or audio resource.
type DeviceError struct {
	Device string
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s device: %v", e.Device, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }
