package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned synchronously to callers before a job exists.
var (
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrJobNotFound         = errors.New("job not found")
	ErrInsufficientSamples = errors.New("insufficient color samples")
)

// EncoderLaunchError indicates the encoder binary could not be started at
// all (missing binary, permissions). It terminates the job immediately.
type EncoderLaunchError struct {
	Binary string
	Err    error
}

func (e *EncoderLaunchError) Error() string {
	return fmt.Sprintf("failed to launch encoder %q: %v", e.Binary, e.Err)
}

func (e *EncoderLaunchError) Unwrap() error { return e.Err }

// EncoderRuntimeError indicates the encoder exited with a non-zero code.
// LogTail carries the last diagnostic lines for failure context.
type EncoderRuntimeError struct {
	ExitCode int
	LogTail  []string
}

func (e *EncoderRuntimeError) Error() string {
	if len(e.LogTail) == 0 {
		return fmt.Sprintf("encoder exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("encoder exited with code %d: %s", e.ExitCode, strings.Join(e.LogTail, " | "))
}
