package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSetup marks failures that make a run impossible: unreachable store,
	// missing catalog database, held run lock. A run that hits one exits non-zero.
	ErrSetup = errors.New("setup error")
	// ErrReconcile marks a failed roster reconciliation. Fatal outside
	// single-artist mode.
	ErrReconcile = errors.New("reconciliation error")
	// ErrTransient marks per-artist network or server failures. The next
	// scheduled run is the retry mechanism.
	ErrTransient = errors.New("transient fetch error")
	// ErrMalformed marks an unparseable response payload.
	ErrMalformed = errors.New("malformed response")
	// ErrNotification marks a failed notification send. The release stays
	// unnotified and is re-attempted on the next run.
	ErrNotification = errors.New("notification error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error should abort the run and fail the process.
func Fatal(err error) bool {
	return errors.Is(err, ErrSetup) || errors.Is(err, ErrReconcile)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
