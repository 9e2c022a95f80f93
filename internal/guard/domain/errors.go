package domain

import (
	"errors"
	"fmt"
)

// ErrChallengeFailed is returned by the unblock gate when the typed sequence
// does not match. The filesystem is never touched after this error.
var ErrChallengeFailed = errors.New("challenge failed: incorrect sequence entered")

// InvalidDomainError reports user input that normalizes to an empty string.
type InvalidDomainError struct {
	Input string
}

func (e *InvalidDomainError) Error() string {
	return fmt.Sprintf("invalid domain name: %q", e.Input)
}

// UnsupportedOSError reports a platform with no known hosts-file location.
type UnsupportedOSError struct {
	OS string
}

func (e *UnsupportedOSError) Error() string {
	return fmt.Sprintf("could not determine hosts file path for this operating system: %s", e.OS)
}

// PermissionError reports a permission failure on the hosts file. It is the
// single most actionable failure for the end user, so it is kept distinct
// from generic I/O errors and carries the path.
type PermissionError struct {
	Path string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied accessing hosts file at %q: root/administrator privileges are required", e.Path)
}

// ReadError reports a failure reading a file. Cause holds the underlying
// error text captured at the point of failure.
type ReadError struct {
	Path  string
	Cause string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read hosts file at %q: %s", e.Path, e.Cause)
}

// WriteError reports a failure writing or replacing a file. Cause holds the
// underlying error text captured at the point of failure.
type WriteError struct {
	Path  string
	Cause string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write hosts file at %q: %s", e.Path, e.Cause)
}
