package system

import (
	"fmt"
	"strings"
)

// CollectErrorKind identifies which collection stage failed. The set is
// closed; callers match on the kind instead of parsing error strings.
type CollectErrorKind int

const (
	// CollectHostname - The OS hostname query failed
	CollectHostname CollectErrorKind = iota
	// CollectKernelStats - The sysinfo syscall failed
	CollectKernelStats
	// CollectMeminfo - /proc/meminfo was unreadable or incomplete
	CollectMeminfo
	// CollectDiskStats - statfs on the root mount failed
	CollectDiskStats
)

func (kind CollectErrorKind) String() string {
	switch kind {
	case CollectHostname:
		return "failed to get hostname"
	case CollectKernelStats:
		return "failed to get kernel stats"
	case CollectMeminfo:
		return "failed to parse meminfo"
	case CollectDiskStats:
		return "failed to get disk stats"
	}
	return "failed to collect system stats"
}

// CollectError - A single failed collection attempt. The cycle it belongs to
// is abandoned; the next tick starts over with a fresh attempt.
type CollectError struct {
	Kind  CollectErrorKind
	Cause error
}

func (e *CollectError) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Cause)
}

func (e *CollectError) Unwrap() error {
	return e.Cause
}

// MeminfoIncompleteError - /proc/meminfo was read to the end but one or more
// of the required fields never appeared.
type MeminfoIncompleteError struct {
	Missing []string
}

func (e *MeminfoIncompleteError) Error() string {
	return fmt.Sprintf("missing fields in /proc/meminfo: %s", strings.Join(e.Missing, ", "))
}
