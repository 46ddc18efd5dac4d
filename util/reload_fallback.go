//go:build !darwin && !linux && !freebsd

package util

import (
	"errors"
)

func Reload() (reloadedPid int, err error) {
	return -1, errors.New("the reload command is only supported on POSIX systems")
}
