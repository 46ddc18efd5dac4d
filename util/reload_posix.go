//go:build linux || freebsd || darwin

package util

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	ps "github.com/keybase/go-ps"
)

func reloadPid(pid int) error {
	kill, err := exec.LookPath("kill")
	if err != nil {
		return err
	}
	cmd := exec.Command(kill, "-s", "HUP", strconv.Itoa(pid))
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Reload finds the running collector daemon and asks it to re-read its
// configuration by sending SIGHUP.
func Reload() (reloadedPid int, err error) {
	processes, err := ps.Processes()
	if err != nil {
		return -1, fmt.Errorf("could not read process list: %s", err)
	}
	for _, p := range processes {
		if p.Executable() == "obreport-collector" && p.Pid() != os.Getpid() {
			err := reloadPid(p.Pid())
			if err != nil {
				return -1, fmt.Errorf("could not send SIGHUP to process: %s", err)
			}
			return p.Pid(), nil
		}
	}
	return -1, errors.New("could not find a running obreport-collector process")
}
