package system

import (
	"fmt"

	"github.com/shirou/gopsutil/host"
)

// DescribeHost returns a one-line summary of the platform the daemon runs on,
// logged once at startup to make remote-side debugging easier.
func DescribeHost() string {
	info, err := host.Info()
	if err != nil {
		return "unknown platform"
	}

	desc := fmt.Sprintf("%s (%s %s)", info.OS, info.Platform, info.PlatformVersion)
	if info.VirtualizationRole == "guest" && info.VirtualizationSystem != "" {
		desc += fmt.Sprintf(", virtualized on %s", info.VirtualizationSystem)
	}
	return desc
}
