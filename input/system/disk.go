package system

import (
	"golang.org/x/sys/unix"

	"github.com/obreport/collector/state"
)

func readDiskStats(mountpoint string) (state.DiskStats, error) {
	var fs unix.Statfs_t
	if err := unix.Statfs(mountpoint, &fs); err != nil {
		return state.DiskStats{}, err
	}

	return deriveDisk(fs.Blocks, fs.Bfree, fs.Bavail, int64(fs.Frsize)), nil
}

// deriveDisk converts block counts to KiB using the filesystem fragment size,
// the same unit df(1) reports. Used is total minus free by construction.
func deriveDisk(blocks, bfree, bavail uint64, frsize int64) state.DiskStats {
	total := int64(blocks) * frsize / 1024
	free := int64(bfree) * frsize / 1024
	available := int64(bavail) * frsize / 1024
	used := total - free

	// An empty or pseudo filesystem reports zero blocks; report zero usage
	// instead of dividing by it
	var usagePercent float64
	if total > 0 {
		usagePercent = float64(used) * 100.0 / float64(total)
	}

	return state.DiskStats{
		TotalKiB:     total,
		FreeKiB:      free,
		UsedKiB:      used,
		AvailableKiB: available,
		UsagePercent: usagePercent,
	}
}
