package system

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/obreport/collector/state"
)

var procMeminfoPath = "/proc/meminfo"

const rootMountpoint = "/"

// kernelStats - Raw counters from sysinfo(2). RAM figures are page counts
// that still need to be scaled by the memory unit size.
type kernelStats struct {
	uptime    int64
	totalRAM  uint64
	freeRAM   uint64
	sharedRAM uint64
	bufferRAM uint64
	unit      uint32
}

// Collect produces one snapshot from live OS queries. A single best-effort
// attempt: no retries here, the cycle loop decides what a failure means.
func Collect() (state.SystemSnapshot, error) {
	var snapshot state.SystemSnapshot

	hostname, err := os.Hostname()
	if err != nil {
		return snapshot, &CollectError{Kind: CollectHostname, Cause: err}
	}
	snapshot.Hostname = hostname

	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return snapshot, &CollectError{Kind: CollectKernelStats, Cause: err}
	}
	kernel := kernelStats{
		uptime:    int64(si.Uptime),
		totalRAM:  uint64(si.Totalram),
		freeRAM:   uint64(si.Freeram),
		sharedRAM: uint64(si.Sharedram),
		bufferRAM: uint64(si.Bufferram),
		unit:      si.Unit,
	}
	snapshot.UptimeSeconds = kernel.uptime

	meminfo, err := readMeminfo(procMeminfoPath)
	if err != nil {
		return snapshot, &CollectError{Kind: CollectMeminfo, Cause: err}
	}
	snapshot.Memory = deriveMemory(kernel, meminfo)

	disk, err := readDiskStats(rootMountpoint)
	if err != nil {
		return snapshot, &CollectError{Kind: CollectDiskStats, Cause: err}
	}
	snapshot.Disk = disk

	return snapshot, nil
}

// deriveMemory combines the sysinfo counters with the meminfo fields into the
// free(1) accounting convention: buffers and reclaimable slab count as
// cached, used is total minus cached and free. MemAvailable is the kernel's
// own estimate and is passed through untouched.
func deriveMemory(kernel kernelStats, meminfo meminfoStats) state.MemoryStats {
	unit := uint64(kernel.unit)
	if unit == 0 {
		// pre-2.4 kernels report sizes in bytes and leave mem_unit zero
		unit = 1
	}
	toKiB := func(pages uint64) uint64 {
		return pages * unit / 1024
	}

	total := toKiB(kernel.totalRAM)
	free := toKiB(kernel.freeRAM)
	cached := meminfo.cachedKiB + meminfo.reclaimableKiB + toKiB(kernel.bufferRAM)

	var used uint64
	if cached+free <= total {
		used = total - (cached + free)
	}

	return state.MemoryStats{
		TotalKiB:     total,
		UsedKiB:      used,
		FreeKiB:      free,
		SharedKiB:    toKiB(kernel.sharedRAM),
		CachedKiB:    cached,
		AvailableKiB: meminfo.availableKiB,
	}
}
