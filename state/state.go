package state

// SystemSnapshot - Statistics collected in a single cycle. Constructed fresh
// on every tick from live OS queries and discarded after serialization.
type SystemSnapshot struct {
	Hostname      string
	UptimeSeconds int64

	Memory MemoryStats
	Disk   DiskStats
}

// MemoryStats - Memory figures in KiB, following the accounting convention of
// the free(1) utility: reclaimable slab and buffer memory count as cached, and
// used is what remains after cached and free are taken out of total.
type MemoryStats struct {
	TotalKiB     uint64
	UsedKiB      uint64
	FreeKiB      uint64
	SharedKiB    uint64
	CachedKiB    uint64
	AvailableKiB uint64
}

// DiskStats - Usage of the filesystem mounted at "/", in KiB. Used is derived
// as total minus free rather than measured independently.
type DiskStats struct {
	TotalKiB     int64
	FreeKiB      int64
	UsedKiB      int64
	AvailableKiB int64
	UsagePercent float64
}

// CollectionOpts - Run-wide options determined from command line flags.
type CollectionOpts struct {
	SubmitCollectedData bool
	TestRun             bool
}
