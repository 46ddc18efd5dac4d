package system

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// meminfoStats - The three /proc/meminfo fields that sysinfo(2) does not
// report, all in KiB as printed by the kernel.
type meminfoStats struct {
	cachedKiB      uint64
	availableKiB   uint64
	reclaimableKiB uint64
}

func readMeminfo(path string) (meminfoStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return meminfoStats{}, errors.Wrap(err, "failed to open meminfo")
	}
	defer f.Close()

	return parseMeminfo(f)
}

// parseMeminfo scans for Cached, MemAvailable and SReclaimable. The kernel
// does not guarantee field order, so the whole file is scanned until all
// three have been seen.
func parseMeminfo(r io.Reader) (meminfoStats, error) {
	var stats meminfoStats
	var seenCached, seenAvailable, seenReclaimable bool

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := splitMeminfoLine(scanner.Text())
		if !ok {
			continue
		}

		switch key {
		case "Cached":
			stats.cachedKiB = value
			seenCached = true
		case "MemAvailable":
			stats.availableKiB = value
			seenAvailable = true
		case "SReclaimable":
			stats.reclaimableKiB = value
			seenReclaimable = true
		}

		if seenCached && seenAvailable && seenReclaimable {
			return stats, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return meminfoStats{}, errors.Wrap(err, "failed to read meminfo")
	}

	var missing []string
	if !seenCached {
		missing = append(missing, "Cached")
	}
	if !seenAvailable {
		missing = append(missing, "MemAvailable")
	}
	if !seenReclaimable {
		missing = append(missing, "SReclaimable")
	}
	return meminfoStats{}, &MeminfoIncompleteError{Missing: missing}
}

// splitMeminfoLine takes a line like "Cached:  1107828 kB" apart. Exact key
// matching matters here: "Cached" must not pick up "SwapCached".
func splitMeminfoLine(line string) (key string, value uint64, ok bool) {
	colon := -1
	for i := 0; i < len(line); i++ {
		if line[i] == ':' {
			colon = i
			break
		}
	}
	if colon <= 0 {
		return "", 0, false
	}
	key = line[:colon]

	rest := line[colon+1:]
	start := 0
	for start < len(rest) && (rest[start] == ' ' || rest[start] == '\t') {
		start++
	}
	end := start
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == start {
		return "", 0, false
	}

	value, err := strconv.ParseUint(rest[start:end], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return key, value, true
}
