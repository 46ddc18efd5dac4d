package output

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/obreport/collector/state"
)

// The wire schema of one report. encoding/json emits struct fields in
// declaration order, which keeps the document byte-identical for the same
// snapshot run to run. All sizes are KiB.

type memoryReport struct {
	Total     uint64 `json:"total"`
	Used      uint64 `json:"used"`
	Free      uint64 `json:"free"`
	Shared    uint64 `json:"shared"`
	Cached    uint64 `json:"cached"`
	Available uint64 `json:"available"`
}

type diskReport struct {
	Total           int64   `json:"total"`
	Free            int64   `json:"free"`
	Used            int64   `json:"used"`
	Available       int64   `json:"available"`
	UsagePercentage float64 `json:"usage_percentage"`
}

type report struct {
	Hostname string       `json:"hostname"`
	Uptime   int64        `json:"uptime"`
	Memory   memoryReport `json:"memory"`
	Disk     diskReport   `json:"disk"`
}

// Serialize renders a snapshot as the pretty-printed JSON document the
// collector endpoint expects.
func Serialize(snapshot state.SystemSnapshot) ([]byte, error) {
	data, err := json.MarshalIndent(report{
		Hostname: snapshot.Hostname,
		Uptime:   snapshot.UptimeSeconds,
		Memory: memoryReport{
			Total:     snapshot.Memory.TotalKiB,
			Used:      snapshot.Memory.UsedKiB,
			Free:      snapshot.Memory.FreeKiB,
			Shared:    snapshot.Memory.SharedKiB,
			Cached:    snapshot.Memory.CachedKiB,
			Available: snapshot.Memory.AvailableKiB,
		},
		Disk: diskReport{
			Total:           snapshot.Disk.TotalKiB,
			Free:            snapshot.Disk.FreeKiB,
			Used:            snapshot.Disk.UsedKiB,
			Available:       snapshot.Disk.AvailableKiB,
			UsagePercentage: snapshot.Disk.UsagePercent,
		},
	}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize snapshot")
	}
	return data, nil
}
