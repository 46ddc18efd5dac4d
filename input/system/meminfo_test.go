package system

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseMeminfo(t *testing.T) {
	type testItem struct {
		name     string
		input    string
		expected meminfoStats
	}

	tests := []testItem{
		{
			name: "kernel order",
			input: "MemTotal:       16326228 kB\n" +
				"MemFree:         8196560 kB\n" +
				"MemAvailable:   12074924 kB\n" +
				"Buffers:          244180 kB\n" +
				"Cached:          3740648 kB\n" +
				"SwapCached:            0 kB\n" +
				"SReclaimable:     377112 kB\n" +
				"SUnreclaim:        96376 kB\n",
			expected: meminfoStats{cachedKiB: 3740648, availableKiB: 12074924, reclaimableKiB: 377112},
		},
		{
			name: "arbitrary order",
			input: "SReclaimable:     377112 kB\n" +
				"Cached:          3740648 kB\n" +
				"MemAvailable:   12074924 kB\n",
			expected: meminfoStats{cachedKiB: 3740648, availableKiB: 12074924, reclaimableKiB: 377112},
		},
		{
			name: "fields after the required ones are ignored",
			input: "Cached:  100 kB\n" +
				"MemAvailable:  200 kB\n" +
				"SReclaimable:  300 kB\n" +
				"garbage that is not a meminfo line\n",
			expected: meminfoStats{cachedKiB: 100, availableKiB: 200, reclaimableKiB: 300},
		},
		{
			name: "SwapCached does not count as Cached",
			input: "SwapCached:  999 kB\n" +
				"Cached:  100 kB\n" +
				"MemAvailable:  200 kB\n" +
				"SReclaimable:  300 kB\n",
			expected: meminfoStats{cachedKiB: 100, availableKiB: 200, reclaimableKiB: 300},
		},
	}

	for _, item := range tests {
		stats, err := parseMeminfo(strings.NewReader(item.input))
		if err != nil {
			t.Errorf("%s: unexpected error: %s", item.name, err)
			continue
		}
		if stats != item.expected {
			t.Errorf("%s:\n\texpected %+v\n\tactual %+v", item.name, item.expected, stats)
		}
	}
}

func TestParseMeminfoIncomplete(t *testing.T) {
	type testItem struct {
		input   string
		missing string
	}

	tests := []testItem{
		{"Cached: 100 kB\nMemAvailable: 200 kB\n", "SReclaimable"},
		{"Cached: 100 kB\nSReclaimable: 300 kB\n", "MemAvailable"},
		{"MemAvailable: 200 kB\nSReclaimable: 300 kB\n", "Cached"},
		{"", "Cached, MemAvailable, SReclaimable"},
	}

	for _, item := range tests {
		_, err := parseMeminfo(strings.NewReader(item.input))
		if err == nil {
			t.Errorf("input %q: expected error, got none", item.input)
			continue
		}
		var incomplete *MeminfoIncompleteError
		if !errors.As(err, &incomplete) {
			t.Errorf("input %q: expected MeminfoIncompleteError, got %T (%s)", item.input, err, err)
			continue
		}
		if joined := strings.Join(incomplete.Missing, ", "); joined != item.missing {
			t.Errorf("input %q: expected missing fields %q, got %q", item.input, item.missing, joined)
		}
	}
}

func TestReadMeminfoUnreadable(t *testing.T) {
	_, err := readMeminfo(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected error for unreadable file, got none")
	}

	var incomplete *MeminfoIncompleteError
	if errors.As(err, &incomplete) {
		t.Errorf("I/O failure must not be reported as incomplete content, got %s", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os error, got %s", err)
	}
}

func TestSplitMeminfoLine(t *testing.T) {
	type testItem struct {
		line  string
		key   string
		value uint64
		ok    bool
	}

	tests := []testItem{
		{"Cached:          3740648 kB", "Cached", 3740648, true},
		{"HugePages_Total:       0", "HugePages_Total", 0, true},
		{"no colon here", "", 0, false},
		{"Odd: value kB", "", 0, false},
		{": 123 kB", "", 0, false},
	}

	for _, item := range tests {
		key, value, ok := splitMeminfoLine(item.line)
		if key != item.key || value != item.value || ok != item.ok {
			t.Errorf("line %q: expected (%q, %d, %v), got (%q, %d, %v)",
				item.line, item.key, item.value, item.ok, key, value, ok)
		}
	}
}
