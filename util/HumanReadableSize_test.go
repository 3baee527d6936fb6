package util

import "testing"

func TestHumanReadableSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{name: "zero", size: 0, want: "0 B"},
		{name: "bytes", size: 512, want: "512 B"},
		{name: "just below a kilobyte", size: 1023, want: "1023 B"},
		{name: "exact kilobyte", size: 1024, want: "1.0 KB"},
		{name: "fractional kilobytes", size: 1536, want: "1.5 KB"},
		{name: "just below a megabyte", size: 1048575, want: "1024.0 KB"},
		{name: "exact megabyte", size: 1048576, want: "1.0 MB"},
		{name: "fractional megabytes", size: 2621440, want: "2.5 MB"},
		{name: "just below a gigabyte", size: 1073741823, want: "1024.0 MB"},
		{name: "exact gigabyte", size: 1073741824, want: "1.0 GB"},
		{name: "fractional gigabytes", size: 1610612736, want: "1.5 GB"},
		{name: "exact terabyte", size: 1099511627776, want: "1.0 TB"},
		{name: "hundreds of terabytes", size: 109951162777600, want: "100.0 TB"},
		// TB is the largest unit, so a petabyte renders as 1024.0 TB.
		{name: "beyond terabytes stays in TB", size: 1125899906842624, want: "1024.0 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HumanReadableSize(tt.size); got != tt.want {
				t.Errorf("HumanReadableSize(%d) = %q, want %q", tt.size, got, tt.want)
			}
		})
	}
}

func TestHumanReadableSizeNegative(t *testing.T) {
	// Negative sizes never occur from os.Stat but must not panic or render
	// empty.
	if got := HumanReadableSize(-1024); got != "-1024 B" {
		t.Errorf("HumanReadableSize(-1024) = %q, want %q", got, "-1024 B")
	}
}
