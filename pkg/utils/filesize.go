package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	B  = 1
	KB = 1024 * B
	MB = 1024 * KB
	GB = 1024 * MB
	TB = 1024 * GB
)

var byteUnits = []struct {
	size int64
	name string
}{
	{TB, "TB"},
	{GB, "GB"},
	{MB, "MB"},
	{KB, "KB"},
}

// FormatBytes renders n with two decimals in the largest unit that fits,
// e.g. "1.50 GB". Negative sizes render as "0 B".
func FormatBytes(n int64) string {
	if n < 0 {
		return "0 B"
	}
	for _, u := range byteUnits {
		if n >= u.size {
			return fmt.Sprintf("%.2f %s", float64(n)/float64(u.size), u.name)
		}
	}
	return fmt.Sprintf("%d B", n)
}

// ParseSize converts a human-readable size such as "100MB", "1.5 GB" or
// "4096" into bytes. A bare number is taken as bytes.
func ParseSize(size string) (int64, error) {
	s := strings.TrimSpace(size)
	if s == "" {
		return 0, fmt.Errorf("invalid size format: %q", size)
	}

	// Split the numeric prefix from the unit suffix
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.' || s[i] == '-' || s[i] == '+') {
		i++
	}
	number, unit := s[:i], strings.ToUpper(strings.TrimSpace(s[i:]))

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size format: %q", size)
	}
	if value < 0 {
		return 0, fmt.Errorf("size must not be negative: %q", size)
	}

	switch unit {
	case "", "B":
		return int64(value), nil
	case "KB", "K", "KIB":
		value *= KB
	case "MB", "M", "MIB":
		value *= MB
	case "GB", "G", "GIB":
		value *= GB
	case "TB", "T", "TIB":
		value *= TB
	default:
		return 0, fmt.Errorf("unknown size unit %q in %q", unit, size)
	}
	return int64(value), nil
}

// EntrySize returns the on-disk size of path. Directories are summed
// recursively without following symlinks; unreadable children count as zero.
func EntrySize(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var total int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			if fi, err := d.Info(); err == nil {
				total += fi.Size()
			}
		}
		return nil
	})
	return total, nil
}
