package filesystem

import (
	"fmt"
	"strconv"
)

// ParseSize parses a size string to bytes: a plain integer, or an integer
// followed by one of K, M or G (powers of 1024).
func ParseSize(sizeStr string) (int64, error) {
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var multiplier int64 = 1
	switch sizeStr[len(sizeStr)-1] {
	case 'K', 'k':
		multiplier = 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	case 'M', 'm':
		multiplier = 1024 * 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	case 'G', 'g':
		multiplier = 1024 * 1024 * 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	}

	size, err := strconv.ParseInt(sizeStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size string %q: %w", sizeStr, err)
	}
	if size < 0 {
		return 0, fmt.Errorf("negative size %q", sizeStr)
	}

	return size * multiplier, nil
}

// FormatSize renders a byte count with one decimal place and the largest
// fitting unit out of b, K, M and G.
func FormatSize(size int64) string {
	units := []string{"b", "K", "M", "G"}

	value := float64(size)
	unit := 0
	for unit < len(units)-1 && value >= 1024 {
		value /= 1024
		unit++
	}

	return fmt.Sprintf("%.1f%s", value, units[unit])
}
