package domain

import (
	"strconv"
	"strings"
)

// SuffixOption selects how a colliding name is disambiguated.
type SuffixOption int

const (
	// StripNumericSuffixAndIncrement turns "Foo 3" into the first free "Foo N".
	StripNumericSuffixAndIncrement SuffixOption = iota
	// AddCopySuffix appends " (Copy)", then " (Copy 2)" and so on.
	AddCopySuffix
)

func (o SuffixOption) String() string {
	switch o {
	case StripNumericSuffixAndIncrement:
		return "strip-numeric-suffix-and-increment"
	case AddCopySuffix:
		return "add-copy-suffix"
	default:
		return "unknown"
	}
}

const copyMarker = "Copy"

// UniqueName returns a name absent from existing. With
// StripNumericSuffixAndIncrement a free name is returned unchanged; with
// AddCopySuffix the result is always decorated. At most len(existing)+1
// candidates are probed.
func UniqueName(name string, existing []string, opt SuffixOption) string {
	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[n] = struct{}{}
	}
	free := func(n string) bool {
		_, ok := taken[n]
		return !ok
	}

	switch opt {
	case AddCopySuffix:
		for i := 1; i <= len(existing)+1; i++ {
			candidate := name + " (" + copyMarker + ")"
			if i > 1 {
				candidate = name + " (" + copyMarker + " " + strconv.Itoa(i) + ")"
			}
			if free(candidate) {
				return candidate
			}
		}
	default:
		if free(name) {
			return name
		}
		base := StripNumericSuffix(name)
		for i := 1; i <= len(existing)+1; i++ {
			candidate := base + " " + strconv.Itoa(i)
			if free(candidate) {
				return candidate
			}
		}
	}
	// unreachable: len(existing)+1 distinct candidates cannot all be taken
	return name
}

// StripNumericSuffix removes a trailing " <digits>" from name.
func StripNumericSuffix(name string) string {
	i := strings.LastIndexByte(name, ' ')
	if i <= 0 || i == len(name)-1 {
		return name
	}
	for _, r := range name[i+1:] {
		if r < '0' || r > '9' {
			return name
		}
	}
	return name[:i]
}
