package addressparams

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/params"
)

const (
	// HardenedBit marks a hardened derivation level.
	HardenedBit uint32 = 0x80000000

	// MinPathLength is the shortest derivation path accepted for address parameters.
	MinPathLength = 3
)

// Path is a BIP-32 derivation path with hardened levels carrying HardenedBit.
type Path []uint32

// Levels returns the path as a non-nil slice.
func (p Path) Levels() []uint32 {
	if p == nil {
		return []uint32{}
	}
	return append([]uint32{}, p...)
}

func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, n := range p {
		sb.WriteString("/")
		if n&HardenedBit != 0 {
			sb.WriteString(strconv.FormatUint(uint64(n&^HardenedBit), 10))
			sb.WriteString("'")
			continue
		}
		sb.WriteString(strconv.FormatUint(uint64(n), 10))
	}
	return sb.String()
}

// PathError describes why a derivation path was rejected.
type PathError struct {
	Reason string
}

func (e *PathError) Error() string { return "invalid path: " + e.Reason }

// ParsePath accepts "m/1852'/1815'/0'/0/0" style strings (h and H also mark
// hardened levels) or a list of numeric levels.
func ParsePath(v any) (Path, error) {
	var p Path
	var err error
	switch val := v.(type) {
	case string:
		p, err = parsePathString(val)
	case []uint32:
		p = append(Path{}, val...)
	case []any:
		p, err = parsePathList(val)
	default:
		return nil, &PathError{Reason: "is not a valid path, string or array expected"}
	}
	if err != nil {
		return nil, err
	}
	if len(p) < MinPathLength {
		return nil, &PathError{Reason: fmt.Sprintf("is not a valid path, at least %d levels expected", MinPathLength)}
	}
	return p, nil
}

func parsePathString(s string) (Path, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) > 0 && strings.EqualFold(parts[0], "m") {
		parts = parts[1:]
	}
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		hardened := false
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") || strings.HasSuffix(part, "H") {
			hardened = true
			part = part[:len(part)-1]
		}
		n, err := strconv.ParseUint(part, 10, 31)
		if err != nil {
			return nil, &PathError{Reason: fmt.Sprintf("is not a valid path, level %q", part)}
		}
		level := uint32(n)
		if hardened {
			level |= HardenedBit
		}
		p = append(p, level)
	}
	return p, nil
}

func parsePathList(list []any) (Path, error) {
	p := make(Path, 0, len(list))
	for i, v := range list {
		n, ok := params.AsUint(v)
		if !ok || n > uint64(^uint32(0)) {
			return nil, &PathError{Reason: fmt.Sprintf("is not a valid path, level %d", i)}
		}
		p = append(p, uint32(n))
	}
	return p, nil
}
