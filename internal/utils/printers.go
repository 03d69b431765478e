package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"
)

// --- Utility Functions ---

func DetectLocalIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String(), nil
		}
	}
	return "", fmt.Errorf("no local IPv4 address found")
}

// ParsePort accepts JSON numbers, numeric strings and raw JSON values. The
// value must be an integer in [1, 65535]; anything else reports false.
func ParsePort(value any) (int, bool) {
	var n float64
	switch v := value.(type) {
	case nil:
		return 0, false
	case int:
		n = float64(v)
	case float64:
		n = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	case json.RawMessage:
		if len(v) == 0 {
			return 0, false
		}
		var decoded any
		if err := json.Unmarshal(v, &decoded); err != nil {
			return 0, false
		}
		return ParsePort(decoded)
	default:
		return 0, false
	}

	if n != math.Trunc(n) || n < 1 || n > 65535 {
		return 0, false
	}
	return int(n), true
}

// FirstValidPort returns the first candidate ParsePort accepts, or fallback.
func FirstValidPort(fallback int, candidates ...any) int {
	for _, c := range candidates {
		if port, ok := ParsePort(c); ok {
			return port
		}
	}
	return fallback
}
