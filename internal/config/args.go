package config

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUsage = errors.New("config: too many arguments")

// ServerUsage and ClientUsage are the one-line usage messages.
func ServerUsage(prog string) string {
	return fmt.Sprintf("Usage: %s [port]", prog)
}

func ClientUsage(prog string) string {
	return fmt.Sprintf("Usage: %s [server_ip] [port]", prog)
}

// ApplyServerArgs applies the optional [port] argument. An unusable port is
// ignored and reported through fallback, leaving the configured port.
func ApplyServerArgs(cfg *Config, t Transport, args []string) (fallback bool, err error) {
	switch len(args) {
	case 0:
		return false, nil
	case 1:
		port, ok := ParsePort(args[0])
		if !ok {
			return true, nil
		}
		cfg.Server.SetPort(t, port)
		return false, nil
	default:
		return false, ErrUsage
	}
}

// ApplyClientArgs applies the optional [server_ip] [port] arguments.
func ApplyClientArgs(cfg *Config, t Transport, args []string) (fallback bool, err error) {
	if len(args) > 2 {
		return false, ErrUsage
	}
	if len(args) >= 1 {
		cfg.Client.ServerIP = strings.TrimSpace(args[0])
	}
	if len(args) == 2 {
		port, ok := ParsePort(args[1])
		if !ok {
			return true, nil
		}
		cfg.Client.SetPort(t, port)
	}
	return false, nil
}

// ParsePort reads a port the way atoi does: optional leading whitespace and
// sign, then the longest run of digits. Anything yielding a value outside
// 1..65535 is rejected.
func ParsePort(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 65535 {
			return 0, false
		}
	}
	if neg {
		n = -n
	}
	if !ValidPort(n) {
		return 0, false
	}
	return n, true
}
