package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/calcnet/internal/protocol"
)

const (
	DefaultTCPPort  = 6000
	DefaultUDPPort  = 6001
	DefaultServerIP = "127.0.0.1"
)

// Transport selects which port of a section applies.
type Transport string

const (
	TCP Transport = "tcp"
	UDP Transport = "udp"
)

type Config struct {
	WireLayout string
	Server     ServerConfig
	Client     ClientConfig
}

type ServerConfig struct {
	BindHost     string
	TCPPort      int
	UDPPort      int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AdminAddr    string
	CorsOrigins  []string
}

type ClientConfig struct {
	ServerIP     string
	TCPPort      int
	UDPPort      int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FieldError names the config key that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

var ErrInvalid = errors.New("config: invalid")

func (e *FieldError) Unwrap() error {
	return ErrInvalid
}

func Default() Config {
	return Config{
		WireLayout: protocol.LayoutNetwork,
		Server: ServerConfig{
			TCPPort:     DefaultTCPPort,
			UDPPort:     DefaultUDPPort,
			CorsOrigins: []string{},
		},
		Client: ClientConfig{
			ServerIP:    DefaultServerIP,
			TCPPort:     DefaultTCPPort,
			UDPPort:     DefaultUDPPort,
			DialTimeout: 5 * time.Second,
		},
	}
}

// Port returns the listening port for t.
func (s ServerConfig) Port(t Transport) int {
	if t == UDP {
		return s.UDPPort
	}
	return s.TCPPort
}

func (s *ServerConfig) SetPort(t Transport, port int) {
	if t == UDP {
		s.UDPPort = port
		return
	}
	s.TCPPort = port
}

// Addr is the bind address for t; an empty host binds all interfaces.
func (s ServerConfig) Addr(t Transport) string {
	return joinHostPort(s.BindHost, s.Port(t))
}

func (c ClientConfig) Port(t Transport) int {
	if t == UDP {
		return c.UDPPort
	}
	return c.TCPPort
}

func (c *ClientConfig) SetPort(t Transport, port int) {
	if t == UDP {
		c.UDPPort = port
		return
	}
	c.TCPPort = port
}

// Addr is the server address the client dials for t.
func (c ClientConfig) Addr(t Transport) string {
	return joinHostPort(c.ServerIP, c.Port(t))
}

func (c Config) Layout() (protocol.Layout, error) {
	return protocol.ParseLayout(c.WireLayout)
}

// fileConfig mirrors the TOML file. Durations stay strings until parsed.
type fileConfig struct {
	WireLayout string     `toml:"wire_layout"`
	Server     fileServer `toml:"server"`
	Client     fileClient `toml:"client"`
}

type fileServer struct {
	BindHost     string   `toml:"bind_host"`
	TCPPort      int      `toml:"tcp_port"`
	UDPPort      int      `toml:"udp_port"`
	ReadTimeout  string   `toml:"read_timeout"`
	WriteTimeout string   `toml:"write_timeout"`
	AdminAddr    string   `toml:"admin_addr"`
	CorsOrigins  []string `toml:"cors_origins"`
}

type fileClient struct {
	ServerIP     string `toml:"server_ip"`
	TCPPort      int    `toml:"tcp_port"`
	UDPPort      int    `toml:"udp_port"`
	DialTimeout  string `toml:"dial_timeout"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
}

// Load overlays the keys present in path onto Default. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	if meta.IsDefined("wire_layout") {
		cfg.WireLayout = strings.ToLower(strings.TrimSpace(raw.WireLayout))
	}

	srv := &cfg.Server
	if meta.IsDefined("server", "bind_host") {
		srv.BindHost = strings.TrimSpace(raw.Server.BindHost)
	}
	if meta.IsDefined("server", "tcp_port") {
		srv.TCPPort = raw.Server.TCPPort
	}
	if meta.IsDefined("server", "udp_port") {
		srv.UDPPort = raw.Server.UDPPort
	}
	if meta.IsDefined("server", "admin_addr") {
		srv.AdminAddr = strings.TrimSpace(raw.Server.AdminAddr)
	}
	if meta.IsDefined("server", "cors_origins") {
		srv.CorsOrigins = normalizeOrigins(raw.Server.CorsOrigins)
	}
	if err := overlayDuration(meta, &srv.ReadTimeout, raw.Server.ReadTimeout, "server", "read_timeout"); err != nil {
		return Config{}, err
	}
	if err := overlayDuration(meta, &srv.WriteTimeout, raw.Server.WriteTimeout, "server", "write_timeout"); err != nil {
		return Config{}, err
	}

	cli := &cfg.Client
	if meta.IsDefined("client", "server_ip") {
		cli.ServerIP = strings.TrimSpace(raw.Client.ServerIP)
	}
	if meta.IsDefined("client", "tcp_port") {
		cli.TCPPort = raw.Client.TCPPort
	}
	if meta.IsDefined("client", "udp_port") {
		cli.UDPPort = raw.Client.UDPPort
	}
	if err := overlayDuration(meta, &cli.DialTimeout, raw.Client.DialTimeout, "client", "dial_timeout"); err != nil {
		return Config{}, err
	}
	if err := overlayDuration(meta, &cli.ReadTimeout, raw.Client.ReadTimeout, "client", "read_timeout"); err != nil {
		return Config{}, err
	}
	if err := overlayDuration(meta, &cli.WriteTimeout, raw.Client.WriteTimeout, "client", "write_timeout"); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayDuration(meta toml.MetaData, dst *time.Duration, raw string, key ...string) error {
	if !meta.IsDefined(key...) {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return &FieldError{Field: strings.Join(key, "."), Reason: err.Error()}
	}
	*dst = d
	return nil
}

func (c Config) Validate() error {
	if _, err := c.Layout(); err != nil {
		return &FieldError{Field: "wire_layout", Reason: fmt.Sprintf("unknown layout %q", c.WireLayout)}
	}
	ports := []struct {
		field string
		port  int
	}{
		{"server.tcp_port", c.Server.TCPPort},
		{"server.udp_port", c.Server.UDPPort},
		{"client.tcp_port", c.Client.TCPPort},
		{"client.udp_port", c.Client.UDPPort},
	}
	for _, p := range ports {
		if !ValidPort(p.port) {
			return &FieldError{Field: p.field, Reason: "must be between 1 and 65535"}
		}
	}
	durations := []struct {
		field string
		d     time.Duration
	}{
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"client.dial_timeout", c.Client.DialTimeout},
		{"client.read_timeout", c.Client.ReadTimeout},
		{"client.write_timeout", c.Client.WriteTimeout},
	}
	for _, d := range durations {
		if d.d < 0 {
			return &FieldError{Field: d.field, Reason: "must not be negative"}
		}
	}
	if strings.TrimSpace(c.Client.ServerIP) == "" {
		return &FieldError{Field: "client.server_ip", Reason: "is required"}
	}
	return nil
}

func ValidPort(port int) bool {
	return port > 0 && port <= 65535
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		if v := strings.TrimSpace(origin); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
