package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var ErrUnknownKey = errors.New("config: unknown key")

// templateFile drops the sections a kind does not use.
type templateFile struct {
	WireLayout string      `toml:"wire_layout"`
	Server     *fileServer `toml:"server,omitempty"`
	Client     *fileClient `toml:"client,omitempty"`
}

// Template renders the defaults for kind: server, client or all.
func Template(kind string) (string, error) {
	d := Default()
	srv := &fileServer{
		BindHost:     d.Server.BindHost,
		TCPPort:      d.Server.TCPPort,
		UDPPort:      d.Server.UDPPort,
		ReadTimeout:  d.Server.ReadTimeout.String(),
		WriteTimeout: d.Server.WriteTimeout.String(),
		AdminAddr:    d.Server.AdminAddr,
		CorsOrigins:  d.Server.CorsOrigins,
	}
	cli := &fileClient{
		ServerIP:     d.Client.ServerIP,
		TCPPort:      d.Client.TCPPort,
		UDPPort:      d.Client.UDPPort,
		DialTimeout:  d.Client.DialTimeout.String(),
		ReadTimeout:  d.Client.ReadTimeout.String(),
		WriteTimeout: d.Client.WriteTimeout.String(),
	}

	out := templateFile{WireLayout: d.WireLayout}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "server":
		out.Server = srv
	case "client":
		out.Client = cli
	case "", "all":
		out.Server, out.Client = srv, cli
	default:
		return "", fmt.Errorf("config: unknown template kind: %s", kind)
	}

	b, err := toml.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("config: render template: %w", err)
	}
	return string(b), nil
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

// ValidateStrict rejects keys Load would silently ignore, then loads path.
func ValidateStrict(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	var raw fileConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w in %s:\n%s", ErrUnknownKey, path, strings.TrimSpace(strict.String()))
		}
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return Load(path)
}
