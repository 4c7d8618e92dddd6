package chatclient

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the endpoint template and rendering settings of a client.
type Config struct {
	Scheme     string `yaml:"scheme"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	PathPrefix string `yaml:"path_prefix"`

	// TargetID is the id of the container inbound messages are appended to.
	TargetID     string `yaml:"target_id"`
	MessageTag   string `yaml:"message_tag"`
	MessageClass string `yaml:"message_class"`

	// HandshakeTimeout bounds the protocol-level dial and upgrade of the
	// native transport. Zero means no limit.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	// WriteTimeout bounds each frame write of the native transport, so a peer
	// that stops reading fails the send instead of stalling it.
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

func DefaultConfig() Config {
	return Config{
		Scheme:           "ws",
		Host:             "127.0.0.1",
		Port:             3000,
		PathPrefix:       "/ws/",
		TargetID:         "messages",
		MessageTag:       "div",
		MessageClass:     "message",
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.Scheme != "ws" && c.Scheme != "wss" {
		return errors.Wrapf(ErrInvalidConfig, "scheme %q", c.Scheme)
	}
	if c.Host == "" {
		return errors.Wrap(ErrInvalidConfig, "empty host")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Wrapf(ErrInvalidConfig, "port %d", c.Port)
	}
	if !strings.HasPrefix(c.PathPrefix, "/") {
		return errors.Wrapf(ErrInvalidConfig, "path prefix %q must start with /", c.PathPrefix)
	}
	if c.TargetID == "" {
		return errors.Wrap(ErrInvalidConfig, "empty target id")
	}
	if c.MessageTag == "" {
		return errors.Wrap(ErrInvalidConfig, "empty message tag")
	}
	if c.HandshakeTimeout < 0 {
		return errors.Wrapf(ErrInvalidConfig, "handshake timeout %s", c.HandshakeTimeout)
	}
	if c.WriteTimeout < 0 {
		return errors.Wrapf(ErrInvalidConfig, "write timeout %s", c.WriteTimeout)
	}
	return nil
}

// RoomURL builds <scheme>://<host>:<port><prefix><roomID>. The room id is
// inserted as given, without validation or escaping.
func (c Config) RoomURL(roomID string) string {
	prefix := c.PathPrefix
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return fmt.Sprintf("%s://%s%s%s", c.Scheme, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), prefix, roomID)
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
