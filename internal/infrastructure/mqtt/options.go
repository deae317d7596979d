package mqtt

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/nerrad567/homenet-framework/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultTimeout applies when the config carries no positive Timeout.
	defaultTimeout = 10 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 250 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// publishQoS asks the broker to acknowledge each publish.
	publishQoS = 1

	// clientIDPrefix prefixes the random client identifier.
	clientIDPrefix = "homenet-"

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

var defaultPorts = map[string]string{
	"tcp":   "1883",
	"mqtt":  "1883",
	"ssl":   "8883",
	"tls":   "8883",
	"mqtts": "8883",
	"ws":    "80",
	"wss":   "443",
}

// normalizeBrokerURL returns the broker URL in the form paho expects.
func normalizeBrokerURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "tcp://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	port, ok := defaultPorts[scheme]
	if !ok {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host in %q", ErrInvalidURL, raw)
	}
	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), port)
	}
	u.Scheme = scheme
	return u.String(), nil
}

func isTLSScheme(brokerURL string) bool {
	for _, prefix := range []string{"ssl://", "tls://", "mqtts://", "wss://"} {
		if strings.HasPrefix(brokerURL, prefix) {
			return true
		}
	}
	return false
}

// newClientID returns a unique client identifier for one connection.
func newClientID() string {
	return clientIDPrefix + uuid.NewString()
}

// buildClientOptions creates paho MQTT options from the broker config.
//
// Auto-reconnect and connect-retry are disabled: a failed connect is
// reported to the caller, which decides when to try again.
func buildClientOptions(cfg config.MqttBrokerConfig, brokerURL, clientID string) *pahomqtt.ClientOptions {
	timeout := cfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)

	if cfg.User != "" {
		opts.SetUsername(cfg.User)
		opts.SetPassword(cfg.Password)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(timeout)
	opts.SetWriteTimeout(timeout)
	opts.SetKeepAlive(defaultKeepAlive)

	if isTLSScheme(brokerURL) {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tlsMinVersion,
		})
	}

	return opts
}
