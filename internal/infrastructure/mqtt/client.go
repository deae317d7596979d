package mqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/homenet-framework/internal/infrastructure/config"
)

// Client wraps paho.mqtt.golang for publishing data-object values.
//
// All methods are safe for concurrent use.
type Client struct {
	client   pahomqtt.Client
	clientID string
	timeout  time.Duration
	logger   Logger

	// connected tracks current connection state.
	connected bool
	connMu    sync.RWMutex
}

// Logger is the logging sink used by the client and paho's internal loggers.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Connect establishes a connection to the MQTT broker described by cfg.
//
// The connection attempt waits at most cfg.Timeout seconds. paho's
// package-level loggers are pointed at logger (nil disables them).
func Connect(cfg config.MqttBrokerConfig, logger Logger) (*Client, error) {
	brokerURL, err := normalizeBrokerURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	setPahoLoggers(logger)

	clientID := newClientID()
	opts := buildClientOptions(cfg, brokerURL, clientID)

	c := &Client{
		clientID: clientID,
		timeout:  opts.ConnectTimeout,
		logger:   logger,
	}

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleDisconnect(err)
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(c.timeout) {
		c.client.Disconnect(0)
		return nil, fmt.Errorf("%w: %s: timeout after %v", ErrConnectionFailed, brokerURL, c.timeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, brokerURL, err)
	}

	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	if logger != nil {
		logger.Debug("connected to MQTT broker", "broker", brokerURL, "client_id", clientID)
	}

	return c, nil
}

// handleDisconnect is called by paho when the connection is lost.
func (c *Client) handleDisconnect(err error) {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	if c.logger != nil {
		c.logger.Warn("MQTT connection lost", "client_id", c.clientID, "error", err)
	}
}

// ClientID returns the identifier presented to the broker.
func (c *Client) ClientID() string {
	return c.clientID
}

// Close disconnects from the MQTT broker.
// Closing an unconnected client is not an error.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	c.client.Disconnect(defaultDisconnectQuiesce)

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	return nil
}

// HealthCheck verifies the MQTT connection is alive.
func (c *Client) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt health check: %w", ctx.Err())
	default:
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	return nil
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}
