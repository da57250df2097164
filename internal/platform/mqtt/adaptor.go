package mqtt

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/automaton-core/automaton/internal/infrastructure/config"
	"github.com/automaton-core/automaton/internal/platform"
	"github.com/automaton-core/automaton/internal/robot"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for initial connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// defaultPort is the standard unencrypted MQTT port.
	defaultPort = 1883

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

func init() {
	platform.RegisterAdaptor("mqtt", func(cfg config.ConnectionConfig) (robot.Adaptor, error) {
		return NewAdaptor(cfg), nil
	})
	platform.RegisterDriver("mqtt.announcer", func(cfg config.DeviceConfig, adaptor robot.Adaptor) (robot.Driver, error) {
		a, ok := adaptor.(*Adaptor)
		if !ok {
			return nil, fmt.Errorf("%w: mqtt.announcer needs an mqtt connection, got %T",
				platform.ErrAdaptorMismatch, adaptor)
		}
		return NewAnnouncer(a, cfg), nil
	})
}

// Adaptor connects a robot to an MQTT broker via paho.mqtt.golang.
//
// Connection params (all optional):
//   - client_id: broker client identifier (default "automaton")
//   - username, password: broker credentials
//   - tls: dial ssl:// with TLS 1.2+ (default false)
//   - qos: publish QoS level 0-2 (default 0)
type Adaptor struct {
	host string
	port int
	opts *pahomqtt.ClientOptions
	qos  byte

	mu        sync.Mutex
	client    pahomqtt.Client
	connected bool
}

// NewAdaptor builds an MQTT adaptor from connection configuration.
// No network activity happens until Connect.
func NewAdaptor(cfg config.ConnectionConfig) *Adaptor {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	useTLS := platform.BoolParam(cfg.Params, "tls", false)
	if useTLS {
		scheme = "ssl"
		opts.SetTLSConfig(&tls.Config{MinVersion: tlsMinVersion})
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, port))

	opts.SetClientID(platform.StringParam(cfg.Params, "client_id", "automaton"))

	if username := platform.StringParam(cfg.Params, "username", ""); username != "" {
		opts.SetUsername(username)
		opts.SetPassword(platform.StringParam(cfg.Params, "password", ""))
	}

	// Start fresh on connect, no persistent session on the broker.
	opts.SetCleanSession(true)

	// Auto-reconnect with exponential backoff once the first connect succeeds.
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	qos := platform.IntParam(cfg.Params, "qos", 0)
	if qos < 0 || qos > 2 {
		qos = 0
	}

	return &Adaptor{
		host: cfg.Host,
		port: port,
		opts: opts,
		qos:  byte(qos),
	}
}

// Connect dials the broker and waits for the initial connection.
func (a *Adaptor) Connect(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.client = pahomqtt.NewClient(a.opts)
	token := a.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	a.connected = true
	return nil
}

// Disconnect waits briefly for in-flight messages, then drops the connection.
func (a *Adaptor) Disconnect(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client == nil {
		return nil
	}
	a.client.Disconnect(defaultDisconnectQuiesce)
	a.connected = false
	return nil
}

// Publish sends a payload to the given topic and waits for acknowledgment.
func (a *Adaptor) Publish(topic string, payload []byte, retained bool) error {
	a.mu.Lock()
	client := a.client
	connected := a.connected
	qos := a.qos
	a.mu.Unlock()

	if client == nil || !connected {
		return ErrNotConnected
	}

	token := client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: publish timeout on %q", ErrPublishFailed, topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}
