// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"sponsormatch-workers/internal/common/config"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

const defaultConnectTimeout = 10 * time.Second

// Client owns the gateway connection shared by every job worker.
type Client struct {
	zbc            zbc.Client
	gateway        string
	connectTimeout time.Duration
}

// NewClient dials the gateway from the camunda config section and fails
// unless the broker answers a topology request within request_timeout.
func NewClient(cfg config.CamundaConfig) (*Client, error) {
	timeout := config.GetDuration(cfg.RequestTimeout)
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	return Dial(cfg.BrokerAddress, cfg.UsePlaintext, timeout)
}

// Dial is NewClient with explicit settings.
func Dial(gateway string, plaintext bool, connectTimeout time.Duration) (*Client, error) {
	zc, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         gateway,
		UsePlaintextConnection: plaintext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{zbc: zc, gateway: gateway, connectTimeout: connectTimeout}
	if err := c.HealthCheck(context.Background()); err != nil {
		zc.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", gateway, err)
	}
	return c, nil
}

// GetClient returns the raw Zeebe client used to open job workers.
func (c *Client) GetClient() zbc.Client {
	return c.zbc
}

func (c *Client) Close() error {
	return c.zbc.Close()
}

// HealthCheck asks the broker for its topology. It backs the /ready probe.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	if _, err := c.zbc.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}
