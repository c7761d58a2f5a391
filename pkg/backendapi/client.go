package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/reqhandler"
	"github.com/srcful/zap-gateway/pkg/routes"
)

var tag = gwlog.NewTag("backendapi", gwlog.LevelInfo)

// Config configures a Client.
type Config struct {
	// Endpoint is the backend's GraphQL HTTP endpoint.
	Endpoint string
	// HTTPClient is reused across requests; a zero value gets a sane
	// default with a bounded timeout, mirroring pkg/uplink's Config.
	HTTPClient *http.Client
}

// Client issues the two GraphQL operations the local request handler
// and the name-info endpoint need, using encoding/json to build each
// query body rather than hand-escaped query strings.
type Client struct {
	cfg Config
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{cfg: cfg}
}

type graphQLRequest struct {
	Query string `json:"query"`
}

// do posts query to the backend and decodes its "data" field into out.
func (c *Client) do(ctx context.Context, query string, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return fmt.Errorf("backendapi: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("backendapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("backendapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backendapi: unexpected status %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("backendapi: decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("backendapi: graphql error: %s", envelope.Errors[0].Message)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

// FetchName satisfies routes.NameFetcher.
func (c *Client) FetchName(ctx context.Context, deviceID string) (string, error) {
	query := fmt.Sprintf(`{ gatewayConfiguration { gatewayName(id:%q) { name } } }`, deviceID)

	var data struct {
		GatewayConfiguration struct {
			GatewayName struct {
				Name string `json:"name"`
			} `json:"gatewayName"`
		} `json:"gatewayConfiguration"`
	}
	if err := c.do(ctx, query, &data); err != nil {
		gwlog.Warnf(tag, "fetch name failed: %v", err)
		return "", err
	}
	return data.GatewayConfiguration.GatewayName.Name, nil
}

// SetConfiguration satisfies reqhandler.ConfigPublisher.
func (c *Client) SetConfiguration(ctx context.Context, jwt string) error {
	query := fmt.Sprintf(`mutation { setConfiguration(deviceConfigurationInputType: { jwt: %q }) { success } }`, jwt)

	var data struct {
		SetConfiguration struct {
			Success bool `json:"success"`
		} `json:"setConfiguration"`
	}
	if err := c.do(ctx, query, &data); err != nil {
		return err
	}
	if !data.SetConfiguration.Success {
		return fmt.Errorf("backendapi: setConfiguration reported failure")
	}
	return nil
}

var (
	_ routes.NameFetcher         = (*Client)(nil)
	_ reqhandler.ConfigPublisher = (*Client)(nil)
)
