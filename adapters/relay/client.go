package relay

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/adapters/metrics"
	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/internal/config"
	"github.com/pjackim/webbuddy/internal/domain/asset"
	"github.com/pjackim/webbuddy/pkg/apperror"
	"github.com/pjackim/webbuddy/pkg/logger"
)

// Client forwards asset changes to the external screen controller. When the
// relay is not enabled it only logs what it would have sent.
type Client struct {
	enabled    bool
	httpClient *resty.Client
	logger     logger.Logger
}

var _ service.ScreenRelay = (*Client)(nil)

func NewClient(cfg config.Config, log logger.Logger) *Client {
	c := &Client{
		enabled: cfg.RelayActive(),
		logger:  log.With(zap.String("component", "screen-relay")),
	}
	if !c.enabled {
		c.logger.Info("screen relay disabled, running in dry-run mode")
		return c
	}

	timeout := cfg.Relay.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c.httpClient = resty.New().
		SetBaseURL(strings.TrimRight(cfg.Relay.URL, "/")).
		SetHeader("User-Agent", "webbuddy-relay/1.0").
		SetTimeout(timeout)
	if token := strings.TrimSpace(cfg.Relay.Token); token != "" {
		c.httpClient.SetAuthToken(token)
	}

	c.logger.Info("screen relay enabled", zap.String("url", cfg.Relay.URL))
	return c
}

func (c *Client) IsEnabled() bool {
	return c != nil && c.enabled
}

func (c *Client) Apply(ctx context.Context, a asset.Asset) error {
	id := a.Common().ID
	if !c.IsEnabled() {
		c.logger.Info("(DRY-RUN) apply asset", zap.String("asset_id", id), zap.String("type", string(a.Kind())))
		metrics.RecordRelayCall("apply", "dry_run")
		return nil
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(a).
		Put("/assets/" + url.PathEscape(id))
	return c.check("apply", id, resp, err)
}

func (c *Client) Remove(ctx context.Context, a asset.Asset) error {
	id := a.Common().ID
	if !c.IsEnabled() {
		c.logger.Info("(DRY-RUN) remove asset", zap.String("asset_id", id))
		metrics.RecordRelayCall("remove", "dry_run")
		return nil
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Delete("/assets/" + url.PathEscape(id))
	return c.check("remove", id, resp, err)
}

func (c *Client) check(op, id string, resp *resty.Response, err error) error {
	if err != nil {
		metrics.RecordRelayCall(op, "error")
		c.logger.Error("screen relay request failed", err, zap.String("op", op), zap.String("asset_id", id))
		return apperror.NewExternalService(op, err)
	}
	if resp.IsError() {
		metrics.RecordRelayCall(op, "error")
		cause := fmt.Errorf("screen relay %s error (%d): %s", op, resp.StatusCode(), resp.String())
		c.logger.Error("screen relay rejected request", cause, zap.String("op", op), zap.String("asset_id", id))
		return apperror.NewExternalService(op, cause)
	}
	metrics.RecordRelayCall(op, "success")
	return nil
}
