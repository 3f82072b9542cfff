package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"league_grid_go/internal/types"
)

const (
	DefaultDDragonURL     = "https://ddragon.leagueoflegends.com"
	DefaultDDragonVersion = "13.14.1"
	DefaultDDragonLocale  = "en_US"
)

// DDragon fetches champion.json from the Data Dragon CDN. Version "latest" is
// resolved through /api/versions.json on every call.
type DDragon struct {
	Version string
	Locale  string

	client *resty.Client
	logger *zap.Logger
}

func NewDDragon(baseURL, version, locale string, timeout time.Duration, logger *zap.Logger) *DDragon {
	if baseURL == "" {
		baseURL = DefaultDDragonURL
	}
	if version == "" {
		version = DefaultDDragonVersion
	}
	if locale == "" {
		locale = DefaultDDragonLocale
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("Accept", "application/json")
	return &DDragon{Version: version, Locale: locale, client: client, logger: logger}
}

func (d *DDragon) Characters(ctx context.Context) ([]types.Character, error) {
	version, err := d.resolveVersion(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"version": version, "locale": d.Locale}).
		Get("/cdn/{version}/data/{locale}/champion.json")
	if err != nil {
		return nil, fmt.Errorf("fetch champion.json: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch champion.json %s: %s", version, resp.Status())
	}

	chars, err := decodeJSON("ddragon "+version, resp.Body())
	if err != nil {
		return nil, err
	}
	d.logger.Info("catalog fetched",
		zap.String("version", version),
		zap.String("locale", d.Locale),
		zap.Int("characters", len(chars)),
	)
	return chars, nil
}

func (d *DDragon) resolveVersion(ctx context.Context) (string, error) {
	if !strings.EqualFold(d.Version, "latest") {
		return d.Version, nil
	}
	resp, err := d.client.R().SetContext(ctx).Get("/api/versions.json")
	if err != nil {
		return "", fmt.Errorf("fetch versions: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch versions: %s", resp.Status())
	}
	var versions []string
	if err := json.Unmarshal(resp.Body(), &versions); err != nil {
		return "", &MalformedCatalogError{Source: "ddragon versions", Reason: "invalid JSON", Err: err}
	}
	if len(versions) == 0 {
		return "", &MalformedCatalogError{Source: "ddragon versions", Reason: "empty version list"}
	}
	d.logger.Debug("resolved latest ddragon version", zap.String("version", versions[0]))
	return versions[0], nil
}
