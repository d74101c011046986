package trakt

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/plextrakt/internal/config"
)

// StatusSuccess is the status trakt reports for an accepted request
const StatusSuccess = "success"

// StatusError is returned when trakt answers with a status other than
// success, or with a body that is not a status document
type StatusError struct {
	Path   string
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("trakt request to %s failed with %s", e.Path, e.Body)
}

// Client handles communication with the trakt API
type Client struct {
	baseURL        string
	apiKey         string
	username       string
	passwordDigest string
	httpClient     *resty.Client
	logger         *logrus.Logger
}

// NewClient creates a new trakt API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TraktAPIKey == "" {
		return nil, fmt.Errorf("trakt API key is required")
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "plextrakt/1.0")

	return &Client{
		baseURL:        strings.TrimRight(cfg.TraktURL, "/"),
		apiKey:         cfg.TraktAPIKey,
		username:       cfg.TraktUsername,
		passwordDigest: PasswordDigest(cfg.TraktPassword),
		httpClient:     httpClient,
		logger:         logger,
	}, nil
}

// PasswordDigest returns the hex SHA-1 of a plaintext password, the form
// in which trakt expects it
func PasswordDigest(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Post sends payload to a trakt endpoint together with the user credentials.
// It returns true when trakt reports success. Any other status is returned
// as *StatusError after logging the raw response.
func (c *Client) Post(ctx context.Context, path string, payload interface{}) (bool, error) {
	body, err := c.buildBody(payload)
	if err != nil {
		return false, err
	}

	fullURL := fmt.Sprintf("%s/%s/%s", c.baseURL, strings.Trim(path, "/"), c.apiKey)
	c.logger.WithField("path", path).Info("trakt POST")

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(fullURL)
	if err != nil {
		c.logger.WithError(err).WithField("path", path).Error("trakt request failed")
		return false, fmt.Errorf("trakt request to %s failed: %w", path, err)
	}

	raw := resp.Body()
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		c.logger.WithFields(logrus.Fields{
			"path":        path,
			"status_code": resp.StatusCode(),
			"body":        string(raw),
		}).Error("trakt API returned non-OK status")
		return false, fmt.Errorf("trakt API returned status %d for %s: %s", resp.StatusCode(), path, string(raw))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.WithField("body", string(raw)).Error("trakt returned an undecodable response")
		return false, &StatusError{Path: path, Body: string(raw)}
	}

	status, _ := result["status"].(string)
	if status != StatusSuccess {
		c.logger.Errorf("trakt request failed with %s", string(raw))
		return false, &StatusError{Path: path, Status: status, Body: string(raw)}
	}

	if c.logger.IsLevelEnabled(logrus.DebugLevel) {
		c.logger.Debugf("detailed trakt response: %s", render(result))
	} else {
		c.logger.Infof("trakt response (filtered): %s", render(FilterResponse(result)))
	}

	return true, nil
}

// buildBody merges the credentials into the JSON object of payload. Keys
// set by the payload take precedence.
func (c *Client) buildBody(payload interface{}) (map[string]json.RawMessage, error) {
	body := map[string]json.RawMessage{}

	username, err := json.Marshal(c.username)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal username: %w", err)
	}
	password, err := json.Marshal(c.passwordDigest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal password: %w", err)
	}
	body["username"] = username
	body["password"] = password

	if payload == nil {
		return body, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("payload must encode to a JSON object: %w", err)
	}
	for key, value := range fields {
		body[key] = value
	}

	return body, nil
}

// FilterResponse drops the per-item lists (keys ending in "_movies") from a
// trakt response, leaving the summary counters
func FilterResponse(result map[string]interface{}) map[string]interface{} {
	filtered := make(map[string]interface{}, len(result))
	for key, value := range result {
		if strings.HasSuffix(key, "_movies") {
			continue
		}
		filtered[key] = value
	}
	return filtered
}

// render formats a response for the log with sorted keys
func render(result map[string]interface{}) string {
	keys := make([]string, 0, len(result))
	for key := range result {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value, err := json.Marshal(result[key])
		if err != nil {
			value = []byte(fmt.Sprintf("%v", result[key]))
		}
		parts = append(parts, fmt.Sprintf("%q: %s", key, value))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
