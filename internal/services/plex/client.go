package plex

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/plextrakt/internal/config"
)

// Tag names used by the Plex library listings
const (
	TagVideo     = "Video"     // movies and episodes
	TagDirectory = "Directory" // shows and seasons
)

// Element is one XML element of a Plex listing, reduced to its attributes
type Element struct {
	Name  string
	attrs map[string]string
}

// NewElement builds an element from attribute pairs
func NewElement(name string, attrs map[string]string) Element {
	return Element{Name: name, attrs: attrs}
}

// Attr returns the attribute value and whether the attribute is present
func (e Element) Attr(name string) (string, bool) {
	value, ok := e.attrs[name]
	return value, ok
}

// Client wraps direct Plex API HTTP calls
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new Plex client for the configured host and port
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.PlexHost == "" {
		return nil, fmt.Errorf("plex host is required")
	}

	return &Client{
		baseURL: cfg.PlexBaseURL(),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}, nil
}

// FetchElements requests path from Plex and returns every element named
// tagName (TagVideo when empty), in document order
func (c *Client) FetchElements(ctx context.Context, path, tagName string) ([]Element, error) {
	if tagName == "" {
		tagName = TagVideo
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	finalURL := c.baseURL + path
	c.logger.WithFields(logrus.Fields{
		"url": finalURL,
		"tag": tagName,
	}).Debug("Making Plex API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", "plextrakt/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plex API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read plex response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"path":        path,
		}).Error("Plex API returned non-OK status")
		return nil, fmt.Errorf("plex API returned status %d for %s", resp.StatusCode, path)
	}

	elements, err := ParseElements(body, tagName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML response from %s: %w", path, err)
	}

	c.logger.WithFields(logrus.Fields{
		"path":  path,
		"count": len(elements),
	}).Debug("Plex listing parsed")

	return elements, nil
}

// ParseElements decodes an XML document and returns all elements named
// tagName at any depth, in document order
func ParseElements(data []byte, tagName string) ([]Element, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	elements := []Element{}
	sawRoot := false
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true

		if start.Name.Local != tagName {
			continue
		}

		attrs := make(map[string]string, len(start.Attr))
		for _, attr := range start.Attr {
			attrs[attr.Name.Local] = attr.Value
		}
		elements = append(elements, Element{Name: start.Name.Local, attrs: attrs})
	}

	if !sawRoot {
		return nil, fmt.Errorf("document has no root element")
	}

	return elements, nil
}

// Watched keeps the elements whose viewCount attribute is present and
// non-empty, preserving order
func Watched(elements []Element) []Element {
	watched := make([]Element, 0, len(elements))
	for _, element := range elements {
		if count, ok := element.Attr("viewCount"); ok && count != "" {
			watched = append(watched, element)
		}
	}
	return watched
}

// SectionPath returns the listing path of a library section
func SectionPath(section string) string {
	return fmt.Sprintf("/library/sections/%s/all", section)
}
