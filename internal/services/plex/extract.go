package plex

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/amaumene/plextrakt/internal/models"
	"github.com/amaumene/plextrakt/internal/utils"
)

// ErrMissingAttribute is returned when a required attribute is absent or empty
var ErrMissingAttribute = errors.New("missing attribute")

// AttributeError describes an attribute that is missing or malformed
type AttributeError struct {
	Element string
	Name    string
	Value   string
	Err     error
}

func (e *AttributeError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s %q", e.Element, e.Err, e.Name)
	}
	return fmt.Sprintf("%s: attribute %q has invalid value %q: %s", e.Element, e.Name, e.Value, e.Err)
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}

// GetAttributeValue returns a trimmed attribute value, or false when the
// attribute is absent or blank
func GetAttributeValue(element Element, name string) (string, bool) {
	value, ok := element.Attr(name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// GetAttributeInt extracts an attribute as integer, nil when absent
func GetAttributeInt(element Element, name string) (*int, error) {
	value, ok := GetAttributeValue(element, name)
	if !ok {
		return nil, nil
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return nil, &AttributeError{Element: element.Name, Name: name, Value: value, Err: err}
	}

	return &intVal, nil
}

// GetAttributeInt64 extracts an attribute as int64, nil when absent
func GetAttributeInt64(element Element, name string) (*int64, error) {
	value, ok := GetAttributeValue(element, name)
	if !ok {
		return nil, nil
	}

	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, &AttributeError{Element: element.Name, Name: name, Value: value, Err: err}
	}

	return &intVal, nil
}

// GetRating extracts userRating rounded to the nearest integer. Plex stores
// half stars as a 0-10 float such as "7.0".
func GetRating(element Element) (*int, error) {
	value, ok := GetAttributeValue(element, "userRating")
	if !ok {
		return nil, nil
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, &AttributeError{Element: element.Name, Name: "userRating", Value: value, Err: err}
	}

	rating := int(math.Round(floatVal))
	return &rating, nil
}

func requireTitle(element Element) (string, error) {
	title, ok := GetAttributeValue(element, "title")
	if !ok {
		return "", &AttributeError{Element: element.Name, Name: "title", Err: ErrMissingAttribute}
	}
	return utils.NormalizeTitle(title), nil
}

func requireIndex(element Element) (int, error) {
	index, err := GetAttributeInt(element, "index")
	if err != nil {
		return 0, err
	}
	if index == nil {
		return 0, &AttributeError{Element: element.Name, Name: "index", Err: ErrMissingAttribute}
	}
	return *index, nil
}

func playCount(element Element) (int, error) {
	plays, err := GetAttributeInt(element, "viewCount")
	if err != nil {
		return 0, err
	}
	if plays == nil {
		return 0, nil
	}
	return *plays, nil
}

// MovieFromElement builds a movie record from a Video element
func MovieFromElement(element Element) (models.Movie, error) {
	title, err := requireTitle(element)
	if err != nil {
		return models.Movie{}, err
	}

	year, err := GetAttributeInt(element, "year")
	if err != nil {
		return models.Movie{}, err
	}

	plays, err := playCount(element)
	if err != nil {
		return models.Movie{}, err
	}

	lastPlayed, err := GetAttributeInt64(element, "updatedAt")
	if err != nil {
		return models.Movie{}, err
	}

	rating, err := GetRating(element)
	if err != nil {
		return models.Movie{}, err
	}

	return models.Movie{
		Title:      title,
		Year:       year,
		Plays:      plays,
		LastPlayed: lastPlayed,
		Rating:     rating,
	}, nil
}

// ShowFromElement builds a show record, without seasons, from a Directory
// element. The key attribute is required to list the seasons.
func ShowFromElement(element Element) (models.Show, error) {
	title, err := requireTitle(element)
	if err != nil {
		return models.Show{}, err
	}

	year, err := GetAttributeInt(element, "year")
	if err != nil {
		return models.Show{}, err
	}

	key, ok := GetAttributeValue(element, "key")
	if !ok {
		return models.Show{}, &AttributeError{Element: element.Name, Name: "key", Err: ErrMissingAttribute}
	}

	return models.Show{Title: title, Year: year, Key: key}, nil
}

// SeasonFromElement returns the season index and the path listing its
// episodes. Pseudo-seasons such as "All episodes" carry no index and yield
// ErrMissingAttribute.
func SeasonFromElement(element Element) (int, string, error) {
	index, err := requireIndex(element)
	if err != nil {
		return 0, "", err
	}

	key, ok := GetAttributeValue(element, "key")
	if !ok {
		return 0, "", &AttributeError{Element: element.Name, Name: "key", Err: ErrMissingAttribute}
	}

	return index, key, nil
}

// EpisodeFromElement builds an episode record from a Video element
func EpisodeFromElement(element Element, season int) (models.Episode, error) {
	number, err := requireIndex(element)
	if err != nil {
		return models.Episode{}, err
	}

	// Episode titles are informational only, trakt matches on indices
	title, _ := GetAttributeValue(element, "title")

	plays, err := playCount(element)
	if err != nil {
		return models.Episode{}, err
	}

	lastPlayed, err := GetAttributeInt64(element, "updatedAt")
	if err != nil {
		return models.Episode{}, err
	}

	rating, err := GetRating(element)
	if err != nil {
		return models.Episode{}, err
	}

	return models.Episode{
		Season:     season,
		Number:     number,
		Title:      utils.NormalizeTitle(title),
		Plays:      plays,
		LastPlayed: lastPlayed,
		Rating:     rating,
	}, nil
}
