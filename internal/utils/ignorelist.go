package utils

import (
	"bufio"
	"os"
	"strings"
)

// IgnoreList holds title terms that must never be reported to trakt
type IgnoreList struct {
	terms []string
}

// LoadIgnoreList loads ignore terms from a file, one per line.
// Blank lines and lines starting with # are skipped. An empty path or a
// missing file yields an empty list.
func LoadIgnoreList(path string) (*IgnoreList, error) {
	if path == "" {
		return &IgnoreList{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &IgnoreList{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var terms []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term != "" && !strings.HasPrefix(term, "#") {
			terms = append(terms, term)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &IgnoreList{terms: terms}, nil
}

// Len returns the number of loaded terms
func (l *IgnoreList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.terms)
}

// IsIgnored checks if a title contains any ignore term, case-insensitively.
// Returns (isIgnored, matchedTerm)
func (l *IgnoreList) IsIgnored(title string) (bool, string) {
	if l == nil {
		return false, ""
	}

	titleLower := strings.ToLower(title)
	for _, term := range l.terms {
		if strings.Contains(titleLower, strings.ToLower(term)) {
			return true, term
		}
	}

	return false, ""
}
