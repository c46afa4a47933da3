package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

var ErrNoDeckMatch = errors.New("storage: no deck matches")

// MatchDeck resolves a user-typed query to a stored deck name. An exact
// (case-insensitive) name wins; otherwise the best fuzzy match is used.
func (s *Store) MatchDeck(query string) (string, error) {
	decks, err := s.Decks()
	if err != nil {
		return "", err
	}
	return matchDeck(query, decks)
}

func matchDeck(query string, decks []string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: empty query", ErrNoDeckMatch)
	}
	for _, d := range decks {
		if strings.EqualFold(d, query) {
			return d, nil
		}
	}

	matches := fuzzy.Find(query, decks)
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoDeckMatch, query)
	}
	return matches[0].Str, nil
}
