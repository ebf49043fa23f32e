// Package search ranks inventory items against a free-text query.
package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/model"
)

// Limit bounds for search results.
const (
	DefaultLimit = 10
	MaxLimit     = 100
	MinLimit     = 1
)

// ClampLimit normalizes a requested result limit into [MinLimit, MaxLimit],
// falling back to DefaultLimit when none was requested.
func ClampLimit(requested int, present bool) int {
	if !present {
		return DefaultLimit
	}
	if requested < MinLimit {
		return MinLimit
	}
	if requested > MaxLimit {
		return MaxLimit
	}
	return requested
}

// corpus adapts items for fuzzy matching over code and name together.
type corpus []model.Item

func (c corpus) String(i int) string { return c[i].Code + " " + c[i].Name }
func (c corpus) Len() int            { return len(c) }

// Rank returns up to limit items fuzzy-matched against query, best match
// first. An empty query returns the first limit items in sheet order.
func Rank(items []model.Item, query string, limit int) []model.Item {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if query == "" {
		if len(items) > limit {
			return items[:limit]
		}
		return items
	}
	matches := fuzzy.FindFrom(query, corpus(items))
	out := make([]model.Item, 0, limit)
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, items[m.Index])
	}
	return out
}
