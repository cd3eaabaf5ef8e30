package services

import (
	"strconv"
	"strings"
)

const QuestionsPerPage = 10

// Page is a 1-based page of QuestionsPerPage items.
type Page int

// ParsePage reads the page query parameter. Anything that is not an integer
// falls back to the first page.
func ParsePage(raw string) Page {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return Page(n)
}

// Valid reports whether the page can hold any items at all.
func (p Page) Valid() bool {
	return p >= 1
}

func (p Page) Offset() int {
	if !p.Valid() {
		return 0
	}
	return (int(p) - 1) * QuestionsPerPage
}

// Limit is the window size; an invalid page has an empty window.
func (p Page) Limit() int {
	if !p.Valid() {
		return 0
	}
	return QuestionsPerPage
}
