package handlers

import "unicode/utf8"

// maxQueryLen bounds the search query; longer input is truncated.
const maxQueryLen = 200

// normalizeQuery cuts a search query to maxQueryLen runes. Whitespace is
// part of the query, so "art " does not match "Art".
func normalizeQuery(q string) string {
	if utf8.RuneCountInString(q) <= maxQueryLen {
		return q
	}
	return string([]rune(q)[:maxQueryLen])
}
