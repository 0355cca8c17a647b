// Package topic derives clustering keys from article titles and groups
// articles that likely cover the same event.
//
// The key is a lexical heuristic: the first three significant title tokens,
// sorted so word order does not matter, hashed for a stable fixed-width
// identifier. It deliberately does not understand synonyms or languages;
// two outlets reporting the same story with the same significant words land
// in the same cluster, nothing more.
package topic

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// minTokenLength is the exclusive lower bound for a title token to count as
// significant. Short words (articles, prepositions, most verbs) carry little
// topical signal.
const minTokenLength = 4

// maxTokens is how many significant tokens feed the key.
const maxTokens = 3

// Key derives the deterministic topic key for a title.
//
// Lowercase the title, split on whitespace, keep tokens longer than four
// characters, take the first three in original order, sort them
// alphabetically, concatenate, and hash. Sorting makes the key insensitive
// to word order, so "Major Earthquake Strikes Region" and "Region Strikes
// Major Earthquake" cluster together.
//
// Titles with fewer than three qualifying tokens use what they have; a title
// with none hashes the empty string, which makes all such articles cluster
// together. That is an accepted limitation of the heuristic.
func Key(title string) string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(title)) {
		if len(tok) > minTokenLength {
			tokens = append(tokens, tok)
			if len(tokens) == maxTokens {
				break
			}
		}
	}

	// Sort the (at most three) tokens without pulling in the sort package.
	for i := 0; i < len(tokens); i++ {
		for j := i + 1; j < len(tokens); j++ {
			if tokens[j] < tokens[i] {
				tokens[i], tokens[j] = tokens[j], tokens[i]
			}
		}
	}

	h := sha256.Sum256([]byte(strings.Join(tokens, "")))
	return fmt.Sprintf("%x", h)
}

// Cluster is a set of batch indices sharing one topic key, in insertion
// order. The representative title for a materialized group is the first
// member's title.
type Cluster struct {
	Key     string
	Indices []int
}

// ClusterTitles groups a batch of titles by topic key and returns clusters
// in order of first appearance. Every title is assigned to exactly one
// cluster; singleton clusters are included (the caller decides whether they
// materialize a group).
func ClusterTitles(titles []string) []Cluster {
	byKey := make(map[string]int) // key -> index into clusters
	var clusters []Cluster

	for i, title := range titles {
		key := Key(title)
		ci, ok := byKey[key]
		if !ok {
			ci = len(clusters)
			byKey[key] = ci
			clusters = append(clusters, Cluster{Key: key})
		}
		clusters[ci].Indices = append(clusters[ci].Indices, i)
	}

	return clusters
}
