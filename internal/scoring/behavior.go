package scoring

import (
	"sort"
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

// behaviorNeutralPoints is awarded when the owner has no interested/applied
// history to learn from.
const behaviorNeutralPoints = 7.5

// topKeywordCount is how many of the most frequent significant title
// keywords the behavioral factor compares against.
const topKeywordCount = 5

// stopWords are excluded from title keyword extraction even when longer than
// three characters.
var stopWords = map[string]struct{}{
	"with": {}, "from": {}, "this": {}, "that": {}, "will": {},
	"have": {}, "your": {}, "their": {}, "into": {}, "over": {},
	"role": {}, "work": {}, "team": {}, "join": {},
}

// behaviorPoints derives up to 15 points from the owner's history of
// interested or applied listings: shared significant title keywords, shared
// company, job type, source, and a remote-habit bonus.
func behaviorPoints(l *types.Listing, history []types.Listing) float64 {
	relevant := make([]types.Listing, 0, len(history))
	for i := range history {
		if history[i].Interest == types.InterestInterested || history[i].Applied {
			relevant = append(relevant, history[i])
		}
	}
	if len(relevant) == 0 {
		return behaviorNeutralPoints
	}

	points := 0.0

	// Title keyword overlap with the 5 most frequent significant keywords
	// across history, 1.5 points each, capped at 5.
	top := topTitleKeywords(relevant, topKeywordCount)
	overlap := 0
	for _, word := range significantWords(l.Title) {
		if _, ok := top[word]; ok {
			overlap++
		}
	}
	keywordPoints := float64(overlap) * 1.5
	if keywordPoints > 5 {
		keywordPoints = 5
	}
	points += keywordPoints

	if l.Company != "" && anyFieldEquals(relevant, l.Company, func(h *types.Listing) string { return h.Company }) {
		points += 3
	}
	if l.JobType != "" && anyFieldEquals(relevant, l.JobType, func(h *types.Listing) string { return h.JobType }) {
		points += 2
	}
	if l.Source != "" && anyFieldEquals(relevant, l.Source, func(h *types.Listing) string { return h.Source }) {
		points += 1
	}

	remoteCount := 0
	for i := range relevant {
		if relevant[i].IsRemote {
			remoteCount++
		}
	}
	if l.IsRemote && remoteCount*2 > len(relevant) {
		points += 3
	}

	if points > maxBehaviorPoints {
		points = maxBehaviorPoints
	}
	return points
}

func anyFieldEquals(history []types.Listing, value string, field func(*types.Listing) string) bool {
	for i := range history {
		if strings.EqualFold(field(&history[i]), value) {
			return true
		}
	}
	return false
}

// topTitleKeywords returns the n most frequent significant title keywords
// across the history. Ties break alphabetically so selection is stable.
func topTitleKeywords(history []types.Listing, n int) map[string]struct{} {
	counts := make(map[string]int)
	for i := range history {
		seen := make(map[string]struct{})
		for _, word := range significantWords(history[i].Title) {
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
			counts[word]++
		}
	}

	keywords := make([]string, 0, len(counts))
	for word := range counts {
		keywords = append(keywords, word)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})

	if len(keywords) > n {
		keywords = keywords[:n]
	}
	top := make(map[string]struct{}, len(keywords))
	for _, word := range keywords {
		top[word] = struct{}{}
	}
	return top
}

// significantWords extracts lower-cased title words longer than three
// characters, excluding stop words.
func significantWords(title string) []string {
	fields := strings.Fields(strings.ToLower(title))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		word := strings.Trim(f, ".,;:()[]/-&")
		if len(word) <= 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		words = append(words, word)
	}
	return words
}
