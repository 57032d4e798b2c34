package dedup

import (
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

// IsDuplicate reports whether the candidate already exists among the owner's
// listings. A canonical URL match wins; otherwise a trimmed, case-insensitive
// title+company match counts when both fields are non-empty. The caller must
// hold the owner's intake lock so the check and the subsequent insert form
// one atomic unit.
func IsDuplicate(candidate *types.Listing, existing []types.Listing) bool {
	canonical := CanonicalURL(candidate.URL)
	if canonical != "" {
		for i := range existing {
			if existing[i].ID == candidate.ID {
				continue
			}
			if CanonicalURL(existing[i].URL) == canonical {
				return true
			}
		}
	}

	title := strings.TrimSpace(candidate.Title)
	company := strings.TrimSpace(candidate.Company)
	if title == "" || company == "" {
		return false
	}
	for i := range existing {
		if existing[i].ID == candidate.ID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(existing[i].Title), title) &&
			strings.EqualFold(strings.TrimSpace(existing[i].Company), company) {
			return true
		}
	}
	return false
}
