package utils

import (
	"strings"

	"code-review-api/models"
)

var (
	statusSynonyms = map[models.SubmissionStatus][]string{
		models.StatusPending: {
			"pending",
			"open",
			"new",
		},
		models.StatusUnderReview: {
			"under_review",
			"under-review",
			"under review",
			"in_review",
			"changes_requested",
		},
		models.StatusApproved: {
			"approved",
			"accepted",
		},
		models.StatusRejected: {
			"rejected",
			"declined",
		},
	}
	statusAliasToCanonical = buildStatusAliasMap()
)

func buildStatusAliasMap() map[string]models.SubmissionStatus {
	aliasMap := make(map[string]models.SubmissionStatus)
	for canonical, synonyms := range statusSynonyms {
		aliasMap[normalizeStatusCode(string(canonical))] = canonical
		for _, alias := range synonyms {
			if normalized := normalizeStatusCode(alias); normalized != "" {
				aliasMap[normalized] = canonical
			}
		}
	}
	return aliasMap
}

func normalizeStatusCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ParseSubmissionStatus resolves a raw status (canonical value or alias,
// case-insensitive) to one of the four lifecycle states.
func ParseSubmissionStatus(raw string) (models.SubmissionStatus, bool) {
	status, ok := statusAliasToCanonical[normalizeStatusCode(raw)]
	return status, ok
}

// StatusNames returns the canonical status values for error messages.
func StatusNames() []string {
	names := make([]string, 0, len(models.SubmissionStatuses))
	for _, status := range models.SubmissionStatuses {
		names = append(names, string(status))
	}
	return names
}
