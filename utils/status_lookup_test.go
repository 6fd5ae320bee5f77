package utils

import (
	"testing"

	"code-review-api/models"

	"github.com/stretchr/testify/assert"
)

func TestParseSubmissionStatus(t *testing.T) {
	cases := map[string]models.SubmissionStatus{
		"pending":      models.StatusPending,
		" PENDING ":    models.StatusPending,
		"under_review": models.StatusUnderReview,
		"Under-Review": models.StatusUnderReview,
		"UNDER_REVIEW": models.StatusUnderReview,
		"approved":     models.StatusApproved,
		"accepted":     models.StatusApproved,
		"rejected":     models.StatusRejected,
		"declined":     models.StatusRejected,
	}
	for raw, want := range cases {
		got, ok := ParseSubmissionStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParseSubmissionStatusRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "merged", "approve d", "0"} {
		_, ok := ParseSubmissionStatus(raw)
		assert.False(t, ok, raw)
	}
}

func TestStatusNames(t *testing.T) {
	assert.Equal(t, []string{"pending", "under_review", "approved", "rejected"}, StatusNames())
}
