package services

import (
	"strings"
	"testing"

	"code-review-api/apperrors"
	"code-review-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentCreateBoundaries(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", models.RoleSubmitter)
	reviewer := f.user("Reviewer", models.RoleReviewer)
	p := f.project(owner, "Repo")
	s := f.submission(owner, p.ID, "code")

	tests := []struct {
		name    string
		line    int
		content string
		wantErr error
	}{
		{name: "line zero", line: 0, content: "x", wantErr: apperrors.ErrValidation},
		{name: "negative line", line: -4, content: "x", wantErr: apperrors.ErrValidation},
		{name: "empty content", line: 1, content: "", wantErr: apperrors.ErrValidation},
		{name: "whitespace only", line: 1, content: " \t\n", wantErr: apperrors.ErrValidation},
		{name: "one character", line: 1, content: "x"},
		{name: "exactly 1000", line: 2, content: strings.Repeat("a", 1000)},
		{name: "1001 characters", line: 2, content: strings.Repeat("a", 1001), wantErr: apperrors.ErrValidation},
		{name: "1000 multibyte characters", line: 3, content: strings.Repeat("é", 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := f.comments.Create(f.ctx, reviewer, s.ID, CommentInput{LineNumber: tt.line, Content: tt.content})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.content, c.Content)
			assert.Equal(t, reviewer.UserID, c.ReviewerID)
		})
	}
}

func TestCommentCreateTrimsContent(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", models.RoleSubmitter)
	reviewer := f.user("Reviewer", models.RoleReviewer)
	p := f.project(owner, "Repo")
	s := f.submission(owner, p.ID, "code")

	c := f.comment(reviewer, s.ID, 4, "  needs a test\x00  ")
	assert.Equal(t, "needs a test", c.Content)
}

func TestCommentCreateRequiresReviewerAndSubmission(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", models.RoleSubmitter)
	reviewer := f.user("Reviewer", models.RoleReviewer)
	p := f.project(owner, "Repo")
	s := f.submission(owner, p.ID, "code")

	_, err := f.comments.Create(f.ctx, owner, s.ID, CommentInput{LineNumber: 1, Content: "mine"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.comments.Create(f.ctx, owner, 999, CommentInput{LineNumber: 1, Content: "mine"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.comments.Create(f.ctx, reviewer, 999, CommentInput{LineNumber: 1, Content: "mine"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCommentThreadOrdering(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", models.RoleSubmitter)
	alice := f.user("Alice", models.RoleReviewer)
	bob := f.user("Bob", models.RoleReviewer)
	p := f.project(owner, "Repo")
	s := f.submission(owner, p.ID, "code")

	line2 := f.comment(bob, s.ID, 2, "second line")
	line1 := f.comment(alice, s.ID, 1, "fix this typo")
	line1b := f.comment(bob, s.ID, 1, "agreed")
	line10 := f.comment(alice, s.ID, 10, "later")

	thread, err := f.comments.ListBySubmission(f.ctx, owner, s.ID)
	require.NoError(t, err)
	require.Len(t, thread, 4)
	ids := []uint{thread[0].ID, thread[1].ID, thread[2].ID, thread[3].ID}
	assert.Equal(t, []uint{line1.ID, line1b.ID, line2.ID, line10.ID}, ids)

	onLine, err := f.comments.ListByLine(f.ctx, owner, s.ID, 1)
	require.NoError(t, err)
	require.Len(t, onLine, 2)
	assert.Equal(t, line1.ID, onLine[0].ID)

	_, err = f.comments.ListByLine(f.ctx, owner, s.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.comments.ListBySubmission(f.ctx, owner, 12345)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	mine, err := f.comments.ListMine(f.ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, line10.ID, mine[0].ID, "newest first")

	all, err := f.comments.List(f.ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCommentUpdateAndDeleteAuthorOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", models.RoleSubmitter)
	alice := f.user("Alice", models.RoleReviewer)
	bob := f.user("Bob", models.RoleReviewer)
	p := f.project(owner, "Repo")
	s := f.submission(owner, p.ID, "code")
	c := f.comment(alice, s.ID, 5, "original")

	content := "edited"
	_, err := f.comments.Update(f.ctx, bob, c.ID, CommentUpdate{Content: &content})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	line := 7
	updated, err := f.comments.Update(f.ctx, alice, c.ID, CommentUpdate{LineNumber: &line})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.LineNumber)
	assert.Equal(t, "original", updated.Content)

	updated, err = f.comments.Update(f.ctx, alice, c.ID, CommentUpdate{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, 7, updated.LineNumber)

	bad := 0
	_, err = f.comments.Update(f.ctx, alice, c.ID, CommentUpdate{LineNumber: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	tooLong := strings.Repeat("z", 1001)
	_, err = f.comments.Update(f.ctx, alice, c.ID, CommentUpdate{Content: &tooLong})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.comments.Update(f.ctx, alice, 4321, CommentUpdate{Content: &content})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = f.comments.Delete(f.ctx, bob, c.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, f.comments.Delete(f.ctx, alice, c.ID))
	_, err = f.comments.Get(f.ctx, alice, c.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
