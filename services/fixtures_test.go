package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"code-review-api/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the production
// schema. A single connection keeps the in-memory database alive and
// serialises access to it.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

type fixture struct {
	t           *testing.T
	ctx         context.Context
	db          *gorm.DB
	users       *UserService
	projects    *ProjectService
	submissions *SubmissionService
	reviews     *ReviewService
	comments    *CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	submissions := NewSubmissionService(db, nil)
	return &fixture{
		t:           t,
		ctx:         context.Background(),
		db:          db,
		users:       NewUserService(db, nil),
		projects:    NewProjectService(db, nil),
		submissions: submissions,
		reviews:     NewReviewService(db, submissions, nil),
		comments:    NewCommentService(db, nil),
	}
}

// user inserts a user row directly and returns its identity.
func (f *fixture) user(name string, role models.Role) Identity {
	f.t.Helper()
	u := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", strings.ToLower(name)),
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(f.t, f.db.Create(&u).Error)
	return Identity{UserID: u.ID, Role: role}
}

func (f *fixture) project(owner Identity, name string) *models.Project {
	f.t.Helper()
	p, err := f.projects.Create(f.ctx, owner, ProjectInput{Name: name})
	require.NoError(f.t, err)
	return p
}

func (f *fixture) member(owner Identity, projectID uint, member Identity) {
	f.t.Helper()
	_, err := f.projects.AddMember(f.ctx, owner, projectID, member.UserID)
	require.NoError(f.t, err)
}

func (f *fixture) submission(author Identity, projectID uint, code string) *models.Submission {
	f.t.Helper()
	s, err := f.submissions.Create(f.ctx, author, SubmissionInput{ProjectID: projectID, Code: code})
	require.NoError(f.t, err)
	return s
}

func (f *fixture) comment(reviewer Identity, submissionID uint, line int, content string) *models.Comment {
	f.t.Helper()
	c, err := f.comments.Create(f.ctx, reviewer, submissionID, CommentInput{LineNumber: line, Content: content})
	require.NoError(f.t, err)
	return c
}

func (f *fixture) count(model interface{}, query string, args ...interface{}) int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
