package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// RepositoryTestSuite runs the GORM repositories against in-memory SQLite
type RepositoryTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	users    UserRepository
	projects ProjectRepository
	tasks    TaskRepository
}

func (suite *RepositoryTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(database.Migrate(suite.db))

	suite.ctx = context.Background()
	suite.users = NewUserRepository(suite.db)
	suite.projects = NewProjectRepository(suite.db)
	suite.tasks = NewTaskRepository(suite.db)
}

func (suite *RepositoryTestSuite) TearDownTest() {
	suite.Require().NoError(database.Close(suite.db))
}

func (suite *RepositoryTestSuite) createUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
	}
	suite.Require().NoError(suite.users.CreateIfAbsent(suite.ctx, user))
	return user
}

func (suite *RepositoryTestSuite) createProject(name string, ownerID uint64) *models.Project {
	project := &models.Project{Name: name, OwnerID: ownerID}
	suite.Require().NoError(suite.projects.Create(suite.ctx, project))
	return project
}

func (suite *RepositoryTestSuite) createTask(title string, projectID, assigneeID uint64) *models.Task {
	task := &models.Task{
		Title:       title,
		Description: "desc",
		Deadline:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ProjectID:   projectID,
		AssigneeID:  assigneeID,
	}
	suite.Require().NoError(suite.tasks.Create(suite.ctx, task))
	return task
}

func (suite *RepositoryTestSuite) countTasks(projectID uint64) int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Where("project_id = ?", projectID).Count(&count).Error)
	return count
}

func (suite *RepositoryTestSuite) TestCreateIfAbsent_Duplicates() {
	alice := suite.createUser("alice")
	suite.NotZero(alice.ID)

	err := suite.users.CreateIfAbsent(suite.ctx, &models.User{
		Username:     "alice-again",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
	})
	suite.ErrorIs(err, ErrEmailTaken)

	err = suite.users.CreateIfAbsent(suite.ctx, &models.User{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "hashed",
	})
	suite.ErrorIs(err, ErrUsernameTaken)

	users, err := suite.users.List(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Len(users, 1)
}

func (suite *RepositoryTestSuite) TestFindUser() {
	alice := suite.createUser("alice")

	byID, err := suite.users.FindByID(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.Equal("alice", byID.Username)

	byEmail, err := suite.users.FindByEmail(suite.ctx, "alice@example.com")
	suite.Require().NoError(err)
	suite.Equal(alice.ID, byEmail.ID)

	_, err = suite.users.FindByEmail(suite.ctx, "nobody@example.com")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	_, err = suite.users.FindByID(suite.ctx, 999)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *RepositoryTestSuite) TestListUsers_Ordered() {
	suite.createUser("carol")
	suite.createUser("alice")
	suite.createUser("bob")

	users, err := suite.users.List(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Require().Len(users, 3)
	suite.Equal([]string{"carol", "alice", "bob"}, []string{users[0].Username, users[1].Username, users[2].Username})

	page := utils.NewPaginationParams(2, 2)
	users, err = suite.users.List(suite.ctx, &page)
	suite.Require().NoError(err)
	suite.Require().Len(users, 1)
	suite.Equal("bob", users[0].Username)
}

func (suite *RepositoryTestSuite) TestProjects_OwnerScoped() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")

	roadmap := suite.createProject("Roadmap", alice.ID)
	suite.createProject("Backlog", alice.ID)
	suite.createProject("Bob's", bob.ID)

	owned, err := suite.projects.ListByOwner(suite.ctx, alice.ID, nil)
	suite.Require().NoError(err)
	suite.Require().Len(owned, 2)
	suite.Equal("Roadmap", owned[0].Name)
	suite.Equal("Backlog", owned[1].Name)

	_, err = suite.projects.FindOwned(suite.ctx, roadmap.ID, bob.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	found, err := suite.projects.FindOwned(suite.ctx, roadmap.ID, alice.ID)
	suite.Require().NoError(err)
	suite.Equal(roadmap.ID, found.ID)

	empty, err := suite.projects.ListByOwner(suite.ctx, 999, nil)
	suite.Require().NoError(err)
	suite.NotNil(empty)
	suite.Empty(empty)
}

func (suite *RepositoryTestSuite) TestDeleteOwnedWithTasks_Cascades() {
	alice := suite.createUser("alice")
	roadmap := suite.createProject("Roadmap", alice.ID)
	other := suite.createProject("Other", alice.ID)
	suite.createTask("one", roadmap.ID, alice.ID)
	suite.createTask("two", roadmap.ID, alice.ID)
	kept := suite.createTask("kept", other.ID, alice.ID)

	suite.Require().NoError(suite.projects.DeleteOwnedWithTasks(suite.ctx, roadmap.ID, alice.ID))

	_, err := suite.projects.FindByID(suite.ctx, roadmap.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
	suite.Zero(suite.countTasks(roadmap.ID))

	_, err = suite.tasks.FindByID(suite.ctx, kept.ID)
	suite.NoError(err)
}

func (suite *RepositoryTestSuite) TestDeleteOwnedWithTasks_NotOwner() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	roadmap := suite.createProject("Roadmap", alice.ID)
	suite.createTask("one", roadmap.ID, alice.ID)

	err := suite.projects.DeleteOwnedWithTasks(suite.ctx, roadmap.ID, bob.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	_, err = suite.projects.FindByID(suite.ctx, roadmap.ID)
	suite.NoError(err)
	suite.Equal(int64(1), suite.countTasks(roadmap.ID))
}

func (suite *RepositoryTestSuite) TestListByProject_ResolvesNames() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	roadmap := suite.createProject("Roadmap", alice.ID)
	other := suite.createProject("Other", alice.ID)

	first := suite.createTask("Design", roadmap.ID, alice.ID)
	second := suite.createTask("Build", roadmap.ID, bob.ID)
	suite.createTask("Elsewhere", other.ID, alice.ID)

	views, err := suite.tasks.ListByProject(suite.ctx, roadmap.ID, nil)
	suite.Require().NoError(err)
	suite.Require().Len(views, 2)

	suite.Equal(first.ID, views[0].ID)
	suite.Equal("Design", views[0].Title)
	suite.Equal("alice", views[0].AssigneeUsername)
	suite.Equal("Roadmap", views[0].ProjectName)
	suite.True(views[0].Deadline.Equal(first.Deadline))

	suite.Equal(second.ID, views[1].ID)
	suite.Equal("bob", views[1].AssigneeUsername)

	page := utils.NewPaginationParams(2, 1)
	views, err = suite.tasks.ListByProject(suite.ctx, roadmap.ID, &page)
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.Equal(second.ID, views[0].ID)
}

func (suite *RepositoryTestSuite) TestDeleteTask() {
	alice := suite.createUser("alice")
	roadmap := suite.createProject("Roadmap", alice.ID)
	doomed := suite.createTask("doomed", roadmap.ID, alice.ID)
	survivor := suite.createTask("survivor", roadmap.ID, alice.ID)

	suite.Require().NoError(suite.tasks.Delete(suite.ctx, doomed.ID))

	_, err := suite.tasks.FindByID(suite.ctx, doomed.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
	_, err = suite.tasks.FindByID(suite.ctx, survivor.ID)
	suite.NoError(err)

	err = suite.tasks.Delete(suite.ctx, doomed.ID)
	suite.True(errors.Is(err, gorm.ErrRecordNotFound))
	suite.Equal(int64(1), suite.countTasks(roadmap.ID))
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
