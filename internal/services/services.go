package services

import (
	"context"
	"errors"
	"time"

	"github.com/jvaldemoro/timetrack/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserInactive         = errors.New("user inactive")
	ErrUserPasswordMismatch = errors.New("user password mismatch")

	ErrDepartmentNotFound      = errors.New("department not found")
	ErrDepartmentAlreadyExists = errors.New("department already exists")
	ErrDepartmentHasTasks      = errors.New("department has tasks")
)

type AuthService interface {
	// Register creates a user with the given email and role and a
	// hashed password. It returns ErrUserAlreadyExists if the email
	// is taken.
	Register(ctx context.Context, params RegisterParams) (*models.User, error)

	// Login authenticates by email and password and issues a signed
	// token carrying the user's id and role.
	//
	// It returns ErrUserNotFound for unknown emails, ErrUserInactive
	// for deactivated accounts and ErrUserPasswordMismatch if the
	// password doesn't match.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Profile returns the user behind an authenticated request.
	Profile(ctx context.Context, userID string) (*models.User, error)

	// ParseToken verifies a token and returns its identity claims.
	ParseToken(token string) (*TokenClaims, error)
}

type UserService interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	CreateUser(ctx context.Context, params RegisterParams) (*models.User, error)

	// UpdateUser patches name, email, role and active flag. It
	// returns ErrUserAlreadyExists if the new email is taken.
	UpdateUser(ctx context.Context, params UpdateUserParams) (*models.User, error)
}

type DepartmentService interface {
	ListDepartments(ctx context.Context) ([]*models.Department, error)
	GetDepartment(ctx context.Context, departmentID string) (*models.Department, error)
	CreateDepartment(ctx context.Context, name string) (*models.Department, error)
	UpdateDepartment(ctx context.Context, departmentID, name string) (*models.Department, error)

	// DeleteDepartment refuses to delete a department that still has
	// tasks, returning ErrDepartmentHasTasks.
	DeleteDepartment(ctx context.Context, departmentID string) error
}

type TaskService interface {
	// CreateTask is admin-only; the assignee (and the department, if
	// given) must resolve or the call fails with a not-found error.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTask returns a task; employees may only fetch their own.
	GetTask(ctx context.Context, taskID, actorID, actorRole string) (*models.Task, error)

	// ListTasks applies the optional filters; employees are always
	// scoped to tasks assigned to them.
	ListTasks(ctx context.Context, params ListTasksParams) ([]*models.Task, error)

	// UpdateTask applies a patch after the access policy admits every
	// touched field for the actor. hoursSpent is not patchable.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask is admin-only.
	DeleteTask(ctx context.Context, taskID, actorRole string) error
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginParams struct {
	Email    string
	Password string
}

type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type TokenClaims struct {
	UserID string
	Role   string
}

type UpdateUserParams struct {
	UserID   string
	Name     *string
	Email    *string
	Role     *string
	IsActive *bool
}

type CreateTaskParams struct {
	ActorRole     string
	Title         string
	Description   string
	AssignedToID  string
	RequestedByID string
	DepartmentID  *string
}

type ListTasksParams struct {
	ActorID      string
	ActorRole    string
	AssignedToID string
	DepartmentID string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// TaskPatch carries only the fields the caller means to change; nil
// means "leave alone". There is deliberately no HoursSpent here: the
// value is derived and any attempt to send it is dropped before the
// patch is built.
type TaskPatch struct {
	Title           *string
	Description     *string
	Status          *string
	AssignedToID    *string
	DepartmentID    *string
	StartDate       *time.Time
	WorkDescription *string
}

type UpdateTaskParams struct {
	TaskID    string
	ActorID   string
	ActorRole string
	Patch     TaskPatch
}
