package client

import (
	"context"

	"github.com/dmitrijs2005/recetario/internal/client/models"
)

// Client is the server API as the services see it.
type Client interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, email, password string) (models.LoginResponse, error)
	RegisterStep1(ctx context.Context, req models.RegisterStep1Request) error
	RegisterStep2(ctx context.Context, req models.RegisterStep2Request, asStudent bool) error
	RequestPasswordReset(ctx context.Context, req models.ResetRequest) error
	ConfirmPasswordReset(ctx context.Context, req models.ResetConfirm) error
	IsStudent(ctx context.Context, userID, token string) (bool, error)
	GetUser(ctx context.Context, userID string) (models.User, error)
	UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate) (models.User, error)
	UpgradeToStudent(ctx context.Context, userID string, s models.Student) error
	SearchRecipes(ctx context.Context, f models.FilterState) (models.PagedResult[models.RecipeSummary], error)
	GetRecipe(ctx context.Context, id int64) (models.Recipe, error)
	CreateRecipe(ctx context.Context, r models.NewRecipe) (models.Recipe, error)
	RateRecipe(ctx context.Context, id int64, r models.Rating) error
	SearchCourses(ctx context.Context, f models.FilterState) (models.PagedResult[models.Course], error)
	GetCourse(ctx context.Context, id int64) (models.Course, error)
	BuyCourse(ctx context.Context, courseID, scheduleID int64) (models.Purchase, error)
	MarkAttendance(ctx context.Context, courseID int64) (models.Attendance, error)
}

var _ Client = (*HTTPClient)(nil)
