package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/common"
)

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.call(ctx, Request{Path: "ping", DefaultMessage: "server is not responding"}, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.call(ctx, Request{
		Method:         http.MethodPost,
		Path:           "auth/login",
		Body:           models.LoginRequest{Email: email, Password: password},
		DefaultMessage: "invalid email or password",
	}, &out)
	return out, err
}

func (c *HTTPClient) RegisterStep1(ctx context.Context, req models.RegisterStep1Request) error {
	return c.call(ctx, Request{
		Method:         http.MethodPost,
		Path:           "register/step1",
		Body:           req,
		DefaultMessage: "registration could not be started",
	}, nil)
}

// RegisterStep2 completes a registration as a plain user or as a student.
func (c *HTTPClient) RegisterStep2(ctx context.Context, req models.RegisterStep2Request, asStudent bool) error {
	kind := "user"
	if asStudent {
		kind = "student"
	}
	return c.call(ctx, Request{
		Method:         http.MethodPost,
		Path:           "register/step2/" + kind,
		Body:           req,
		DefaultMessage: "registration could not be completed",
	}, nil)
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, req models.ResetRequest) error {
	return c.call(ctx, Request{
		Method:         http.MethodPost,
		Path:           "password/request-reset",
		Body:           req,
		DefaultMessage: "reset code could not be sent",
	}, nil)
}

func (c *HTTPClient) ConfirmPasswordReset(ctx context.Context, req models.ResetConfirm) error {
	return c.call(ctx, Request{
		Method:         http.MethodPost,
		Path:           "password/confirm-reset",
		Body:           req,
		DefaultMessage: "password could not be reset",
	}, nil)
}

// IsStudent asks the server whether userID has a student record. token is
// passed explicitly because the check runs before the session is readable.
// An empty object or a 404 means "not a student".
func (c *HTTPClient) IsStudent(ctx context.Context, userID, token string) (bool, error) {
	p, err := c.Do(ctx, Request{
		Path:           "student/" + userID,
		Token:          token,
		DefaultMessage: "student status unavailable",
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if p.IsText() || p.IsEmpty() {
		return false, nil
	}
	_, isObject := p.Value().(map[string]any)
	return isObject, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, userID string) (models.User, error) {
	var out models.User
	err := c.call(ctx, Request{Path: "user/" + userID, DefaultMessage: "user not found"}, &out)
	return out, err
}

func (c *HTTPClient) UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate) (models.User, error) {
	var out models.User
	err := c.call(ctx, Request{
		Method:         http.MethodPut,
		Path:           "user/" + userID,
		Body:           upd,
		DefaultMessage: "profile could not be updated",
	}, &out)
	return out, err
}

func (c *HTTPClient) UpgradeToStudent(ctx context.Context, userID string, s models.Student) error {
	return c.call(ctx, Request{
		Method:         http.MethodPost,
		Path:           "student/" + userID,
		Body:           s,
		DefaultMessage: "student upgrade failed",
	}, nil)
}

func (c *HTTPClient) SearchRecipes(ctx context.Context, f models.FilterState) (models.PagedResult[models.RecipeSummary], error) {
	var out models.PagedResult[models.RecipeSummary]
	err := c.call(ctx, Request{
		Path:           "recipe/page",
		Query:          f.Query(),
		DefaultMessage: "recipes could not be loaded",
	}, &out)
	return out, err
}

func (c *HTTPClient) GetRecipe(ctx context.Context, id int64) (models.Recipe, error) {
	var out models.Recipe
	err := c.call(ctx, Request{Path: fmt.Sprintf("recipe/%d", id), DefaultMessage: "recipe not found"}, &out)
	return out, err
}

func (c *HTTPClient) CreateRecipe(ctx context.Context, r models.NewRecipe) (models.Recipe, error) {
	var out models.Recipe
	err := c.call(ctx, Request{
		Method:         http.MethodPost,
		Path:           "recipe",
		Body:           r,
		DefaultMessage: "recipe could not be created",
	}, &out)
	return out, err
}

func (c *HTTPClient) RateRecipe(ctx context.Context, id int64, r models.Rating) error {
	return c.call(ctx, Request{
		Method:         http.MethodPost,
		Path:           fmt.Sprintf("recipe/%d/rating", id),
		Body:           r,
		DefaultMessage: "rating could not be saved",
	}, nil)
}

func (c *HTTPClient) SearchCourses(ctx context.Context, f models.FilterState) (models.PagedResult[models.Course], error) {
	var out models.PagedResult[models.Course]
	err := c.call(ctx, Request{
		Path:           "course/page",
		Query:          f.Query(),
		DefaultMessage: "courses could not be loaded",
	}, &out)
	return out, err
}

func (c *HTTPClient) GetCourse(ctx context.Context, id int64) (models.Course, error) {
	var out models.Course
	err := c.call(ctx, Request{Path: fmt.Sprintf("course/%d", id), DefaultMessage: "course not found"}, &out)
	return out, err
}

func (c *HTTPClient) BuyCourse(ctx context.Context, courseID, scheduleID int64) (models.Purchase, error) {
	var out models.Purchase
	err := c.call(ctx, Request{
		Method:         http.MethodPost,
		Path:           fmt.Sprintf("course/%d/buy", courseID),
		Body:           map[string]int64{"cronogramaId": scheduleID},
		DefaultMessage: "course could not be purchased",
	}, &out)
	return out, err
}

func (c *HTTPClient) MarkAttendance(ctx context.Context, courseID int64) (models.Attendance, error) {
	var out models.Attendance
	err := c.call(ctx, Request{
		Method:         http.MethodPost,
		Path:           fmt.Sprintf("course/%d/attendance", courseID),
		DefaultMessage: "attendance could not be registered",
	}, &out)
	return out, err
}
