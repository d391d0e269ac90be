package services

import (
	"context"

	"github.com/dmitrijs2005/recetario/internal/client/client"
	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/common"
)

// CourseService forwards course actions to the server, which owns pricing,
// vacancies and attendance approval.
type CourseService interface {
	Search(ctx context.Context, f models.FilterState) (models.PagedResult[models.Course], error)
	Get(ctx context.Context, id int64) (models.Course, error)
	Buy(ctx context.Context, courseID, scheduleID int64) (models.Purchase, error)
	Attend(ctx context.Context, courseID int64) (models.Attendance, error)
}

type courseService struct {
	client  client.Client
	session *SessionStore
}

func NewCourseService(c client.Client, session *SessionStore) CourseService {
	return &courseService{client: c, session: session}
}

func (s *courseService) Search(ctx context.Context, f models.FilterState) (models.PagedResult[models.Course], error) {
	return s.client.SearchCourses(ctx, f)
}

func (s *courseService) Get(ctx context.Context, id int64) (models.Course, error) {
	return s.client.GetCourse(ctx, id)
}

func (s *courseService) Buy(ctx context.Context, courseID, scheduleID int64) (models.Purchase, error) {
	if !s.session.IsAuthenticated() {
		return models.Purchase{}, common.ErrNotAuthenticated
	}
	return s.client.BuyCourse(ctx, courseID, scheduleID)
}

func (s *courseService) Attend(ctx context.Context, courseID int64) (models.Attendance, error) {
	if !s.session.IsAuthenticated() {
		return models.Attendance{}, common.ErrNotAuthenticated
	}
	return s.client.MarkAttendance(ctx, courseID)
}
