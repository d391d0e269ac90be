package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/recetario/internal/client/client"
	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/client/repositories/metadata"
)

var errStorage = errors.New("disk full")

// failingRepo is a memory repository whose writes can be made to fail.
type failingRepo struct {
	*metadata.MemoryRepository

	mu      sync.Mutex
	failSet bool
}

func newFailingRepo() *failingRepo {
	return &failingRepo{MemoryRepository: metadata.NewMemoryRepository()}
}

func (r *failingRepo) FailWrites(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failSet = fail
}

func (r *failingRepo) failing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failSet
}

func (r *failingRepo) Set(ctx context.Context, key string, value []byte) error {
	if r.failing() {
		return errStorage
	}
	return r.MemoryRepository.Set(ctx, key, value)
}

func (r *failingRepo) SetMany(ctx context.Context, values map[string][]byte) error {
	if r.failing() {
		return errStorage
	}
	return r.MemoryRepository.SetMany(ctx, values)
}

// fakeChecker answers student checks. When gate is set, calls block until
// the gate for their token is closed.
type fakeChecker struct {
	mu     sync.Mutex
	calls  int
	result map[string]bool
	err    error
	gates  map[string]chan struct{}
}

func newFakeChecker() *fakeChecker {
	return &fakeChecker{result: map[string]bool{}, gates: map[string]chan struct{}{}}
}

func (f *fakeChecker) gate(token string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[token] = ch
	return ch
}

func (f *fakeChecker) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeChecker) IsStudent(ctx context.Context, userID, token string) (bool, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gates[token]
	res, err := f.result[token], f.err
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return res, err
}

// fakeClient implements client.Client; methods a test does not override
// panic through the nil embedded interface.
type fakeClient struct {
	client.Client

	mu sync.Mutex

	LoginRet models.LoginResponse
	LoginErr error

	LastLoginEmail string

	RegisterStep1Calls int
	RegisterStep2Kind  []bool
	ResetCalls         int
	ConfirmCalls       int

	UpgradeErr    error
	UpgradeUserID string

	UpdateUserErr error

	Recipes   map[int64]models.Recipe
	Rated     []models.Rating
	Created   []models.NewRecipe
	CreateErr error

	Bought   []int64
	Attended []int64

	PingErr error
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastLoginEmail = email
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) RegisterStep1(ctx context.Context, req models.RegisterStep1Request) error {
	f.RegisterStep1Calls++
	return nil
}

func (f *fakeClient) RegisterStep2(ctx context.Context, req models.RegisterStep2Request, asStudent bool) error {
	f.RegisterStep2Kind = append(f.RegisterStep2Kind, asStudent)
	return nil
}

func (f *fakeClient) RequestPasswordReset(ctx context.Context, req models.ResetRequest) error {
	f.ResetCalls++
	return nil
}

func (f *fakeClient) ConfirmPasswordReset(ctx context.Context, req models.ResetConfirm) error {
	f.ConfirmCalls++
	return nil
}

func (f *fakeClient) IsStudent(ctx context.Context, userID, token string) (bool, error) {
	return false, nil
}

func (f *fakeClient) UpgradeToStudent(ctx context.Context, userID string, s models.Student) error {
	f.UpgradeUserID = userID
	return f.UpgradeErr
}

func (f *fakeClient) UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate) (models.User, error) {
	return models.User{ID: userID, FirstName: upd.FirstName}, f.UpdateUserErr
}

func (f *fakeClient) GetRecipe(ctx context.Context, id int64) (models.Recipe, error) {
	r, ok := f.Recipes[id]
	if !ok {
		return models.Recipe{}, &client.RequestError{Status: 404, Message: "recipe not found"}
	}
	return r, nil
}

func (f *fakeClient) SearchRecipes(ctx context.Context, fs models.FilterState) (models.PagedResult[models.RecipeSummary], error) {
	out := models.PagedResult[models.RecipeSummary]{TotalPages: 1, IsLastPage: true}
	for _, r := range f.Recipes {
		out.Content = append(out.Content, models.RecipeSummary{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (f *fakeClient) RateRecipe(ctx context.Context, id int64, r models.Rating) error {
	f.Rated = append(f.Rated, r)
	return nil
}

func (f *fakeClient) CreateRecipe(ctx context.Context, r models.NewRecipe) (models.Recipe, error) {
	f.Created = append(f.Created, r)
	return models.Recipe{ID: 99, Name: r.Name, PhotoURL: r.PhotoURL}, f.CreateErr
}

func (f *fakeClient) GetCourse(ctx context.Context, id int64) (models.Course, error) {
	return models.Course{ID: id, Name: "Pastas"}, nil
}

func (f *fakeClient) SearchCourses(ctx context.Context, fs models.FilterState) (models.PagedResult[models.Course], error) {
	return models.PagedResult[models.Course]{Content: []models.Course{{ID: 1}}, TotalPages: 1, IsLastPage: true}, nil
}

func (f *fakeClient) BuyCourse(ctx context.Context, courseID, scheduleID int64) (models.Purchase, error) {
	f.Bought = append(f.Bought, courseID)
	return models.Purchase{CourseID: courseID, ScheduleID: scheduleID, Status: "OK"}, nil
}

func (f *fakeClient) MarkAttendance(ctx context.Context, courseID int64) (models.Attendance, error) {
	f.Attended = append(f.Attended, courseID)
	return models.Attendance{CourseID: courseID, Approved: true}, nil
}

// fakeUploader records uploads.
type fakeUploader struct {
	paths []string
	err   error
}

func (u *fakeUploader) Upload(ctx context.Context, path string) (models.Media, error) {
	u.paths = append(u.paths, path)
	if u.err != nil {
		return models.Media{}, u.err
	}
	return models.Media{URL: "https://cdn.example/recipes/x.jpg", Path: "recipes/x.jpg"}, nil
}
