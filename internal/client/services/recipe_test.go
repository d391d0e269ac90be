package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recetario/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedInSession(t *testing.T) *SessionStore {
	t.Helper()
	s := NewSessionStore(metadata.NewMemoryRepository(), nil)
	require.NoError(t, s.Login(context.Background(), loginData("tok")))
	return s
}

func sampleNewRecipe() models.NewRecipe {
	return models.NewRecipe{
		Name:        "Tarta de manzana",
		Personas:    4,
		Ingredients: []models.Ingredient{{Name: "manzana", Quantity: 3, Unit: "u"}},
		Steps:       []models.Step{{Text: "Pelar"}, {Text: "Hornear"}},
	}
}

func TestRecipeService_Rate(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}

	anon := NewRecipeService(fc, NewSessionStore(metadata.NewMemoryRepository(), nil), nil, nil)
	require.ErrorIs(t, anon.Rate(ctx, 1, models.Rating{Score: 5}), common.ErrNotAuthenticated)

	svc := NewRecipeService(fc, loggedInSession(t), nil, nil)
	var verrs models.ValidationErrors
	require.ErrorAs(t, svc.Rate(ctx, 1, models.Rating{Score: 6}), &verrs)
	require.ErrorAs(t, svc.Rate(ctx, 1, models.Rating{Score: 0}), &verrs)
	assert.Empty(t, fc.Rated)

	require.NoError(t, svc.Rate(ctx, 1, models.Rating{Score: 4, Comment: "rica"}))
	assert.Equal(t, []models.Rating{{Score: 4, Comment: "rica"}}, fc.Rated)
}

func TestRecipeService_CreateUploadsPhotoFirst(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	up := &fakeUploader{}
	svc := NewRecipeService(fc, loggedInSession(t), up, nil)

	created, err := svc.Create(ctx, sampleNewRecipe(), "/tmp/tarta.jpg")
	require.NoError(t, err)

	assert.Equal(t, []string{"/tmp/tarta.jpg"}, up.paths)
	require.Len(t, fc.Created, 1)
	assert.Equal(t, "https://cdn.example/recipes/x.jpg", fc.Created[0].PhotoURL)
	assert.Equal(t, 1, fc.Created[0].Steps[0].Order)
	assert.Equal(t, 2, fc.Created[0].Steps[1].Order)
	assert.Equal(t, int64(99), created.ID)
}

func TestRecipeService_CreateFailures(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}

	noMedia := NewRecipeService(fc, loggedInSession(t), nil, nil)
	_, err := noMedia.Create(ctx, sampleNewRecipe(), "/tmp/a.jpg")
	require.ErrorIs(t, err, ErrMediaDisabled)

	failing := NewRecipeService(fc, loggedInSession(t), &fakeUploader{err: errors.New("bucket gone")}, nil)
	_, err = failing.Create(ctx, sampleNewRecipe(), "/tmp/a.jpg")
	require.Error(t, err)

	invalid := sampleNewRecipe()
	invalid.Ingredients = nil
	invalid.Personas = 0
	_, err = noMedia.Create(ctx, invalid, "")
	var verrs models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)

	assert.Empty(t, fc.Created)

	_, err = noMedia.Create(ctx, sampleNewRecipe(), "")
	require.NoError(t, err)
	assert.Len(t, fc.Created, 1)
}

func TestRecipeService_Scale(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{Recipes: map[int64]models.Recipe{
		5: {ID: 5, Name: "Guiso", Personas: 4, Ingredients: []models.Ingredient{{Name: "papa", Quantity: 3}}},
	}}
	svc := NewRecipeService(fc, NewSessionStore(metadata.NewMemoryRepository(), nil), nil, nil)

	m, err := svc.Scale(ctx, 5, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(5), m.OriginalRecipeID)
	assert.Equal(t, 6, m.CantidadPersonas)
	assert.InDelta(t, 4.5, m.Ingredients[0].Quantity, 0.001)

	_, err = svc.Scale(ctx, 5, 0)
	require.Error(t, err)

	_, err = svc.Scale(ctx, 404, 2)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestRecipeService_SearchAndGet(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{Recipes: map[int64]models.Recipe{1: {ID: 1, Name: "Flan"}}}
	svc := NewRecipeService(fc, NewSessionStore(metadata.NewMemoryRepository(), nil), nil, nil)

	page, err := svc.Search(ctx, models.FilterState{})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)

	r, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Flan", r.Name)
}
