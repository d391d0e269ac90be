package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recetario/internal/client/client"
	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/common"
	"github.com/dmitrijs2005/recetario/internal/logging"
)

const (
	minRating = 1
	maxRating = 5
	maxPeople = 100
)

// ErrMediaDisabled is returned when a photo is attached but no uploader is
// configured.
var ErrMediaDisabled = errors.New("media upload is not configured")

// MediaUploader stores a local file remotely.
type MediaUploader interface {
	Upload(ctx context.Context, path string) (models.Media, error)
}

// RecipeService groups the recipe operations the screens use.
type RecipeService interface {
	Search(ctx context.Context, f models.FilterState) (models.PagedResult[models.RecipeSummary], error)
	Get(ctx context.Context, id int64) (models.Recipe, error)
	Rate(ctx context.Context, id int64, r models.Rating) error
	Create(ctx context.Context, r models.NewRecipe, photoPath string) (models.Recipe, error)
	Scale(ctx context.Context, id int64, people int) (models.ModifiedRecipe, error)
}

type recipeService struct {
	client   client.Client
	session  *SessionStore
	uploader MediaUploader
	log      logging.Logger
}

// NewRecipeService wires the recipe operations. uploader may be nil, in
// which case creating a recipe with a photo fails with ErrMediaDisabled.
func NewRecipeService(c client.Client, session *SessionStore, uploader MediaUploader, log logging.Logger) RecipeService {
	if log == nil {
		log = logging.Nop()
	}
	return &recipeService{client: c, session: session, uploader: uploader, log: log}
}

func (s *recipeService) Search(ctx context.Context, f models.FilterState) (models.PagedResult[models.RecipeSummary], error) {
	return s.client.SearchRecipes(ctx, f)
}

func (s *recipeService) Get(ctx context.Context, id int64) (models.Recipe, error) {
	return s.client.GetRecipe(ctx, id)
}

func (s *recipeService) Rate(ctx context.Context, id int64, r models.Rating) error {
	if !s.session.IsAuthenticated() {
		return common.ErrNotAuthenticated
	}
	if err := models.NewValidator().Range("rating", r.Score, minRating, maxRating).Err(); err != nil {
		return err
	}
	return s.client.RateRecipe(ctx, id, r)
}

func validateNewRecipe(r models.NewRecipe) error {
	v := models.NewValidator().
		Required("nombre", r.Name).
		Range("cantidadPersonas", r.Personas, 1, maxPeople)
	if len(r.Ingredients) == 0 {
		v.Required("ingredientes", "")
	}
	for i, in := range r.Ingredients {
		v.Required(fmt.Sprintf("ingredientes[%d].nombre", i), in.Name)
	}
	if len(r.Steps) == 0 {
		v.Required("pasos", "")
	}
	return v.Err()
}

// Create uploads the photo first (when given) and then creates the recipe
// with the returned URL as its main photo.
func (s *recipeService) Create(ctx context.Context, r models.NewRecipe, photoPath string) (models.Recipe, error) {
	if !s.session.IsAuthenticated() {
		return models.Recipe{}, common.ErrNotAuthenticated
	}
	if err := validateNewRecipe(r); err != nil {
		return models.Recipe{}, err
	}

	if photoPath != "" {
		if s.uploader == nil {
			return models.Recipe{}, ErrMediaDisabled
		}
		media, err := s.uploader.Upload(ctx, photoPath)
		if err != nil {
			return models.Recipe{}, fmt.Errorf("photo upload error: %w", err)
		}
		s.log.Debug(ctx, "photo uploaded", "path", media.Path)
		r.PhotoURL = media.URL
	}

	for i := range r.Steps {
		if r.Steps[i].Order == 0 {
			r.Steps[i].Order = i + 1
		}
	}

	return s.client.CreateRecipe(ctx, r)
}

// Scale fetches recipe id and derives its variant for people diners.
func (s *recipeService) Scale(ctx context.Context, id int64, people int) (models.ModifiedRecipe, error) {
	if err := models.NewValidator().Range("cantidadPersonas", people, 1, maxPeople).Err(); err != nil {
		return models.ModifiedRecipe{}, err
	}
	r, err := s.client.GetRecipe(ctx, id)
	if err != nil {
		return models.ModifiedRecipe{}, err
	}
	return models.ScaleRecipe(r, people), nil
}
