package models

import (
	"fmt"
	"math"
	"time"
)

// Ingredient is one line of a recipe.
type Ingredient struct {
	ID       int64   `json:"id"`
	Name     string  `json:"nombre"`
	Quantity float64 `json:"cantidad"`
	Unit     string  `json:"unidad"`
	Notes    string  `json:"observaciones,omitempty"`
}

// Step is one preparation step.
type Step struct {
	Order     int      `json:"nroPaso"`
	Text      string   `json:"texto"`
	MediaURLs []string `json:"multimedia,omitempty"`
}

// Recipe is the full server-side recipe.
type Recipe struct {
	ID           int64        `json:"id"`
	Name         string       `json:"nombre"`
	Description  string       `json:"descripcion"`
	Personas     int          `json:"cantidadPersonas"`
	Portions     int          `json:"porciones,omitempty"`
	TipoRecetaID int64        `json:"tipoRecetaId,omitempty"`
	TipoReceta   string       `json:"tipoReceta,omitempty"`
	UserName     string       `json:"userName,omitempty"`
	Rating       float64      `json:"rating"`
	PhotoURL     string       `json:"fotoPrincipal,omitempty"`
	Ingredients  []Ingredient `json:"ingredientes"`
	Steps        []Step       `json:"pasos"`
	Approved     bool         `json:"aprobada,omitempty"`
}

// RecipeSummary is the list view returned by recipe/page.
type RecipeSummary struct {
	ID         int64   `json:"id"`
	Name       string  `json:"nombre"`
	UserName   string  `json:"userName"`
	Rating     float64 `json:"rating"`
	PhotoURL   string  `json:"fotoPrincipal,omitempty"`
	TipoReceta string  `json:"tipoReceta,omitempty"`
}

// Rating is a user's score and optional comment on a recipe.
type Rating struct {
	Score   int    `json:"puntuacion"`
	Comment string `json:"comentario,omitempty"`
}

// NewRecipe is the create-recipe payload.
type NewRecipe struct {
	Name         string       `json:"nombre"`
	Description  string       `json:"descripcion"`
	Personas     int          `json:"cantidadPersonas"`
	Portions     int          `json:"porciones,omitempty"`
	TipoRecetaID int64        `json:"tipoRecetaId"`
	PhotoURL     string       `json:"fotoPrincipal,omitempty"`
	Ingredients  []Ingredient `json:"ingredientes"`
	Steps        []Step       `json:"pasos"`
}

// Media is an uploaded file: the public URL and its path in the bucket.
type Media struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// ModifiedRecipe is a recipe scaled locally to a different number of people.
type ModifiedRecipe struct {
	ModifiedID       string       `json:"modifiedId"`
	OriginalRecipeID int64        `json:"originalRecipeId"`
	CantidadPersonas int          `json:"cantidadPersonas"`
	BasePersonas     int          `json:"basePersonas"`
	Name             string       `json:"nombre"`
	Description      string       `json:"descripcion"`
	PhotoURL         string       `json:"fotoPrincipal,omitempty"`
	Ingredients      []Ingredient `json:"ingredientes"`
	Steps            []Step       `json:"pasos"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// SameVariant reports whether m and other scale the same recipe to the same
// number of people.
func (m ModifiedRecipe) SameVariant(other ModifiedRecipe) bool {
	return m.OriginalRecipeID == other.OriginalRecipeID && m.CantidadPersonas == other.CantidadPersonas
}

// NewModifiedID composes the identifier assigned when a variant is saved.
func NewModifiedID(originalID int64, people int, at time.Time) string {
	return fmt.Sprintf("%d-%d-%d", originalID, people, at.UnixMilli())
}

// ScaleRecipe derives a variant of r for people diners. Quantities scale
// linearly with people/r.Personas and are rounded to two decimals. A recipe
// without a base people count is treated as serving one.
func ScaleRecipe(r Recipe, people int) ModifiedRecipe {
	base := r.Personas
	if base <= 0 {
		base = 1
	}
	factor := float64(people) / float64(base)

	ingredients := make([]Ingredient, len(r.Ingredients))
	for i, in := range r.Ingredients {
		in.Quantity = math.Round(in.Quantity*factor*100) / 100
		ingredients[i] = in
	}

	steps := make([]Step, len(r.Steps))
	copy(steps, r.Steps)

	return ModifiedRecipe{
		OriginalRecipeID: r.ID,
		CantidadPersonas: people,
		BasePersonas:     base,
		Name:             r.Name,
		Description:      r.Description,
		PhotoURL:         r.PhotoURL,
		Ingredients:      ingredients,
		Steps:            steps,
	}
}
