package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/client/search"
	"github.com/dmitrijs2005/recetario/internal/common"
)

// getMultiline and getLines are swapped in tests like getSimpleText.
var getMultiline = GetMultiline
var getLines = GetLines

// optionalID parses an id argument; no argument or "0" clears the filter.
func optionalID(args []string) (int64, error) {
	if len(args) == 0 || args[0] == "0" {
		return 0, nil
	}
	return parseID(args[0])
}

// Filter edits one field of the recipe search. The request is sent once the
// debounce window passes without further edits.
func (a *App) Filter(_ context.Context, field string, args []string) error {
	switch field {
	case "search":
		a.search.SetName(strings.Join(args, " "))
	case "author":
		a.search.SetUserName(strings.Join(args, " "))
	case "rating":
		rating := 0
		if len(args) > 0 {
			n, err := parseInt("rating", args[0])
			if err != nil {
				return err
			}
			if err := models.NewValidator().Range("rating", n, 0, 5).Err(); err != nil {
				return err
			}
			rating = n
		}
		a.search.SetRating(rating)
	case "include", "exclude", "type":
		id, err := optionalID(args)
		if err != nil {
			return err
		}
		switch field {
		case "include":
			a.search.IncludeIngredient(id)
		case "exclude":
			a.search.ExcludeIngredient(id)
		default:
			a.search.SetTipoReceta(id)
		}
	case "sort":
		a.search.SetSort(args...)
	default:
		return usageError("search|author|rating|include|exclude|type|sort <value>")
	}
	return nil
}

// ClearFilters resets the search and reloads the first page.
func (a *App) ClearFilters(_ context.Context) error {
	a.search.ClearFilters()
	return nil
}

// searchChanged is the controller's change callback. It announces finished
// loads so the user knows to type list.
func (a *App) searchChanged() {
	st := a.search.State()
	switch st.Status {
	case search.Loaded:
		printlnFn(fmt.Sprintf("%d recipes found, %d shown (type list)", st.TotalElements, len(st.Content)))
	case search.Error:
		printlnFn("Search failed:", userMessage(st.Err))
	}
}

// Results prints the recipes loaded so far. It starts a search when none has
// run yet or a filter edit is pending, and waits for one in flight.
func (a *App) Results(_ context.Context) error {
	pending := a.search.Pending()
	st := a.search.State()
	if st.Status == search.Idle || pending {
		a.search.Refresh()
		st.Status = search.Loading
	}
	if st.Status == search.Loading {
		a.search.Wait()
		st = a.search.State()
	}

	if st.Status == search.Error {
		printlnFn("Search failed:", userMessage(st.Err))
	}
	if len(st.Content) == 0 {
		printlnFn("No recipes")
		return nil
	}

	for _, r := range st.Content {
		printlnFn(formatSummary(r))
	}
	printlnFn(fmt.Sprintf("page %s, %d recipes", formatPager(st.TotalPages, st.CurrentPage), st.TotalElements))
	if st.HasMore() {
		printlnFn("type more for the next page")
	}
	return nil
}

// More appends the next page and prints the list.
func (a *App) More(ctx context.Context) error {
	if a.search.Pending() {
		return a.Results(ctx)
	}
	if !a.search.LoadMore() {
		printlnFn("No more recipes")
		return nil
	}
	a.search.Wait()
	return a.Results(ctx)
}

// Show prints one recipe.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("show <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	r, err := a.recipeService.Get(ctx, id)
	if err != nil {
		return err
	}
	printLines(formatRecipe(r))
	return nil
}

// Scale prints a recipe scaled to a number of people and offers to keep the
// variant on this device.
func (a *App) Scale(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("scale <id> <people>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	people, err := parseInt("people", args[1])
	if err != nil {
		return err
	}

	variant, err := a.recipeService.Scale(ctx, id, people)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("%s for %d people (originally %d):", variant.Name, variant.CantidadPersonas, variant.BasePersonas))
	printLines(formatIngredients(variant.Ingredients))

	keep, err := a.askYesNo("Save this version?", true)
	if err != nil || !keep {
		return err
	}

	res, err := a.modified.Save(ctx, variant)
	if err != nil {
		return err
	}
	if !res.OK() {
		printlnFn(res.Message)
		return nil
	}
	printlnFn("Saved as", res.Recipe.ModifiedID)
	return nil
}

// Modified lists the scaled recipes kept on this device.
func (a *App) Modified(_ context.Context) error {
	items := a.modified.List()
	if len(items) == 0 {
		printlnFn("No modified recipes")
		return nil
	}
	for _, m := range items {
		printLines(formatModified(m))
	}
	return nil
}

// Unsave removes a modified recipe by its id.
func (a *App) Unsave(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("unsave <modified id>")
	}

	res, err := a.modified.Remove(ctx, args[0])
	if err != nil {
		return err
	}
	printlnFn(res.Message)
	return nil
}

// Rate scores a recipe from 1 to 5 with an optional comment.
func (a *App) Rate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("rate <id> <1-5> [comment]")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	score, err := parseInt("score", args[1])
	if err != nil {
		return err
	}

	r := models.Rating{Score: score, Comment: strings.Join(args[2:], " ")}
	if err := a.recipeService.Rate(ctx, id, r); err != nil {
		return err
	}
	printlnFn("Thanks for rating!")
	return nil
}

// Create collects a new recipe interactively and submits it.
func (a *App) Create(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}

	var (
		r   models.NewRecipe
		err error
	)
	if r.Name, err = getSimpleText(a.reader, "Recipe name", a.out); err != nil {
		return err
	}
	if r.Description, err = getMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}

	people, err := getSimpleText(a.reader, "Serves how many people?", a.out)
	if err != nil {
		return err
	}
	if r.Personas, err = parseInt("people", people); err != nil {
		return err
	}

	kind, err := getSimpleText(a.reader, "Recipe type id (blank for none)", a.out)
	if err != nil {
		return err
	}
	if kind != "" {
		if r.TipoRecetaID, err = parseID(kind); err != nil {
			return err
		}
	}

	ingredients, err := getLines(a.reader, "Ingredients, one per line as: quantity unit name", a.out)
	if err != nil {
		return err
	}
	for _, line := range ingredients {
		in, err := parseIngredient(line)
		if err != nil {
			return err
		}
		r.Ingredients = append(r.Ingredients, in)
	}

	steps, err := getLines(a.reader, "Steps, one per line", a.out)
	if err != nil {
		return err
	}
	for _, s := range steps {
		r.Steps = append(r.Steps, models.Step{Text: strings.TrimSpace(s)})
	}

	photo, err := getSimpleText(a.reader, "Photo file (blank for none)", a.out)
	if err != nil {
		return err
	}

	created, err := a.recipeService.Create(ctx, r, photo)
	if err != nil {
		return err
	}

	if created.Approved {
		printlnFn(fmt.Sprintf("Recipe #%d created", created.ID))
	} else {
		printlnFn(fmt.Sprintf("Recipe #%d created, pending approval", created.ID))
	}
	return nil
}
