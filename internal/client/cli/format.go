package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recetario/internal/client/client"
	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/client/search"
	"github.com/dmitrijs2005/recetario/internal/client/services"
	"github.com/dmitrijs2005/recetario/internal/common"
)

// usageError is returned when a command is called with the wrong arguments.
type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

// userMessage turns an error into the line shown to the user.
func userMessage(err error) string {
	var (
		usage    usageError
		invalid  models.ValidationErrors
		reqErr   *client.RequestError
		parseErr *client.ParseError
	)

	switch {
	case errors.As(err, &usage):
		return usage.Error()
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.Is(err, common.ErrNotAuthenticated):
		return "please log in first"
	case errors.As(err, &reqErr):
		if errors.Is(reqErr, client.ErrUnauthorized) {
			return "not allowed: " + reqErr.Message
		}
		return reqErr.Message
	case errors.As(err, &parseErr):
		return "unexpected answer from the server"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, services.ErrMediaDisabled):
		return "photo upload is not configured"
	}
	return err.Error()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return n, nil
}

// parseIngredient reads "quantity unit name...", e.g. "200 g flour".
// A line without a leading number is an ingredient without quantity.
func parseIngredient(line string) (models.Ingredient, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return models.Ingredient{}, errors.New("empty ingredient")
	}

	q, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", "."), 64)
	if err != nil {
		return models.Ingredient{Name: strings.Join(fields, " ")}, nil
	}
	if len(fields) < 3 {
		return models.Ingredient{}, fmt.Errorf("ingredient %q: want quantity, unit and name", line)
	}
	return models.Ingredient{
		Quantity: q,
		Unit:     fields[1],
		Name:     strings.Join(fields[2:], " "),
	}, nil
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// formatPager renders the page links under a list, marking the current one.
func formatPager(totalPages, current int) string {
	pages := search.Pages(totalPages, current)
	if len(pages) == 0 {
		return ""
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		switch {
		case p == search.Ellipsis:
			parts[i] = "…"
		case p == current:
			parts[i] = fmt.Sprintf("[%d]", p+1)
		default:
			parts[i] = strconv.Itoa(p + 1)
		}
	}
	return strings.Join(parts, " ")
}

func formatSummary(r models.RecipeSummary) string {
	s := fmt.Sprintf("#%d %s by %s (%.1f★)", r.ID, r.Name, r.UserName, r.Rating)
	if r.TipoReceta != "" {
		s += " [" + r.TipoReceta + "]"
	}
	return s
}

func formatIngredients(in []models.Ingredient) []string {
	lines := make([]string, 0, len(in))
	for _, i := range in {
		line := "  - "
		if i.Quantity > 0 {
			line += formatQuantity(i.Quantity) + " " + i.Unit + " "
		}
		line += i.Name
		if i.Notes != "" {
			line += " (" + i.Notes + ")"
		}
		lines = append(lines, line)
	}
	return lines
}

func formatSteps(steps []models.Step) []string {
	lines := make([]string, 0, len(steps))
	for i, s := range steps {
		n := s.Order
		if n == 0 {
			n = i + 1
		}
		lines = append(lines, fmt.Sprintf("  %d. %s", n, s.Text))
	}
	return lines
}

func formatRecipe(r models.Recipe) []string {
	out := []string{
		fmt.Sprintf("#%d %s (%.1f★)", r.ID, r.Name, r.Rating),
		fmt.Sprintf("by %s, serves %d", r.UserName, r.Personas),
	}
	if r.Description != "" {
		out = append(out, r.Description)
	}
	if r.PhotoURL != "" {
		out = append(out, "photo: "+r.PhotoURL)
	}
	out = append(out, "Ingredients:")
	out = append(out, formatIngredients(r.Ingredients)...)
	out = append(out, "Steps:")
	out = append(out, formatSteps(r.Steps)...)
	return out
}

func formatModified(m models.ModifiedRecipe) []string {
	out := []string{
		fmt.Sprintf("%s  %s for %d (originally %d)", m.ModifiedID, m.Name, m.CantidadPersonas, m.BasePersonas),
	}
	out = append(out, formatIngredients(m.Ingredients)...)
	return out
}

func formatCourse(c models.Course) []string {
	out := []string{fmt.Sprintf("#%d %s  $%.2f", c.ID, c.Name, c.Price)}
	if c.Modality != "" {
		out = append(out, "modality: "+c.Modality)
	}
	if c.Description != "" {
		out = append(out, c.Description)
	}
	if c.Contents != "" {
		out = append(out, "contents: "+c.Contents)
	}
	for _, s := range c.Schedules {
		out = append(out, fmt.Sprintf("  schedule #%d at %s, %s to %s, %d places left",
			s.ID, s.Branch, s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"), s.Vacancies))
	}
	return out
}

func printLines(lines []string) {
	for _, l := range lines {
		printlnFn(l)
	}
}
