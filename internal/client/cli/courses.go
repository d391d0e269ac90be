package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recetario/internal/client/models"
)

// Courses lists one page of courses; the optional argument is a 1-based
// page number.
func (a *App) Courses(ctx context.Context, args []string) error {
	page := 0
	if len(args) > 0 {
		n, err := parseInt("page", args[0])
		if err != nil || n < 1 {
			return usageError("courses [page]")
		}
		page = n - 1
	}

	res, err := a.courseService.Search(ctx, models.FilterState{Page: page, Size: a.config.PageSize})
	if err != nil {
		return err
	}
	if len(res.Content) == 0 {
		printlnFn("No courses")
		return nil
	}
	for _, c := range res.Content {
		printlnFn(fmt.Sprintf("#%d %s  $%.2f", c.ID, c.Name, c.Price))
	}
	printlnFn("page", formatPager(res.TotalPages, res.CurrentPage))
	return nil
}

// Course prints one course with its schedules.
func (a *App) Course(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("course <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, err := a.courseService.Get(ctx, id)
	if err != nil {
		return err
	}
	printLines(formatCourse(c))
	return nil
}

// Buy purchases a course. The schedule may be left out when the course has
// only one.
func (a *App) Buy(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("buy <course id> [schedule id]")
	}
	courseID, err := parseID(args[0])
	if err != nil {
		return err
	}

	var scheduleID int64
	if len(args) == 2 {
		if scheduleID, err = parseID(args[1]); err != nil {
			return err
		}
	} else {
		c, err := a.courseService.Get(ctx, courseID)
		if err != nil {
			return err
		}
		if len(c.Schedules) != 1 {
			printLines(formatCourse(c))
			return usageError("buy <course id> <schedule id>")
		}
		scheduleID = c.Schedules[0].ID
	}

	p, err := a.courseService.Buy(ctx, courseID, scheduleID)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Course #%d, schedule #%d: %s ($%.2f)", p.CourseID, p.ScheduleID, p.Status, p.Amount))
	return nil
}

// Attend checks in to a course the user has bought.
func (a *App) Attend(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("attend <course id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	att, err := a.courseService.Attend(ctx, id)
	if err != nil {
		return err
	}

	msg := att.Message
	if msg == "" {
		msg = "attendance rejected"
		if att.Approved {
			msg = "attendance recorded"
		}
	}
	printlnFn(msg)
	return nil
}
