package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Upgrade(ctx context.Context) error
	Profile(ctx context.Context) error
	Forget(ctx context.Context, args []string) error

	Filter(ctx context.Context, field string, args []string) error
	ClearFilters(ctx context.Context) error
	Results(ctx context.Context) error
	More(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Scale(ctx context.Context, args []string) error
	Modified(ctx context.Context) error
	Unsave(ctx context.Context, args []string) error
	Rate(ctx context.Context, args []string) error
	Create(ctx context.Context) error

	Courses(ctx context.Context, args []string) error
	Course(ctx context.Context, args []string) error
	Buy(ctx context.Context, args []string) error
	Attend(ctx context.Context, args []string) error
}

const (
	helpGuest = "Available commands: register, login, reset, forget, " +
		"search, author, rating, include, exclude, type, sort, clear, (l)ist, more, show, scale, modified, unsave, " +
		"courses, course, exit"
	helpUser = "Available commands: whoami, profile, upgrade, logout, " +
		"search, author, rating, include, exclude, type, sort, clear, (l)ist, more, show, scale, modified, unsave, rate, create, " +
		"courses, course, buy, attend, exit"
)

// runREPL starts a simple read–eval–print loop for the recetario CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the remaining tokens to the matching method on a. The loop exits
// on EOF or when the user types "exit" or "quit".
//
// Recipe search commands (search, author, rating, include, exclude, type,
// sort) edit the filter; results arrive after the debounce window and are
// shown with list. Errors returned by handlers are printed and the loop
// continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("recetario %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "reset":
			cmdErr = a.ResetPassword(ctx)
		case "upgrade":
			cmdErr = a.Upgrade(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "forget":
			cmdErr = a.Forget(ctx, args)

		case "search", "author", "rating", "include", "exclude", "type", "sort":
			cmdErr = a.Filter(ctx, cmd, args)
		case "clear":
			cmdErr = a.ClearFilters(ctx)
		case "l", "list":
			cmdErr = a.Results(ctx)
		case "more":
			cmdErr = a.More(ctx)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "scale":
			cmdErr = a.Scale(ctx, args)
		case "modified":
			cmdErr = a.Modified(ctx)
		case "unsave":
			cmdErr = a.Unsave(ctx, args)
		case "rate":
			cmdErr = a.Rate(ctx, args)
		case "create":
			cmdErr = a.Create(ctx)

		case "courses":
			cmdErr = a.Courses(ctx, args)
		case "course":
			cmdErr = a.Course(ctx, args)
		case "buy":
			cmdErr = a.Buy(ctx, args)
		case "attend":
			cmdErr = a.Attend(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", userMessage(cmdErr))
		}

		if err != nil {
			return
		}
	}
}
