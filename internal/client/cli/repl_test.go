package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/recetario/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	errs  map[string]error
}

func (f *fakeExec) record(name string, args ...string) error {
	call := name
	if len(args) > 0 {
		call += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, call)
	return f.errs[name]
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	return f.record("register")
}
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(context.Context) error        { return f.record("whoami") }
func (f *fakeExec) ResetPassword(context.Context) error { return f.record("reset") }
func (f *fakeExec) Upgrade(context.Context) error       { return f.record("upgrade") }
func (f *fakeExec) Profile(context.Context) error       { return f.record("profile") }
func (f *fakeExec) Forget(_ context.Context, args []string) error {
	return f.record("forget", args...)
}
func (f *fakeExec) Filter(_ context.Context, field string, args []string) error {
	return f.record(field, args...)
}
func (f *fakeExec) ClearFilters(context.Context) error { return f.record("clear") }
func (f *fakeExec) Results(context.Context) error      { return f.record("list") }
func (f *fakeExec) More(context.Context) error         { return f.record("more") }
func (f *fakeExec) Show(_ context.Context, args []string) error {
	return f.record("show", args...)
}
func (f *fakeExec) Scale(_ context.Context, args []string) error {
	return f.record("scale", args...)
}
func (f *fakeExec) Modified(context.Context) error { return f.record("modified") }
func (f *fakeExec) Unsave(_ context.Context, args []string) error {
	return f.record("unsave", args...)
}
func (f *fakeExec) Rate(_ context.Context, args []string) error {
	return f.record("rate", args...)
}
func (f *fakeExec) Create(context.Context) error { return f.record("create") }
func (f *fakeExec) Courses(_ context.Context, args []string) error {
	return f.record("courses", args...)
}
func (f *fakeExec) Course(_ context.Context, args []string) error {
	return f.record("course", args...)
}
func (f *fakeExec) Buy(_ context.Context, args []string) error {
	return f.record("buy", args...)
}
func (f *fakeExec) Attend(_ context.Context, args []string) error {
	return f.record("attend", args...)
}

// capturePrintln replaces printlnFn and returns a snapshot function for the
// printed lines. Background search callbacks print too, hence the lock.
func capturePrintln(t *testing.T) func() []string {
	t.Helper()
	var (
		mu    sync.Mutex
		lines []string
	)
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), lines...)
	}
}

func TestRunREPL_DispatchesCommandsWithArgs(t *testing.T) {
	capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"login",
		"search tarta de manzana",
		"rating 4",
		"l",
		"more",
		"show 12",
		"scale 12 6",
		"modified",
		"unsave 12-6-1700000000000",
		"rate 12 5 very good",
		"courses 2",
		"buy 3 7",
		"attend 3",
		"logout",
		"exit",
		"whoami",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login",
		"search tarta de manzana",
		"rating 4",
		"list",
		"more",
		"show 12",
		"scale 12 6",
		"modified",
		"unsave 12-6-1700000000000",
		"rate 12 5 very good",
		"courses 2",
		"buy 3 7",
		"attend 3",
		"logout",
	}, exec.calls, "nothing runs after exit")
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("help\nlogin\nhelp\nquit\n")))

	var helps []string
	for _, l := range lines() {
		if strings.HasPrefix(l, "Available commands") {
			helps = append(helps, l)
		}
	}
	require.Len(t, helps, 2)
	assert.Equal(t, helpGuest, helps[0])
	assert.Equal(t, helpUser, helps[1])
	assert.Contains(t, helpUser, "create")
	assert.NotContains(t, helpGuest, "create")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{errs: map[string]error{
		"rate": common.ErrNotAuthenticated,
		"show": usageError("show <id>"),
	}}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("rate 1 5\nshow\nfoobar\nmodified\n")))

	assert.Equal(t, []string{"rate 1 5", "show", "modified"}, exec.calls)
	assert.Contains(t, lines(), "Error: please log in first")
	assert.Contains(t, lines(), "Error: usage: show <id>")
	assert.Contains(t, lines(), "Unknown command: foobar")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{errs: map[string]error{"whoami": errors.New("boom")}}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("\n\nwhoami")))

	assert.Equal(t, []string{"whoami"}, exec.calls)
}
