package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	var parts []string
	if a.session != nil {
		if s := a.session.Current(); s.Authenticated {
			name := s.DisplayName()
			if s.IsStudent {
				name += "*"
			}
			parts = append(parts, name)
		}
	}
	if m := a.getMode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// Root greets the user, starts the connectivity watcher and runs the REPL
// until the user exits. Browsing works without logging in.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to recetario (type 'help' for commands)")
	if s := a.session.Current(); s.Authenticated {
		printlnFn("Logged in as", s.DisplayName())
	}

	if a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
