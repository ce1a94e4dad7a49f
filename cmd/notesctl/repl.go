package main

import (
	"context"
	"fmt"
	"strings"
)

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: list [page], search <text>, tags <a,b>, show <id>, new, edit <id>, pin <id>, archive <id>, delete <id>, logout, exit"
)

// runREPL reads commands until EOF, exit or ctx is cancelled. Errors are
// printed and the loop keeps going.
func runREPL(ctx context.Context, a *app) {
	a.ctx = ctx
	for ctx.Err() == nil {
		fmt.Fprintf(a.out, "notes (%s)> ", a.status())
		line, err := a.in.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) > 0 {
			if quit := dispatch(ctx, a, parts[0], parts[1:]); quit {
				return
			}
		}
		if err != nil {
			a.search.Flush()
			return
		}
	}
}

func dispatch(ctx context.Context, a *app, cmd string, args []string) bool {
	var err error
	switch cmd {
	case "help":
		if a.loggedIn() {
			fmt.Fprintln(a.out, helpLoggedIn)
		} else {
			fmt.Fprintln(a.out, helpLoggedOut)
		}
	case "register":
		err = a.register(ctx)
	case "login":
		err = a.login(ctx)
	case "exit", "quit":
		a.search.Flush()
		fmt.Fprintln(a.out, "Bye!")
		return true
	default:
		if !a.loggedIn() {
			fmt.Fprintln(a.out, "Please log in first")
			return false
		}
		err = dispatchNotes(ctx, a, cmd, args)
	}
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
	}
	return false
}

func dispatchNotes(ctx context.Context, a *app, cmd string, args []string) error {
	withID := func(fn func(context.Context, string) error) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <id>", cmd)
		}
		return fn(ctx, args[0])
	}

	switch cmd {
	case "l", "list":
		return a.list(ctx, args)
	case "search":
		a.searchFor(args)
		return nil
	case "tags":
		return a.filterTags(ctx, args)
	case "show":
		return withID(a.show)
	case "new":
		return a.create(ctx)
	case "edit":
		return withID(a.edit)
	case "pin":
		return withID(a.pin)
	case "archive":
		return withID(a.archive)
	case "delete":
		return withID(a.remove)
	case "logout":
		a.logout()
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
