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

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context, args []string) error
	Home(ctx context.Context) error
	Doctors(ctx context.Context) error
	Departments(ctx context.Context) error
	Book(ctx context.Context, args []string) error
	Rebook(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error
	Complete(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, doctors, departments, exit"
	helpLoggedIn  = "Available commands: home, doctors, departments, book [doctor], rebook <id>, " +
		"cancel <id>, complete <id>, (l)ist [upcoming|complete|cancelled], profile, editprofile, logout [--all], exit"
)

// runREPL starts a simple read–eval–print loop for the clinicbook CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                 — show available commands
//	  - login                — authenticate with student ID and PIN
//	  - doctors, departments — browse the catalog
//	  - exit | quit          — leave the program
//
//	Logged in, additionally:
//	  - home                 — greeting and upcoming appointments
//	  - book [doctor]        — book an appointment
//	  - rebook <id>          — book again from a cancelled appointment
//	  - cancel <id>          — cancel an upcoming appointment
//	  - complete <id>        — mark an appointment complete
//	  - list [status]        — list bookings by status (default upcoming)
//	  - profile, editprofile — view or edit the profile
//	  - logout [--all]       — log out, --all also wipes stored data
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("clinic %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

var errLoginRequired = errors.New("please login first")

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "login":
		return a.Login(ctx)
	case "doctors":
		return a.Doctors(ctx)
	case "departments":
		return a.Departments(ctx)
	}

	handlers := map[string]func() error{
		"home":        func() error { return a.Home(ctx) },
		"book":        func() error { return a.Book(ctx, args) },
		"rebook":      func() error { return a.Rebook(ctx, args) },
		"cancel":      func() error { return a.Cancel(ctx, args) },
		"complete":    func() error { return a.Complete(ctx, args) },
		"l":           func() error { return a.List(ctx, args) },
		"list":        func() error { return a.List(ctx, args) },
		"profile":     func() error { return a.Profile(ctx) },
		"editprofile": func() error { return a.EditProfile(ctx) },
		"logout":      func() error { return a.Logout(ctx, args) },
	}
	h, ok := handlers[cmd]
	if !ok {
		printlnFn("Unknown command:", cmd)
		return nil
	}
	if !a.isLoggedIn() {
		return errLoginRequired
	}
	return h()
}
