package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

type command func(ctx context.Context, args []string) error

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Me(ctx context.Context, args []string) error
	Users(ctx context.Context, args []string) error
	User(ctx context.Context, args []string) error
	AddUser(ctx context.Context, args []string) error
	Items(ctx context.Context, args []string) error
	AddItem(ctx context.Context, args []string) error
	AddItemFor(ctx context.Context, args []string) error
}

func commands(a execIface) map[string]command {
	return map[string]command{
		"login":      a.Login,
		"logout":     a.Logout,
		"me":         a.Me,
		"users":      a.Users,
		"user":       a.User,
		"adduser":    a.AddUser,
		"items":      a.Items,
		"additem":    a.AddItem,
		"additemfor": a.AddItemFor,
	}
}

// runREPL reads commands from scanner until EOF, "exit" or "quit".
// Command errors are printed and the loop continues.
//
//	Anyone:     help, login, users [skip] [limit], user <id>, items [skip] [limit], exit
//	Logged in:  me, additem, logout
//	Superuser:  adduser, additemfor <id>
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	cmds := commands(a)

	for {
		printlnFn(fmt.Sprintf("api %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, users, user <id>, items, additem, adduser, additemfor <id>, logout, exit")
			} else {
				printlnFn("Available commands: login, users, user <id>, items, exit")
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		fn, ok := cmds[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := fn(ctx, args); err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
