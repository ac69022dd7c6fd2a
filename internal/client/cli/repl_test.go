package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(_ context.Context, args []string) error {
	f.loggedIn = true
	return f.record("login", args)
}
func (f *fakeExec) Logout(_ context.Context, args []string) error {
	f.loggedIn = false
	return f.record("logout", args)
}
func (f *fakeExec) Me(_ context.Context, args []string) error    { return f.record("me", args) }
func (f *fakeExec) Users(_ context.Context, args []string) error { return f.record("users", args) }
func (f *fakeExec) User(_ context.Context, args []string) error  { return f.record("user", args) }
func (f *fakeExec) AddUser(_ context.Context, args []string) error {
	return f.record("adduser", args)
}
func (f *fakeExec) Items(_ context.Context, args []string) error { return f.record("items", args) }
func (f *fakeExec) AddItem(_ context.Context, args []string) error {
	return f.record("additem", args)
}
func (f *fakeExec) AddItemFor(_ context.Context, args []string) error {
	return f.record("additemfor", args)
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = v.(string)
		}
		out = append(out, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := capturePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"",
		"help",
		"me",
		"users 10 5",
		"user 3",
		"items",
		"additem",
		"adduser",
		"additemfor 2",
		"foobar",
		"logout",
		"exit",
		"me",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	want := []string{"login", "me", "users", "user", "items", "additem", "adduser", "additemfor", "logout"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
	if got := strings.Join(exec.args[2], " "); got != "10 5" {
		t.Errorf("users args = %q", got)
	}
	if got := strings.Join(exec.args[7], " "); got != "2" {
		t.Errorf("additemfor args = %q", got)
	}

	joined := strings.Join(*out, "\n")
	for _, s := range []string{"api status> ", "Available commands: login", "Available commands: me", "Unknown command: foobar", "Bye!"} {
		if !strings.Contains(joined, s) {
			t.Errorf("output misses %q:\n%s", s, joined)
		}
	}
}

func TestRunREPL_PrintsErrorsAndStopsOnEOF(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{err: errors.New("403: Not authenticated")}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("me")))

	if len(exec.calls) != 1 {
		t.Fatalf("calls = %v", exec.calls)
	}
	if !strings.Contains(strings.Join(*out, "\n"), "Error: 403: Not authenticated") {
		t.Errorf("error not printed: %v", *out)
	}
}
