package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  map[string][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Status(ctx context.Context) error { return f.record("status", nil) }
func (f *fakeExec) Token(ctx context.Context) error  { return f.record("token", nil) }
func (f *fakeExec) WhoAmI(ctx context.Context) error { return f.record("whoami", nil) }
func (f *fakeExec) Concursos(ctx context.Context, args []string) error {
	return f.record("concursos", args)
}
func (f *fakeExec) Concurso(ctx context.Context, args []string) error {
	return f.record("concurso", args)
}
func (f *fakeExec) Classificacao(ctx context.Context, args []string) error {
	return f.record("classificacao", args)
}
func (f *fakeExec) Favorito(ctx context.Context, args []string) error {
	return f.record("favorito", args)
}
func (f *fakeExec) Favoritos(ctx context.Context, args []string) error {
	return f.record("favoritos", args)
}
func (f *fakeExec) Sync(ctx context.Context) error { return f.record("sync", nil) }

// capturePrints replaces printlnFn for the duration of the test.
func capturePrints(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrints(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"status",
		"token",
		"whoami",
		"concursos saude estado",
		"concurso 7",
		"classificacao 7 3",
		"favorito 7",
		"favoritos --remote",
		"sync",
		"logout",
		"exit",
		"status",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	require.Equal(t, []string{
		"login", "status", "token", "whoami", "concursos", "concurso",
		"classificacao", "favorito", "favoritos", "sync", "logout",
	}, exec.calls)
	require.Equal(t, []string{"saude", "estado"}, exec.args["concursos"])
	require.Equal(t, []string{"7"}, exec.args["concurso"])
	require.Equal(t, []string{"7", "3"}, exec.args["classificacao"])
	require.Equal(t, []string{"7"}, exec.args["favorito"])
	require.Equal(t, []string{"--remote"}, exec.args["favoritos"])
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := capturePrints(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("help\nlogin\nhelp\n")))

	var helps []string
	for _, l := range *lines {
		if strings.HasPrefix(l, "Available commands:") {
			helps = append(helps, l)
		}
	}
	require.Len(t, helps, 2)
	require.Contains(t, helps[0], "login")
	require.NotContains(t, helps[0], "logout")
	require.Contains(t, helps[1], "logout")
}

func TestRunREPL_PrintsErrorsAndUnknown(t *testing.T) {
	lines := capturePrints(t)

	exec := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("sync\nfoobar\nquit\n")))

	require.Equal(t, []string{"sync"}, exec.calls)
	require.Contains(t, *lines, "Error: boom")
	require.Contains(t, *lines, "Unknown command: foobar")
	require.Equal(t, "Bye!", (*lines)[len(*lines)-1])
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrints(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("\n\nfavoritos")))

	require.Equal(t, []string{"favoritos"}, exec.calls)
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	lines := capturePrints(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "(valid)" }, bufio.NewReader(strings.NewReader("")))

	require.Equal(t, []string{"espm (valid)> "}, *lines)
}
