package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Token(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Concursos(ctx context.Context, args []string) error
	Concurso(ctx context.Context, args []string) error
	Classificacao(ctx context.Context, args []string) error
	Favorito(ctx context.Context, args []string) error
	Favoritos(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
}

// usageError is returned by handlers whose arguments are missing or malformed.
type usageError string

func (e usageError) Error() string {
	return "usage: " + string(e)
}

// runREPL starts a read–eval–print loop for the ESPM CLI.
//
// It reads a line from reader, parses the first token as the command and
// the rest as its arguments, and dispatches to methods on 'a'. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Commands:
//
//	help                       show available commands
//	login                      sign in with username and password
//	logout                     forget the stored session
//	status                     show the session state
//	token                      print the current access token (refreshing if needed)
//	whoami                     show the signed-in user's profile
//	concursos [term]           list tenders, favorites first, optionally filtered
//	concurso <id>              show one tender and its positions
//	classificacao <id> <cargo> show the ranking for a tender position
//	favorito <id>              toggle a tender as favorite
//	favoritos [--remote]       list local favorites, or those stored on the ESPM API
//	sync                       push local favorites to the ESPM API
//	exit | quit                leave the program
//
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("espm %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, token, whoami, concursos [term], concurso <id>, classificacao <id> <cargo>, favorito <id>, favoritos [--remote], sync, logout, exit")
			} else {
				printlnFn("Available commands: login, status, concursos [term], concurso <id>, classificacao <id> <cargo>, favorito <id>, favoritos, exit")
			}

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "token":
			cmdErr = a.Token(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "concursos", "l":
			cmdErr = a.Concursos(ctx, args)

		case "concurso":
			cmdErr = a.Concurso(ctx, args)

		case "classificacao":
			cmdErr = a.Classificacao(ctx, args)

		case "favorito", "fav":
			cmdErr = a.Favorito(ctx, args)

		case "favoritos":
			cmdErr = a.Favoritos(ctx, args)

		case "sync":
			cmdErr = a.Sync(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
