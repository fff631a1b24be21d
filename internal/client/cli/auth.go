package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/espm/internal/client/client"
	"github.com/dmitrijs2005/espm/internal/client/services"
	"github.com/dmitrijs2005/espm/internal/textx"
)

// tokenPreview is how many characters of the access token `token` prints.
const tokenPreview = 24

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) isLoggedIn() bool {
	return a.authService.HasSession()
}

// Login prompts for a username and a hidden password and signs in with the
// ESPM client profile. The password is wiped by the auth service.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username (CPF or email)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.authService.LoginWithPassword(ctx, userName, password)
	if err != nil {
		a.log.Warn(ctx, "login unsuccessful", "error", err)
		return describe(err)
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", user.DisplayName())
	return nil
}

// Logout forgets the stored session.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Status prints the session state without touching the network.
func (a *App) Status(ctx context.Context) error {
	if !a.authService.HasSession() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "Session: %s\n", a.authService.State())
	return nil
}

// Token prints the start of a usable access token, refreshing it first when
// it has expired.
func (a *App) Token(ctx context.Context) error {
	token, err := a.authService.RefreshAccessTokenIfNeeded(ctx)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintln(a.out, textx.Truncate(token, tokenPreview))
	return nil
}

// WhoAmI prints the signed-in user's profile from the identity server.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.authService.UserClaims(ctx)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "Name:  %s\n", user.Nome)
	if user.Apelido != "" {
		fmt.Fprintf(a.out, "Alias: %s\n", user.Apelido)
	}
	if user.CPF != "" {
		fmt.Fprintf(a.out, "CPF:   %s\n", user.CPF)
	}
	if user.Email != "" {
		fmt.Fprintf(a.out, "Email: %s\n", user.Email)
	}
	return nil
}

// describe turns service errors into messages for the prompt. Unknown errors
// are returned unchanged.
func describe(err error) error {
	switch {
	case errors.Is(err, services.ErrNoRefreshToken), errors.Is(err, services.ErrNotAuthenticated):
		return errors.New("not logged in, use 'login' first")
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("rejected by the identity server: %w", err)
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Errorf("server unavailable, try again later: %w", err)
	default:
		return err
	}
}
