package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// unlockTimeout bounds how long Login waits for the session key.
var unlockTimeout = 30 * time.Second

// Register prompts the user for a username and password and creates a local
// account. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, userName, password); err != nil {
		return a.fail(ctx, "register", err)
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials, signs the user in and waits until the
// identity watcher has installed that user's key. A key left over from a
// previous user never satisfies the wait.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.auth.Login(ctx, userName, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			err = errors.New("invalid username or password")
		}
		return a.fail(ctx, "login", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, unlockTimeout)
	defer cancel()
	if err := a.session.WaitUser(waitCtx, id.UserID); err != nil {
		return a.fail(ctx, "unlock", err)
	}

	a.userID = id.UserID
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout signs the user out and drops the session key at once, without
// waiting for the watcher.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return a.fail(ctx, "logout", err)
	}
	a.session.Clear()
	a.userID = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Status prints the signed-in user and the readiness of the session key.
func (a *App) Status(ctx context.Context) error {
	st := a.session.State()
	user := a.userID
	if user == "" {
		user = "-"
	}
	fmt.Fprintf(a.out, "user: %s\nkey ready: %t\nunlocking: %t\nidentity mode: %s\n",
		user, st.KeyReady, st.Loading, a.config.IdentityMode)
	if st.Err != nil {
		fmt.Fprintf(a.out, "key error: %v\n", st.Err)
	}
	return nil
}
