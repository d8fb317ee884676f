package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmoura/eventgate/internal/common"
)

func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	session, err := a.auth.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			printlnFn("Server unavailable; local commands keep working, sync needs a connection")
		} else {
			printlnFn("Login failed:", err)
		}
		return err
	}

	a.session = session
	a.setMode(ModeOnline)
	printlnFn("Logged in as", session.User.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session = nil
	printlnFn("Logged out")
	return nil
}
