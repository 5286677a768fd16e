package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/clinicbook/internal/common"
)

// Login prompts for student ID and PIN and signs the student in.
// The PIN is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Already logged in as %s\n", a.name)
		return nil
	}

	id, err := GetSimpleText(a.reader, "Student ID", a.out)
	if err != nil {
		return err
	}
	pin, err := GetPassword(a.reader, "PIN", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	s, err := a.authService.Login(ctx, id, pin)
	if err != nil {
		return err
	}
	a.signIn(ctx, s)
	return nil
}

// Logout forgets the session, blanks the profile name and image and
// empties the appointment view. With "--all" every stored slot is removed
// as well, once pending appointment writes have landed.
func (a *App) Logout(ctx context.Context, args []string) error {
	all := false
	for _, arg := range args {
		if arg != "--all" {
			return fmt.Errorf("unknown logout option %q", arg)
		}
		all = true
	}

	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	if err := a.profileService.Clear(ctx, a.student.ID); err != nil {
		a.logger.Warn(ctx, "profile clear failed", "student", a.student.ID, "err", err)
	}
	a.store.SetUser(ctx, "")
	a.student = nil
	a.name = ""
	fmt.Fprintln(a.out, "Logged out")

	if all {
		n, err := a.authService.ClearLocalData(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Removed %d stored entries\n", n)
	}
	return nil
}
