package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// askYesNo asks a y/n question; an empty answer picks def.
func (a *App) askYesNo(prompt string, def bool) (bool, error) {
	hint := " (y/N)"
	if def {
		hint = " (Y/n)"
	}
	answer, err := getSimpleText(a.reader, prompt+hint, a.out)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return def, nil
	case "y", "yes", "s", "si", "sí":
		return true, nil
	}
	return false, nil
}

func (a *App) readPassword() (string, error) {
	pw, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// Register runs both registration steps: the server emails a code after the
// first one, and the second one sets the password and profile. Student
// registration also asks for the card number and DNI.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	alias, err := getSimpleText(a.reader, "Enter alias", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.StartRegistration(ctx, models.RegisterStep1Request{Email: email, Username: alias}); err != nil {
		return err
	}
	printlnFn("A verification code was sent to", email)

	req := models.RegisterStep2Request{Email: email}
	if req.Code, err = getSimpleText(a.reader, "Enter the code from the email", a.out); err != nil {
		return err
	}
	if req.Password, err = a.readPassword(); err != nil {
		return err
	}
	if req.FirstName, err = getSimpleText(a.reader, "Enter first name", a.out); err != nil {
		return err
	}
	if req.LastName, err = getSimpleText(a.reader, "Enter last name", a.out); err != nil {
		return err
	}

	asStudent, err := a.askYesNo("Register as a student?", false)
	if err != nil {
		return err
	}
	if asStudent {
		if req.CardNumber, err = getSimpleText(a.reader, "Enter card number", a.out); err != nil {
			return err
		}
		if req.DNI, err = getSimpleText(a.reader, "Enter DNI", a.out); err != nil {
			return err
		}
	}

	if err := a.authService.CompleteRegistration(ctx, req, asStudent); err != nil {
		return err
	}

	printlnFn("Registration complete, you can log in now")
	return nil
}

// Login asks for an email and offers the password saved on this device for
// it, if any. Otherwise it reads a password and asks whether to remember it.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	var (
		password string
		remember bool
	)

	saved, ok, err := a.creds.Lookup(ctx, email)
	if err != nil {
		a.log.Warn(ctx, "saved credentials unavailable", "error", err)
	}
	if ok {
		useSaved, err := a.askYesNo("Use the saved password?", true)
		if err != nil {
			return err
		}
		if useSaved {
			password, remember = saved.Password, true
		}
	}

	if password == "" {
		if password, err = a.readPassword(); err != nil {
			return err
		}
		if remember, err = a.askYesNo("Remember me on this device?", false); err != nil {
			return err
		}
	}

	s, err := a.authService.Login(ctx, email, password, remember)
	if err != nil {
		return err
	}

	printlnFn("Welcome,", s.DisplayName())
	return nil
}

// Logout drops the session stored on this device.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out")
	return nil
}

// WhoAmI prints the current session.
func (a *App) WhoAmI(_ context.Context) error {
	s := a.session.Current()
	if !s.Authenticated {
		printlnFn("Not logged in")
		return nil
	}

	role := "user"
	if s.IsStudent {
		role = "student"
	}
	printlnFn(fmt.Sprintf("%s <%s> (%s)", s.DisplayName(), s.Email, role))
	return nil
}

// ResetPassword requests a reset code and then sets the new password.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := a.authService.RequestReset(ctx, email); err != nil {
		return err
	}
	printlnFn("A reset code was sent to", email)

	code, err := getSimpleText(a.reader, "Enter the code from the email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}

	if err := a.authService.ConfirmReset(ctx, models.ResetConfirm{Email: email, Code: code, NewPassword: password}); err != nil {
		return err
	}
	printlnFn("Password changed")
	return nil
}

// Upgrade turns the logged-in user into a student.
func (a *App) Upgrade(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}

	card, err := getSimpleText(a.reader, "Enter card number", a.out)
	if err != nil {
		return err
	}
	dni, err := getSimpleText(a.reader, "Enter DNI", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.UpgradeToStudent(ctx, models.Student{CardNumber: card, DNI: dni}); err != nil {
		return err
	}
	printlnFn("You are now a student")
	return nil
}

// Forget removes the password saved on this device for an email.
func (a *App) Forget(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("forget <email>")
	}

	removed, err := a.creds.Forget(ctx, args[0])
	if err != nil {
		return err
	}
	if !removed {
		printlnFn("No saved password for", args[0])
		return nil
	}
	printlnFn("Forgot the saved password for", args[0])
	return nil
}

// Profile edits the logged-in user's profile. Blank answers keep the
// current value.
func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}

	var (
		upd models.ProfileUpdate
		err error
	)
	if upd.FirstName, err = getSimpleText(a.reader, "First name (blank keeps it)", a.out); err != nil {
		return err
	}
	if upd.LastName, err = getSimpleText(a.reader, "Last name (blank keeps it)", a.out); err != nil {
		return err
	}
	if upd.Username, err = getSimpleText(a.reader, "Alias (blank keeps it)", a.out); err != nil {
		return err
	}
	if upd.Email, err = getSimpleText(a.reader, "Email (blank keeps it)", a.out); err != nil {
		return err
	}
	if upd == (models.ProfileUpdate{}) {
		printlnFn("Nothing to change")
		return nil
	}

	s, err := a.authService.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}
	printlnFn("Profile updated:", s.DisplayName())
	return nil
}
