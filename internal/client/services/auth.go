// Package services contains application services for the recetario client:
// the session store, saved credentials, the modified-recipes cache and the
// auth, recipe and course services the screens call.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recetario/internal/client/client"
	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/common"
	"github.com/dmitrijs2005/recetario/internal/logging"
)

const minPasswordLength = 8

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate, open the session and remember or forget the
//     credentials for that email.
//   - Logout: drop the local session (the server keeps no session).
//   - StartRegistration / CompleteRegistration: the two registration steps,
//     with an emailed code in between.
//   - RequestReset / ConfirmReset: password reset with an emailed code.
//   - UpgradeToStudent: create the student record and flip the session flag.
//   - UpdateProfile: change profile fields on the server and in the session.
//   - Ping: check server liveness.
//
// Input is validated before any network call.
type AuthService interface {
	Login(ctx context.Context, email, password string, remember bool) (models.Session, error)
	Logout(ctx context.Context) error
	StartRegistration(ctx context.Context, req models.RegisterStep1Request) error
	CompleteRegistration(ctx context.Context, req models.RegisterStep2Request, asStudent bool) error
	RequestReset(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, req models.ResetConfirm) error
	UpgradeToStudent(ctx context.Context, s models.Student) error
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.Session, error)
	Ping(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session *SessionStore
	creds   *CredentialStore
	log     logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client,
// session store and credential store.
func NewAuthService(c client.Client, session *SessionStore, creds *CredentialStore, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, session: session, creds: creds, log: log}
}

func (a *authService) Login(ctx context.Context, email, password string, remember bool) (models.Session, error) {
	err := models.NewValidator().
		Required("email", email).
		Email("email", email).
		Required("password", password).
		Err()
	if err != nil {
		return models.Session{}, err
	}

	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return models.Session{}, fmt.Errorf("login error: %w", err)
	}

	data := resp.Data()
	if data.Email == "" {
		data.Email = email
	}
	if err := a.session.Login(ctx, data); err != nil {
		return models.Session{}, fmt.Errorf("session error: %w", err)
	}

	// Credential bookkeeping never fails a login.
	if a.creds != nil {
		if remember {
			err = a.creds.Remember(ctx, email, password)
		} else {
			_, err = a.creds.Forget(ctx, email)
		}
		if err != nil {
			a.log.Warn(ctx, "saved credentials not updated", "error", err)
		}
	}

	return a.session.Current(), nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *authService) StartRegistration(ctx context.Context, req models.RegisterStep1Request) error {
	err := models.NewValidator().
		Required("email", req.Email).
		Email("email", req.Email).
		Required("alias", req.Username).
		Err()
	if err != nil {
		return err
	}
	return a.client.RegisterStep1(ctx, req)
}

func (a *authService) CompleteRegistration(ctx context.Context, req models.RegisterStep2Request, asStudent bool) error {
	v := models.NewValidator().
		Required("email", req.Email).
		Email("email", req.Email).
		Required("code", req.Code).
		MinLength("password", req.Password, minPasswordLength).
		Required("firstName", req.FirstName).
		Required("lastName", req.LastName)
	if asStudent {
		v.Required("cardNumber", req.CardNumber).Required("dni", req.DNI)
	}
	if err := v.Err(); err != nil {
		return err
	}
	return a.client.RegisterStep2(ctx, req, asStudent)
}

func (a *authService) RequestReset(ctx context.Context, email string) error {
	if err := models.NewValidator().Required("email", email).Email("email", email).Err(); err != nil {
		return err
	}
	return a.client.RequestPasswordReset(ctx, models.ResetRequest{Email: email})
}

func (a *authService) ConfirmReset(ctx context.Context, req models.ResetConfirm) error {
	err := models.NewValidator().
		Required("email", req.Email).
		Email("email", req.Email).
		Required("code", req.Code).
		MinLength("newPassword", req.NewPassword, minPasswordLength).
		Err()
	if err != nil {
		return err
	}
	return a.client.ConfirmPasswordReset(ctx, req)
}

func (a *authService) UpgradeToStudent(ctx context.Context, s models.Student) error {
	current := a.session.Current()
	if !current.Authenticated {
		return common.ErrNotAuthenticated
	}
	if current.IsStudent {
		return nil
	}

	err := models.NewValidator().
		Required("cardNumber", s.CardNumber).
		Required("dni", s.DNI).
		Err()
	if err != nil {
		return err
	}

	if err := a.client.UpgradeToStudent(ctx, current.UserID, s); err != nil {
		return fmt.Errorf("upgrade error: %w", err)
	}
	return a.session.SetStudentStatus(ctx, true)
}

func (a *authService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.Session, error) {
	current := a.session.Current()
	if !current.Authenticated {
		return models.Session{}, common.ErrNotAuthenticated
	}
	if upd.Email != "" {
		if err := models.NewValidator().Email("email", upd.Email).Err(); err != nil {
			return models.Session{}, err
		}
	}

	if _, err := a.client.UpdateUser(ctx, current.UserID, upd); err != nil {
		return models.Session{}, fmt.Errorf("profile update error: %w", err)
	}
	if err := a.session.UpdateProfile(ctx, upd); err != nil {
		return models.Session{}, err
	}
	return a.session.Current(), nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
