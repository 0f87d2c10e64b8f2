package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-storefront-session/auth"
	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
	"github.com/jrsteele09/go-storefront-session/session"
	"github.com/rs/zerolog/log"
)

const (
	msgLoginRequired      = "Username and password are required."
	msgLoginFailed        = "Login failed. Please check your credentials."
	msgRegistered         = "Registration successful! Please log in."
	msgRegistrationFailed = "Registration failed. Please try again."

	queryError    = "error"
	queryMessage  = "message"
	queryUsername = "username"

	formUsername  = "username"
	formPassword  = "password"
	formEmail     = "email"
	formRole      = "role"
	formFirstName = "first_name"
	formLastName  = "last_name"
)

// LoginPageHandler describes the login form (GET /login). Only reachable when logged out.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.newPage(r, "login")
		data.Error = r.URL.Query().Get(queryError)
		data.Message = r.URL.Query().Get(queryMessage)
		data.Form = &formData{
			Action:   RouteAuthLogin,
			Fields:   []string{formUsername, formPassword},
			Username: r.URL.Query().Get(queryUsername),
		}
		writeJSON(w, http.StatusOK, data)
	}
}

// RegisterPageHandler describes the registration form (GET /register)
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.newPage(r, "register")
		data.Error = r.URL.Query().Get(queryError)
		data.Form = &formData{
			Action: RouteAuthRegister,
			Fields: []string{formUsername, formPassword, formEmail, formRole, formFirstName, formLastName},
			Roles:  session.Roles,
		}
		writeJSON(w, http.StatusOK, data)
	}
}

// LoginSubmissionHandler processes the login form and sends the user to their landing page
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		username := strings.TrimSpace(r.FormValue(formUsername))
		password := r.FormValue(formPassword)
		if username == "" || password == "" {
			writeJSONError(w, msgLoginRequired, http.StatusBadRequest)
			return
		}

		result := s.sessions.Login(r.Context(), username, password)
		if !result.Success {
			redirectWithError(w, r, RouteLogin, msgLoginFailed, username)
			return
		}

		http.Redirect(w, r, auth.LandingPath(result.Role), http.StatusSeeOther)
	}
}

// RegisterSubmissionHandler creates an account and sends the user to the login page.
// It does not log in.
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		registration := auth.Registration{
			Username:  strings.TrimSpace(r.FormValue(formUsername)),
			Password:  r.FormValue(formPassword),
			Email:     strings.TrimSpace(r.FormValue(formEmail)),
			Role:      session.Role(r.FormValue(formRole)),
			FirstName: r.FormValue(formFirstName),
			LastName:  r.FormValue(formLastName),
		}

		if err := s.sessions.Register(r.Context(), registration); err != nil {
			log.Warn().Err(err).Str("user", registration.Username).Msg("registration failed")
			redirectWithError(w, r, RouteRegister, registrationErrorMessage(err), "")
			return
		}

		redirect := RouteLogin + "?" + url.Values{queryMessage: {msgRegistered}, queryUsername: {registration.Username}}.Encode()
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	}
}

// LogoutHandler clears the session. It needs no session to succeed.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sessions.Logout(r.Context())
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

// registrationErrorMessage keeps validation and backend field messages, hiding anything else
func registrationErrorMessage(err error) string {
	var validationErr *auth.ValidationError
	var fieldErrs *auth.FieldErrors
	switch {
	case apperrors.As(err, &validationErr):
		return validationErr.Message
	case apperrors.As(err, &fieldErrs):
		return fieldErrs.Error()
	}
	return msgRegistrationFailed
}

func redirectWithMessage(w http.ResponseWriter, r *http.Request, path, message string) {
	http.Redirect(w, r, path+"?"+url.Values{queryMessage: {message}}.Encode(), http.StatusSeeOther)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg, username string) {
	values := url.Values{queryError: {errorMsg}}
	if username != "" {
		values.Set(queryUsername, username)
	}
	http.Redirect(w, r, path+"?"+values.Encode(), http.StatusSeeOther)
}
