package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jrsteele09/go-storefront-session/auth"
	"github.com/jrsteele09/go-storefront-session/internal/app"
	"github.com/jrsteele09/go-storefront-session/session"
	"github.com/spf13/cobra"
)

var errLoginFailed = errors.New("login failed, please check your credentials")

func newLoginCommand(open Opener) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return errors.New("username and password are required")
			}
			return withApp(cmd, open, func(ctx context.Context, a *app.App, out io.Writer) error {
				result := a.Manager.Login(ctx, username, password)
				if !result.Success {
					return errLoginFailed
				}
				fmt.Fprintf(out, "Logged in as %s (%s)\n", username, result.Role)
				fmt.Fprintf(out, "Landing page: %s\n", auth.LandingPath(result.Role))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newLogoutCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App, out io.Writer) error {
				a.Manager.Logout(ctx)
				fmt.Fprintln(out, "Logged out")
				return nil
			})
		},
	}
}

func newRegisterCommand(open Opener) *cobra.Command {
	var registration auth.Registration
	var role string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not log in)",
		RunE: func(cmd *cobra.Command, args []string) error {
			registration.Role = session.Role(role)
			return withApp(cmd, open, func(ctx context.Context, a *app.App, out io.Writer) error {
				if err := a.Manager.Register(ctx, registration); err != nil {
					return err
				}
				fmt.Fprintf(out, "Registered %s, you can now log in\n", registration.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&registration.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&registration.Password, "password", "p", "", "account password")
	cmd.Flags().StringVarP(&registration.Email, "email", "e", "", "email address")
	cmd.Flags().StringVar(&role, "role", string(session.RoleCustomer), "customer or seller")
	cmd.Flags().StringVar(&registration.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&registration.LastName, "last-name", "", "last name")
	return cmd
}

func newWhoAmICommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App, out io.Writer) error {
				current := a.Manager.Session()
				fmt.Fprintf(out, "API: %s\n", a.Client.BaseURL())
				if !current.LoggedIn() {
					fmt.Fprintln(out, "Not logged in")
					return nil
				}
				fmt.Fprintf(out, "User: %s\nRole: %s\n", current.User, current.Role)
				if claims, err := session.Decode(current.Token); err == nil {
					fmt.Fprintf(out, "Expires: %s\n", claims.ExpiresAt.Time.Local().Format(time.RFC1123))
				}
				return nil
			})
		},
	}
}

func newCanAccessCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "can-access [path]",
		Short: "Check whether the current session may open a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App, out io.Writer) error {
				decision, _ := a.Table.Decide(args[0], a.Manager.Session())
				if location := decision.Location(); location != "" {
					fmt.Fprintf(out, "%s -> %s\n", decision, location)
					return nil
				}
				fmt.Fprintln(out, decision)
				return nil
			})
		},
	}
}
