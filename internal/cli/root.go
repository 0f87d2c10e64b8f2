// Package cli implements the storefront command line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-storefront-session/internal/app"
	"github.com/jrsteele09/go-storefront-session/internal/config"
	"github.com/spf13/cobra"
)

// Opener builds the wired components for one command invocation
type Opener func(ctx context.Context) (*app.App, error)

// DefaultOpener wires from the environment
func DefaultOpener(ctx context.Context) (*app.App, error) {
	return app.New(ctx, config.New())
}

// NewRootCommand builds the command tree. Every subcommand opens its own App and closes it on exit.
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "CLI client for the storefront",
		Long:          "Log in, inspect your session and browse products and your cart from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			banner := figure.NewFigure(config.EnvVars{}.GetAppName(), "cybermedium", true)
			fmt.Fprintln(cmd.OutOrStdout(), banner.String())
			_ = cmd.Help()
		},
	}

	root.AddCommand(
		newLoginCommand(open),
		newLogoutCommand(open),
		newRegisterCommand(open),
		newWhoAmICommand(open),
		newCanAccessCommand(open),
		newProductsCommand(open),
		newCartCommand(open),
	)
	return root
}

func Execute() {
	if err := NewRootCommand(DefaultOpener).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp opens an App for the duration of fn
func withApp(cmd *cobra.Command, open Opener, fn func(ctx context.Context, a *app.App, out io.Writer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a, cmd.OutOrStdout())
}
