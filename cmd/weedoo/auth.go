package main

import (
	"errors"
	"fmt"

	"weedoo/internal/cloudsync"
	"weedoo/internal/session"

	"github.com/spf13/cobra"
)

var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Generate a new recovery code",
	RunE: func(cmd *cobra.Command, args []string) error {
		code := session.GenerateCode()
		fmt.Println(code)
		fmt.Println("Keep this code safe: it is the only way back into your data.")
		fmt.Println("Log in with: weedoo login --new", code)
		return nil
	},
}

var loginNew bool

var loginCmd = &cobra.Command{
	Use:   "login <code>",
	Short: "Log in with a recovery code and pull cloud data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := args[0]

		// A freshly generated code has no cloud rows yet; --new skips the
		// hydration gate and starts syncing from local state.
		if !loginNew {
			if err := wd.sync.Hydrate(code); err != nil {
				if errors.Is(err, cloudsync.ErrCodeNotFound) {
					return fmt.Errorf("recovery code not found in cloud (use --new for a freshly generated code)")
				}
				return fmt.Errorf("could not reach the cloud, try again later: %w", err)
			}
		}

		if err := wd.session.LoginWithCode(code); err != nil {
			return err
		}
		fmt.Println("Logged in. Cloud sync is active.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out (local data is kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		wd.session.Logout()
		fmt.Println("Logged out. Your data stays on this device.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the active recovery code",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wd.session.IsLoggedIn() {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Println(wd.session.Code())
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&loginNew, "new", false, "log in with a freshly generated code (skip cloud lookup)")
}
