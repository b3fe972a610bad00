package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"example.com/notesin/internal/account"
)

var accountForm account.Form

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print your user id",
	Long: `Log in with username, email and password. The printed user id is what
the notes subcommands take as --user.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		notices := notifier(cmd)
		svc := account.New(rt.api, rt.sess, notices, account.WithLogger(rt.log))
		cur, err := svc.Login(cmd.Context(), accountForm)
		if err != nil {
			return notices.settle(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cur.OwnerID)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		notices := notifier(cmd)
		svc := account.New(rt.api, rt.sess, notices, account.WithLogger(rt.log))
		return notices.settle(svc.Signup(cmd.Context(), accountForm))
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVarP(&accountForm.Username, "username", "u", "", "Username")
		c.Flags().StringVarP(&accountForm.Email, "email", "e", "", "Email address")
		c.Flags().StringVarP(&accountForm.Password, "password", "p", "", "Password (at least 6 characters)")
		rootCmd.AddCommand(c)
	}
}
