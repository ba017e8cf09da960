package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/spf13/cobra"
)

func loginCmd(flags *globalFlags) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("PADOCA_PASSWORD")
			}

			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			sess, err := a.sessions.Login(cmd.Context(), localSessionID, model.Credentials{Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			user := sess.User()
			if a.asJSON {
				return printJSON(a.out, user)
			}
			fmt.Fprintf(a.out, "Logged in as %s (%s), session valid until %s\n",
				user.Name, user.Role, sess.ExpiresAt.Local().Format("02/01 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (default from PADOCA_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			if err := a.sessions.Logout(cmd.Context(), localSessionID); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func whoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in profile and the views it opens",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			sess, err := a.current(cmd.Context())
			if err != nil {
				return err
			}

			user, err := a.client.Me(cmd.Context(), sess)
			if err != nil {
				a.log.Debug("Using stored profile")
				stored := sess.User()
				user = &stored
			}

			if a.asJSON {
				return printJSON(a.out, user)
			}
			views := make([]string, 0, 2)
			for _, v := range user.Role.Views() {
				views = append(views, string(v))
			}
			fmt.Fprintf(a.out, "%s <%s>\nRole:  %s\nViews: %s\n", user.Name, user.Email, user.Role, strings.Join(views, ", "))
			return nil
		},
	}
}
