package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/pratik-mahalle/nutriscan/pkg/client"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthSignupCmd())
	cmd.AddCommand(newAuthGuestCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthWhoamiCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email, password, provider string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password, or get a Google/GitHub sign-in link",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if provider != "" {
				login, err := apiClient.ProviderLoginURL(ctx, provider)
				if err != nil {
					return fmt.Errorf("failed to start %s sign-in: %w", provider, err)
				}
				fmt.Fprintf(out, "Open this link to sign in with %s:\n  %s\n", provider, login.URL)
				fmt.Fprintln(out, "Then store the issued token with: nutriscan config set auth.token <token>")
				return nil
			}

			if email == "" {
				email = promptInput("Email: ")
			}
			if password == "" {
				password = promptPassword("Password: ")
			}

			resp, err := apiClient.SignIn(ctx, email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := storeSession(resp); err != nil {
				return err
			}

			fmt.Fprintf(out, "Logged in as %s\n", displayName(resp.User))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&provider, "provider", "", "external provider: google, github")

	return cmd
}

func newAuthSignupCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:     "signup",
		Aliases: []string{"register"},
		Short:   "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = promptInput("Email: ")
			}
			if name == "" {
				name = promptInput("Name: ")
			}
			if password == "" {
				password = promptPassword("Password: ")
				confirm := promptPassword("Confirm password: ")
				if password != confirm {
					return fmt.Errorf("passwords do not match")
				}
			}

			resp, err := apiClient.SignUp(context.Background(), client.SignUpRequest{
				Email:    email,
				Password: password,
				Name:     name,
			})
			if err != nil {
				return fmt.Errorf("sign-up failed: %w", err)
			}
			if err := storeSession(resp); err != nil {
				return err
			}

			fmt.Fprintf(out, "Account created. Logged in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&name, "name", "", "display name")

	return cmd
}

func newAuthGuestCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Continue as a guest. Guest data is deleted on logout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.ContinueAsGuest(context.Background(), name)
			if err != nil {
				return fmt.Errorf("guest sign-in failed: %w", err)
			}
			if err := storeSession(resp); err != nil {
				return err
			}

			fmt.Fprintf(out, "Signed in as guest %s\n", displayName(resp.User))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			guest := viper.GetBool("auth.guest")
			if err := apiClient.SignOut(context.Background()); err != nil {
				// The local session is cleared either way
				fmt.Fprintf(os.Stderr, "Warning: server sign-out failed: %v\n", err)
			}

			viper.Set("auth.token", "")
			viper.Set("auth.email", "")
			viper.Set("auth.guest", false)

			if err := writeConfig(); err != nil {
				return fmt.Errorf("failed to clear credentials: %w", err)
			}

			if guest {
				fmt.Fprintln(out, "Logged out. Guest data was deleted.")
			} else {
				fmt.Fprintln(out, "Logged out successfully")
			}
			return nil
		},
	}
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show current user info",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := apiClient.GetCurrentUser(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get user info: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(user)
			}

			fmt.Fprintf(out, "Name:     %s\n", displayName(*user))
			if user.Email != "" {
				fmt.Fprintf(out, "Email:    %s\n", user.Email)
			}
			fmt.Fprintf(out, "Provider: %s\n", user.Provider)
			if user.IsGuest {
				fmt.Fprintln(out, "Guest:    yes")
			}
			fmt.Fprintf(out, "ID:       %s\n", user.ID)
			return nil
		},
	}
}

func storeSession(resp *client.AuthResponse) error {
	viper.Set("auth.token", resp.Token)
	viper.Set("auth.email", resp.User.Email)
	viper.Set("auth.guest", resp.User.IsGuest)

	if err := writeConfig(); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

func displayName(u client.User) string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return u.ID
	}
}

func promptInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func promptPassword(prompt string) string {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(password)
}
