package cli

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the token locally",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return clearCredentials()
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the stored token",
	RunE:  runWhoami,
}

func init() {
	registerCmd.Flags().String("name", "", "full name")
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().String("role", "member", "account role: member or practitioner")
	loginCmd.Flags().String("email", "", "email address")
}

func runRegister(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	role, _ := cmd.Flags().GetString("role")
	if name == "" || email == "" {
		return fmt.Errorf("--name and --email are required")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	result, err := newClient().Register(cmd.Context(), name, email, password, role)
	if err != nil {
		return err
	}
	if err := saveCredentials(credentials{Token: result.Token, User: result.User}); err != nil {
		return err
	}
	fmt.Printf("registered %s (%s)\n", result.User.Email, result.User.Role)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		return fmt.Errorf("--email is required")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	result, err := newClient().Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	if err := saveCredentials(credentials{Token: result.Token, User: result.User}); err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", result.User.Email)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	user, err := newClient().Verify(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s\n", user.FullName, user.Email, user.Role)
	return nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
