package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lordzed/achievement-viewer/pkg/auth"
	"github.com/lordzed/achievement-viewer/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Steam Web API key",
	Long: `Manage the stored Steam Web API key.

The key is stored using:
  - System keychain (when available)
  - Environment variable STEAM_API_KEY (fallback, read only)

A key is optional: without one the achievement listing falls back to a
headless-browser scrape. With a key the schema and percentage endpoints
are used directly, which is faster and more complete.

Get a key at https://steamcommunity.com/dev/apikey`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a Steam Web API key securely",
	Long: `Store a Steam Web API key in the system keychain.

You will be prompted for the key; input is hidden as you type.

To get a key:
1. Visit https://steamcommunity.com/dev/apikey
2. Log in with your Steam account
3. Register any domain name and copy the generated key`,
	Example: `  # Interactive login
  achievement-viewer auth login`,
	Args: cobra.NoArgs,
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API key",
	Long: `Remove the Steam Web API key from the system keychain.

A key set through the STEAM_API_KEY environment variable is not touched.`,
	Args: cobra.NoArgs,
	Run:  runLogout,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API key is configured",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager := auth.NewManager()

	if manager.Exists() {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("A key is already stored. Replace it? (y/N): ")
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Print("Steam Web API key: ")
	key, err := readSecret()
	if err != nil {
		ui.PrintError("Failed to read key", err.Error())
		os.Exit(1)
	}

	key = strings.TrimSpace(key)
	if len(key) != 32 {
		ui.PrintError("That doesn't look like a Steam Web API key", "expected 32 hexadecimal characters")
		os.Exit(1)
	}

	if err := manager.Store(key); err != nil {
		ui.PrintError("Failed to store key", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("API key stored")
	fmt.Println("\nNext steps:")
	fmt.Println("  achievement-viewer fetch            # refresh every tracked title")
	fmt.Println("  achievement-viewer fetch 440 620    # refresh specific titles")
}

func runLogout(cmd *cobra.Command, args []string) {
	manager := auth.NewManager()

	if err := manager.Delete(); err != nil {
		if err == auth.ErrKeyNotFound {
			ui.PrintInfo("Nothing to remove", "no key is stored")
			return
		}
		ui.PrintError("Failed to remove key", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("API key removed")
}

func runStatus(cmd *cobra.Command, args []string) {
	manager := auth.NewManager()

	key, err := manager.Retrieve()
	if err != nil {
		ui.PrintInfo("API key", "not configured")
		fmt.Println("\nThe browser listing strategy will be used.")
		fmt.Println("Store a key with 'achievement-viewer auth login' to use the Web API.")
		return
	}

	masked := "****"
	if len(key) > 8 {
		masked = key[:4] + "..." + key[len(key)-4:]
	}
	ui.PrintInfo("API key", masked)
	if os.Getenv("STEAM_API_KEY") != "" {
		ui.PrintInfo("Source", "environment variable")
	} else {
		ui.PrintInfo("Source", "system keychain")
	}
}

// readSecret reads a line from stdin without echoing
func readSecret() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(secret), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
