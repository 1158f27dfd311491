package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexraskin/linkflow/internal/config"
	"github.com/alexraskin/linkflow/internal/database"
	"github.com/alexraskin/linkflow/internal/models"
	"github.com/alexraskin/linkflow/internal/publish"
	"github.com/alexraskin/linkflow/internal/sandbox"
	"github.com/alexraskin/linkflow/internal/theme"
	"github.com/alexraskin/linkflow/internal/tracking"
)

func openDatabase(cmd *cobra.Command) (database.Database, error) {
	dbURL, _ := cmd.Flags().GetString("database")
	db, err := database.Open(cmd.Context(), dbURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// --- themes ---

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the available theme ids",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range theme.IDs() {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

// --- render ---

var renderCmd = &cobra.Command{
	Use:   "render <username>",
	Short: "Write a profile's isolated document to stdout",
	Long: `Render a profile exactly as the public page would and write the
sandboxed frame document to stdout. Click beacons point at BASE_URL and
carry a visit token signed with TRACK_SECRET, so the running server must
share that secret. Without TRACK_SECRET the beacons are unsigned and the
server rejects them.

Copy actions (E-Transfer, crypto addresses) post to the host page, so they
only work when the document is loaded inside /<username>, not on its own.

Examples:
  linkctl render jane > jane.html
  linkctl render jane --database postgres://localhost:5432/linkflow`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		db, err := openDatabase(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		snap, err := database.NewSnapshots(db, nil).Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("loading profile %q: %w", args[0], err)
		}

		host, err := sandbox.NewHost(sandbox.Config{
			WidgetStylesheet:    cfg.WidgetStylesheetURL,
			WidgetScript:        cfg.WidgetScriptURL,
			HostOrigin:          cfg.HostOrigin(),
			AutoOpenMaxAttempts: cfg.AutoOpenMaxAttempts,
		})
		if err != nil {
			return err
		}

		var issuer publish.TokenIssuer
		if cfg.TrackSecret != "" {
			issuer = tracking.NewSigner(cfg.TrackSecret, tracking.DefaultTokenTTL)
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: TRACK_SECRET is not set; clicks in this document will not be counted")
		}

		page, err := publish.New(host, issuer, cfg.BaseURL+"/api/track").Publish(*snap)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), page.Frame.SrcDoc)
		return err
	},
}

// --- hash-password ---

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := database.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

// --- create-profile ---

var createProfileCmd = &cobra.Command{
	Use:   "create-profile",
	Short: "Create a profile owner account",
	Long: `Create a profile owner account.

Examples:
  linkctl create-profile --username jane --password 's3cret-pass' --display-name "Jane Doe"
  linkctl create-profile --username sam --password 's3cret-pass' --theme dracula`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		displayName, _ := cmd.Flags().GetString("display-name")
		themeID, _ := cmd.Flags().GetString("theme")

		username = strings.TrimSpace(username)
		if username == "" || password == "" {
			return fmt.Errorf("--username and --password are required")
		}
		if err := database.ValidateUsername(username); err != nil {
			return err
		}
		if len(password) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}
		if !theme.Known(themeID) {
			return fmt.Errorf("unknown theme %q (see linkctl themes)", themeID)
		}

		db, err := openDatabase(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		p := models.Profile{
			ID:          uuid.NewString(),
			Username:    username,
			DisplayName: displayName,
			Theme:       themeID,
			ButtonStyle: models.ButtonSolid,
		}
		if err := db.CreateProfile(cmd.Context(), p, password); err != nil {
			return fmt.Errorf("creating profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s (%s)\n", p.Username, p.ID)
		return nil
	},
}

func init() {
	createProfileCmd.Flags().String("username", "", "public username (the page lives at /<username>)")
	createProfileCmd.Flags().String("password", "", "admin password")
	createProfileCmd.Flags().String("display-name", "", "name shown on the page")
	createProfileCmd.Flags().String("theme", theme.Default, "theme id")
}
