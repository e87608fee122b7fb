package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/photo-portfolio/backend/internal/auth"
	"github.com/ayush/photo-portfolio/backend/internal/store"
)

type adminFlags struct {
	username string
	email    string
	password string
}

// NewCreateAdminCmd creates the create-admin subcommand.
func NewCreateAdminCmd() *cobra.Command {
	var f adminFlags
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create or recreate an admin account",
		Long: `Remove any account holding the given username or email and
insert a fresh admin with the given password.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreateAdmin(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.username, "username", "", "admin username")
	cmd.Flags().StringVar(&f.email, "email", "", "admin email")
	cmd.Flags().StringVar(&f.password, "password", "", "admin password")
	for _, name := range []string{"username", "email", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runCreateAdmin(cmd *cobra.Command, f adminFlags) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	pool, err := connectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	if _, err := migrate(ctx, pool); err != nil {
		return err
	}

	creds, err := auth.NewCredentials(store.NewPostgresStore(pool), auth.NewBcryptHasher(bcrypt.DefaultCost))
	if err != nil {
		return err
	}
	user, err := creds.Bootstrap(ctx, f.username, f.email, f.password)
	if err != nil {
		return err
	}

	check, err := creds.Verify(ctx, f.username, f.password)
	if err != nil {
		return err
	}
	if check == nil || check.ID != user.ID {
		return oops.Code("ADMIN_VERIFY_FAILED").With("username", f.username).Errorf("password does not verify after create")
	}

	logger.Info("admin account ready", "user_id", user.ID, "username", user.Username)
	cmd.Printf("Admin %q created (id %d)\n", user.Username, user.ID)
	return nil
}
