package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Piladin/ZTPAI/internal/api/handler"
	"github.com/Piladin/ZTPAI/internal/app"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

// adminInput mirrors the registration rules enforced by the HTTP API.
type adminInput struct {
	Username  string `json:"username"   validate:"required,max=150,username"`
	Email     string `json:"email"      validate:"required,email,max=254"`
	Password  string `json:"password"   validate:"required"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name"  validate:"required,max=150"`
}

var admin adminInput

var createAdminCmd = &cobra.Command{
	Use:   "createadmin",
	Short: "Create an administrator account",
	Example: `  ztpai createadmin --username root --email root@example.com \
    --password s3cret --first-name Ada --last-name Lovelace`,
	RunE: runCreateAdmin,
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&admin.Username, "username", "", "account username")
	f.StringVar(&admin.Email, "email", "", "account email")
	f.StringVar(&admin.Password, "password", "", "account password")
	f.StringVar(&admin.FirstName, "first-name", "", "first name")
	f.StringVar(&admin.LastName, "last-name", "", "last name")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createAdminCmd)
}

func runCreateAdmin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := handler.NewValidator().Validate(&admin); err != nil {
		return err
	}

	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, log, app.WithoutNotifications())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to close backends")
		}
	}()

	u, err := a.Auth.CreateAdministrator(ctx, ports.RegisterInput{
		Username:  admin.Username,
		Email:     admin.Email,
		Password:  admin.Password,
		FirstName: admin.FirstName,
		LastName:  admin.LastName,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "administrator %q created with id %d\n", u.Username, u.ID)
	return nil
}
