package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodies-api/config"
	"foodies-api/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema (and mongo indexes when CORE_STORE=mongo)",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.OpenDB(cfg.DatabasePath, logger)
		if err != nil {
			return err
		}
		_, closeCore, err := openCore(cmd.Context(), cfg, db, logger)
		if err != nil {
			return err
		}
		closeCore(cmd.Context())
		return nil
	},
}

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator, or promote an existing account",
	Long: `Creates an admin account with the given email. If the email is already
registered the account is promoted to admin and its password replaced.

Example:
  foodies-api create-admin --email admin@foodies.local --password s3cret --name Admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.OpenDB(cfg.DatabasePath, logger)
		if err != nil {
			return err
		}
		user, err := createAdmin(cmd.Context(), db, adminName, adminEmail, adminPassword)
		if err != nil {
			return err
		}
		logger.Info("admin ready", zap.String("id", user.ID), zap.String("email", user.Email))
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "Admin", "display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "login password (min 6 characters)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func createAdmin(ctx context.Context, db *gorm.DB, name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	db = db.WithContext(ctx)
	var user models.User
	err = db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Name: name, Email: email, PasswordHash: string(hash), Role: models.RoleAdmin}
		err = db.Create(&user).Error
	case err == nil:
		user.Role = models.RoleAdmin
		user.PasswordHash = string(hash)
		err = db.Save(&user).Error
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
