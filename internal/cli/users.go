package cli

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User account commands",
	}

	cmd.AddCommand(newUsersRegisterCmd())
	cmd.AddCommand(newUsersConfirmCmd())
	cmd.AddCommand(newUsersGetCmd())

	return cmd
}

func newUsersRegisterCmd() *cobra.Command {
	var name, email, password, bio, avatar string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]string{
				"name":     name,
				"email":    email,
				"password": password,
				"bio":      bio,
			}
			var result User

			if avatar == "" {
				if err := client.Post("/api/users", fields, &result); err != nil {
					return err
				}
			} else {
				upload, err := readAvatar(avatar)
				if err != nil {
					return err
				}
				if err := client.PostMultipart("/api/users", fields, upload, &result); err != nil {
					return err
				}
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 6 characters (required)")
	cmd.Flags().StringVar(&bio, "bio", "", "Short biography")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Path to an avatar image")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// readAvatar loads an image file, taking its content type from the
// extension and falling back to sniffing the bytes
func readAvatar(path string) (*FileUpload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read avatar: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &FileUpload{
		Field:       "avatar",
		Filename:    path,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func newUsersConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <token>",
		Short: "Activate an account with its activation token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Get("/api/users/confirm/"+url.PathEscape(args[0]), nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Account activated")
			return nil
		},
	}
}

func newUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result User

			if err := client.Get("/api/users/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
