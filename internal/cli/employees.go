package cli

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newEmployeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"emp"},
		Short:   "Employee directory commands",
	}

	cmd.AddCommand(newEmployeesListCmd())
	cmd.AddCommand(newEmployeesOldestCmd())
	cmd.AddCommand(newEmployeesGetCmd())
	cmd.AddCommand(newEmployeesCreateCmd())

	return cmd
}

func newEmployeesListCmd() *cobra.Command {
	var page int
	var usersOnly bool
	var badge string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if page > 0 {
				query.Set("page", strconv.Itoa(page))
			}
			if usersOnly {
				query.Set("user", "true")
			}
			if badge != "" {
				query.Set("badges", badge)
			}

			path := "/api/employees"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var result []Employee
			if err := client.Get(path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number, two employees per page (0 for all)")
	cmd.Flags().BoolVar(&usersOnly, "users", false, "Only employees with user privileges")
	cmd.Flags().StringVar(&badge, "badge", "", "Only employees holding this badge")

	return cmd
}

func newEmployeesOldestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "oldest",
		Short: "Show the oldest employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Employee

			if err := client.Get("/api/employees/oldest", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newEmployeesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Look up an employee by name (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Employee

			if err := client.Get("/api/employees/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newEmployeesCreateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an employee from a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if file == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(file)
			}
			if err != nil {
				return fmt.Errorf("failed to read employee: %w", err)
			}

			var result Employee
			if err := client.DoRaw(http.MethodPost, "/api/employees", data, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the employee, - for stdin (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
