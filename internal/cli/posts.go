package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newPostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Post commands (require login)",
	}

	cmd.AddCommand(newPostsCreateCmd())
	cmd.AddCommand(newPostsListCmd())
	cmd.AddCommand(newPostsGetCmd())
	cmd.AddCommand(newPostsUpdateCmd())
	cmd.AddCommand(newPostsDeleteCmd())

	return cmd
}

func newPostsCreateCmd() *cobra.Command {
	var title, text, author string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"title":  title,
				"text":   text,
				"author": author,
			}
			var result Post

			if err := client.Post("/api/posts", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title, at least 6 characters (required)")
	cmd.Flags().StringVar(&text, "text", "", "Body, at least 6 characters (required)")
	cmd.Flags().StringVar(&author, "author", "", "Author (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("author")

	return cmd
}

func newPostsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Post

			if err := client.Get("/api/posts", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newPostsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Post

			if err := client.Get("/api/posts/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newPostsUpdateCmd() *cobra.Command {
	var title, text, author string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change some fields of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Only send the fields that were given
			req := map[string]string{}
			for name, value := range map[string]string{"title": title, "text": text, "author": author} {
				if cmd.Flags().Changed(name) {
					req[name] = value
				}
			}
			if len(req) == 0 {
				return fmt.Errorf("at least one of --title, --text or --author is required")
			}

			var result Post
			if err := client.Patch("/api/posts/"+url.PathEscape(args[0]), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&text, "text", "", "New body")
	cmd.Flags().StringVar(&author, "author", "", "New author")

	return cmd
}

func newPostsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/posts/" + url.PathEscape(args[0])); err != nil {
				return err
			}

			output(cmd).PrintMessage("Post deleted")
			return nil
		},
	}
}
