package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"eshelf/cmd/cli/command/client"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage your favorites, bookmarks and reading history",
}

// shelfCmd builds the add/remove/list commands of one shelf.
func shelfCmd(shelf client.Shelf, short string) *cobra.Command {
	parent := &cobra.Command{Use: string(shelf), Short: short}

	parent.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the books on your " + string(shelf),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := authenticatedClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			books, err := c.ListShelf(ctx, shelf)
			if err != nil {
				return err
			}
			if len(books) == 0 {
				printf(cmd, "📚 Your %s list is empty\n", shelf)
				return nil
			}
			printf(cmd, "📚 Your %s (%d books)\n", shelf, len(books))
			for _, b := range books {
				printBookLine(cmd, b)
			}
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "add [isbn]",
		Short: "Add a book to your " + string(shelf),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := authenticatedClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			msg, err := c.AddToShelf(ctx, shelf, args[0])
			if err != nil {
				return err
			}
			success(cmd, "%s", msg)
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "remove [isbn]",
		Short: "Remove a book from your " + string(shelf),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := authenticatedClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			msg, err := c.RemoveFromShelf(ctx, shelf, args[0])
			if err != nil {
				return err
			}
			success(cmd, "%s", msg)
			return nil
		},
	})
	return parent
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your reading history",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		entries, err := c.ReadingHistory(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			printf(cmd, "No reading history yet.\n")
			return nil
		}
		for _, e := range entries {
			printf(cmd, "%3d%%  %s [%s]  last read %s\n", e.Progress, e.Book.Title, e.Book.ISBN, e.LastRead.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress [isbn] [percent]",
	Short: "Record reading progress (0-100)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		percent, err := strconv.Atoi(args[1])
		if err != nil || percent < 0 || percent > 100 {
			return fmt.Errorf("progress must be a number between 0 and 100")
		}

		c, _, err := authenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := c.UpdateProgress(ctx, args[0], percent); err != nil {
			return err
		}
		success(cmd, "Progress for %s set to %d%%", args[0], percent)
		return nil
	},
}

func init() {
	libraryCmd.AddCommand(
		shelfCmd(client.Favorites, "Manage your favorite books"),
		shelfCmd(client.Bookmarks, "Manage your bookmarked books"),
		historyCmd,
		progressCmd,
	)
}
