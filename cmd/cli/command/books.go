package command

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"eshelf/cmd/cli/command/client"
	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/models"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Browse the catalog",
	Long:  `List, search and inspect books and genres.`,
}

var listBooksCmd = &cobra.Command{
	Use:   "list",
	Short: "List books with optional filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts client.BookListOptions
		opts.Keyword, _ = cmd.Flags().GetString("keyword")
		opts.Genres, _ = cmd.Flags().GetStringSlice("genre")
		opts.Language, _ = cmd.Flags().GetString("language")
		opts.Sort, _ = cmd.Flags().GetString("sort")
		opts.Page, _ = cmd.Flags().GetInt("page")
		opts.Limit, _ = cmd.Flags().GetInt("limit")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		page, err := newClient().ListBooks(ctx, opts)
		if err != nil {
			return err
		}
		printBookPage(cmd, page)
		return nil
	},
}

var searchBooksCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search books by title, author or publisher",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pageNum, _ := cmd.Flags().GetInt("page")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		page, err := newClient().SearchBooks(ctx, strings.Join(args, " "), pageNum)
		if err != nil {
			return err
		}
		printBookPage(cmd, page)
		return nil
	},
}

var getBookCmd = &cobra.Command{
	Use:   "get [isbn]",
	Short: "Show a book with its latest reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		detail, err := newClient().GetBook(ctx, args[0])
		if err != nil {
			return err
		}
		printBookDetail(cmd, detail)
		return nil
	},
}

var relatedBooksCmd = &cobra.Command{
	Use:   "related [isbn]",
	Short: "List books sharing a genre",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		related, err := newClient().RelatedBooks(ctx, args[0], limit)
		if err != nil {
			return err
		}
		if len(related) == 0 {
			printf(cmd, "No related books found.\n")
			return nil
		}
		for i, b := range related {
			printf(cmd, "%d. %s [%s] - %s\n", i+1, b.Title, b.ISBN, strings.Join(b.Authors, ", "))
		}
		return nil
	},
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List active genres",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		genres, err := newClient().Genres(ctx)
		if err != nil {
			return err
		}
		for _, g := range genres {
			printf(cmd, "%-30s %-30s %d books\n", g.Name, g.Slug, g.BookCount)
		}
		return nil
	},
}

func printBookPage(cmd *cobra.Command, page *client.Page[models.Book]) {
	if len(page.Items) == 0 {
		printf(cmd, "No books found.\n")
		return
	}
	for _, b := range page.Items {
		printBookLine(cmd, b)
	}
	if p := page.Pagination; p != nil {
		printf(cmd, "\nPage %d of %d (%d books)\n", p.Page, p.Pages, p.Total)
	}
}

func printBookLine(cmd *cobra.Command, b models.Book) {
	title := color.New(color.Bold).Sprint(b.Title)
	printf(cmd, "%s [%s]\n", title, b.ISBN)
	if len(b.Authors) > 0 {
		printf(cmd, "   by %s\n", strings.Join(b.Authors, ", "))
	}
	if len(b.Genres) > 0 {
		printf(cmd, "   %s\n", strings.Join(b.Genres, " · "))
	}
}

func printBookDetail(cmd *cobra.Command, d *dto.BookDetailResponse) {
	b := d.Book
	printBookLine(cmd, b)
	if b.Publisher != "" {
		printf(cmd, "   Publisher: %s\n", b.Publisher)
	}
	if b.Year != nil {
		printf(cmd, "   Year:      %d\n", *b.Year)
	}
	printf(cmd, "   Language:  %s, %d pages, %s %s\n", b.Language, b.Pages, b.Extension, b.Size)
	printf(cmd, "   Views %d · Downloads %d · Favorites %d\n", b.ViewCount, b.DownloadCount, b.FavoriteCount)
	if b.Description != "" {
		printf(cmd, "\n%s\n", b.Description)
	}

	if len(d.Reviews) == 0 {
		return
	}
	printf(cmd, "\nLatest reviews\n")
	for _, r := range d.Reviews {
		who := "unknown"
		if r.User != nil {
			who = r.User.Username
		}
		printf(cmd, "  %s %s: %s\n", color.YellowString(strings.Repeat("★", r.Rating)), who, r.Comment)
	}
}

func init() {
	booksCmd.AddCommand(listBooksCmd, searchBooksCmd, getBookCmd, relatedBooksCmd, genresCmd)

	listBooksCmd.Flags().StringP("keyword", "k", "", "keyword to match")
	listBooksCmd.Flags().StringSliceP("genre", "g", nil, "genre names (repeatable)")
	listBooksCmd.Flags().String("language", "", "book language")
	listBooksCmd.Flags().String("sort", "", "newest, title, year, popular, downloads or favorites")
	listBooksCmd.Flags().Int("page", 1, "page number")
	listBooksCmd.Flags().Int("limit", 20, "page size")

	searchBooksCmd.Flags().Int("page", 1, "page number")
	relatedBooksCmd.Flags().Int("limit", 12, "number of books")
}
