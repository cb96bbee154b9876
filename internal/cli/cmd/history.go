package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bnema/wayfinder/internal/application/usecase"
	"github.com/bnema/wayfinder/internal/domain/entity"
)

var (
	historyTitle string
	historyMax   int
	historyJSON  bool

	bookmarkTitle string
	bookmarkTags  []string
	bookmarkJSON  bool
)

const defaultHistoryMax = 50

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Record and list visits",
}

var historyAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Record a visit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		entry, err := a.HistoryUC.RecordVisit(a.Ctx(), usecase.RecordVisitInput{URL: args[0], Title: historyTitle})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", entry.URL, a.Theme.VisitBadge(entry.VisitCount))
		return err
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent visits",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		entries, err := a.HistoryUC.GetRecent(a.Ctx(), historyMax, 0)
		if err != nil {
			return err
		}
		if historyJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Theme.HistoryTable(entries))
		return err
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		if err := a.HistoryUC.Clear(a.Ctx()); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Theme.SuccessStyle.Render("history cleared"))
		return err
	},
}

var bookmarkCmd = &cobra.Command{
	Use:     "bookmark",
	Aliases: []string{"bookmarks"},
	Short:   "Manage bookmarks",
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Bookmark a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		fav, err := a.FavoritesUC.Add(a.Ctx(), usecase.AddFavoriteInput{URL: args[0], Title: bookmarkTitle, Tags: bookmarkTags})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", a.Theme.Badge.Render(strconv.FormatInt(int64(fav.ID), 10)), fav.URL)
		return err
	},
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		favs, err := a.FavoritesUC.GetAll(a.Ctx())
		if err != nil {
			return err
		}
		if bookmarkJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(favs)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Theme.BookmarkTable(favs))
		return err
	},
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a bookmark by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid bookmark id %q", args[0])
		}
		if err := a.FavoritesUC.Remove(a.Ctx(), entity.FavoriteID(id)); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Theme.SuccessStyle.Render("bookmark removed"))
		return err
	},
}

func init() {
	rootCmd.AddCommand(historyCmd, bookmarkCmd)
	historyCmd.AddCommand(historyAddCmd, historyListCmd, historyClearCmd)
	bookmarkCmd.AddCommand(bookmarkAddCmd, bookmarkListCmd, bookmarkRemoveCmd)

	historyAddCmd.Flags().StringVar(&historyTitle, "title", "", "page title")
	historyListCmd.Flags().IntVar(&historyMax, "max", defaultHistoryMax, "maximum entries to show")
	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")

	bookmarkAddCmd.Flags().StringVar(&bookmarkTitle, "title", "", "bookmark title")
	bookmarkAddCmd.Flags().StringSliceVar(&bookmarkTags, "tag", nil, "extra tag (repeatable)")
	bookmarkListCmd.Flags().BoolVar(&bookmarkJSON, "json", false, "output as JSON")
}
