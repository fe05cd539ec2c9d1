package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kanishk-singh19/Wellness/internal/client"
	"github.com/kanishk-singh19/Wellness/internal/models"
	"github.com/kanishk-singh19/Wellness/internal/sessioncache"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage wellness sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions (public feed, or your own with --mine)",
	RunE:  runSessionsList,
}

var sessionsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create a session, or update one by id",
	RunE:  runSessionsSave,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsPublishCmd = &cobra.Command{
	Use:   "publish <id>",
	Short: "Publish a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatusChange,
}

var sessionsUnpublishCmd = &cobra.Command{
	Use:   "unpublish <id>",
	Short: "Move a session back to draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatusChange,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsSaveCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsPublishCmd)
	sessionsCmd.AddCommand(sessionsUnpublishCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)

	sessionsListCmd.Flags().Bool("mine", false, "list your own sessions instead of the public feed")
	sessionsListCmd.Flags().String("search", "", "substring filter over title and tags")
	sessionsListCmd.Flags().String("status", "", "filter by status: draft or published")
	sessionsListCmd.Flags().String("sort", "recent", "sort key: recent, created, title, views")

	sessionsSaveCmd.Flags().String("id", "", "session id; omit to create")
	sessionsSaveCmd.Flags().String("title", "", "session title")
	sessionsSaveCmd.Flags().String("url", "", "URL of the hosted session JSON")
	sessionsSaveCmd.Flags().StringSlice("tags", nil, "comma-separated tags")
	sessionsSaveCmd.Flags().String("status", "", "draft or published")
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	mine, _ := cmd.Flags().GetBool("mine")
	search, _ := cmd.Flags().GetString("search")
	status, _ := cmd.Flags().GetString("status")
	sortKey, _ := cmd.Flags().GetString("sort")

	c := newClient()
	cache := sessioncache.New()
	var fetch sessioncache.Fetcher
	if mine {
		creds, err := loadCredentials()
		if err != nil {
			return fmt.Errorf("not logged in; run wellnessctl login")
		}
		fetch = func(ctx context.Context) ([]models.Session, error) {
			return c.UserSessions(ctx, creds.User.ID)
		}
	} else {
		fetch = func(ctx context.Context) ([]models.Session, error) {
			return c.PublishedSessions(ctx)
		}
	}

	if err := cache.Refresh(cmd.Context(), fetch); err != nil {
		return err
	}

	listed := sessioncache.Sort(cache.Filter(search, status), sessioncache.SortKey(sortKey))
	for _, session := range listed {
		printSession(session)
	}
	if len(listed) == 0 {
		fmt.Println("no sessions")
	}
	return nil
}

func runSessionsSave(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	title, _ := cmd.Flags().GetString("title")
	url, _ := cmd.Flags().GetString("url")
	tags, _ := cmd.Flags().GetStringSlice("tags")
	status, _ := cmd.Flags().GetString("status")

	if tags == nil {
		tags = []string{}
	}
	session, err := newClient().SaveSession(cmd.Context(), client.SaveSessionInput{
		ID:          id,
		Title:       title,
		Tags:        tags,
		JSONFileURL: url,
		Status:      status,
	})
	if err != nil {
		return err
	}
	printSession(session)
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	session, err := newClient().GetSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printSession(session)
	return nil
}

func runStatusChange(cmd *cobra.Command, args []string) error {
	c := newClient()
	var (
		session models.Session
		err     error
	)
	if cmd.Name() == "publish" {
		session, err = c.PublishSession(cmd.Context(), args[0])
	} else {
		session, err = c.UnpublishSession(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}
	printSession(session)
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	if err := newClient().DeleteSession(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}

func printSession(session models.Session) {
	tags := ""
	if len(session.Tags) > 0 {
		tags = " [" + strings.Join(session.Tags, ", ") + "]"
	}
	fmt.Printf("%s  %-9s  %s%s  views=%d  updated=%s\n",
		session.ID, session.Status, session.Title, tags, session.Views,
		session.UpdatedAt.Format("2006-01-02 15:04"))
}
