package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/urbanroots/internal/community"
)

func communityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "community",
		Short: "Browse and share gardening posts",
		Long: `Read the community feed, share your own garden experience and like
posts. Regions: ` + strings.Join(community.Regions(), ", ") + `.`,
	}

	cmd.AddCommand(feedCmd())
	cmd.AddCommand(shareCmd())
	cmd.AddCommand(likeCmd())

	return cmd
}

func feedCmd() *cobra.Command {
	var region, order string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			posts, err := a.community.Feed(region, community.Sort(order))
			if err != nil {
				return err
			}
			printFeed(cmd.OutOrStdout(), posts, a.clock.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "only posts from this region")
	cmd.Flags().StringVar(&order, "sort", string(community.SortRecent), "recent, liked or commented")
	return cmd
}

func shareCmd() *cobra.Command {
	var draft community.Draft

	cmd := &cobra.Command{
		Use:   "share <text>",
		Short: "Share a post with the community",
		Long:  "Tags: " + strings.Join(community.Tags(), ", "),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.Content = strings.Join(args, " ")
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("Sharing..."))
			p, err := a.community.Share(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s post %s\n", successStyle.Render("Shared"), shortID(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Author, "author", "", "name shown on the post")
	cmd.Flags().StringVar(&draft.Region, "region", "", "your region")
	cmd.Flags().StringSliceVar(&draft.Tags, "tag", nil, "post tags (repeatable)")
	cmd.Flags().StringSliceVar(&draft.Images, "image", nil, fmt.Sprintf("image URL (repeatable, max %d)", community.MaxImages))
	return cmd
}

func likeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Like or unlike a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			id, err := findPost(a.community, args[0])
			if err != nil {
				return err
			}
			p, err := a.community.ToggleLike(cmd.Context(), id)
			if err != nil {
				return err
			}
			verb := "Unliked"
			if p.Liked {
				verb = "Liked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s post by %s (%d likes)\n", verb, p.Author, p.Likes)
			return nil
		},
	}
}

// findPost accepts a full id or a unique id prefix.
func findPost(m *community.Manager, ref string) (string, error) {
	if p, ok := m.Get(ref); ok {
		return p.ID, nil
	}
	posts, err := m.Feed("", community.SortRecent)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, p := range posts {
		if strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no post matches %q", ref)
	default:
		return "", fmt.Errorf("%q matches %d posts", ref, len(matches))
	}
}

func printFeed(out io.Writer, posts []community.Post, now time.Time) {
	if len(posts) == 0 {
		fmt.Fprintln(out, infoStyle.Render("Be the first to share your gardening experience! Use 'urbanroots community share'."))
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()
	writeHeader(w, "ID", "AUTHOR", "REGION", "LIKES", "POSTED", "POST")
	for _, p := range posts {
		region := p.Region
		if region == "" {
			region = "-"
		}
		content := strings.ReplaceAll(p.Content, "\n", " ")
		if len(p.Tags) > 0 {
			content += " #" + strings.Join(p.Tags, " #")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			shortID(p.ID), p.Author, region, p.Likes, community.RelativeTime(now, p.CreatedAt), content)
	}
}
