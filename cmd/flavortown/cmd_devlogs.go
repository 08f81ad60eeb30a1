package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (a *app) devlogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devlogs",
		Short: "Manage devlogs",
	}
	cmd.AddCommand(a.devlogsListCmd(), a.devlogsGetCmd())
	return cmd
}

func (a *app) devlogsListCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list PROJECT_ID",
		Short: "List devlogs for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			logs, err := c.Devlogs(cmd.Context(), args[0], page)
			if err != nil {
				return fmt.Errorf("fetching devlogs: %w", err)
			}
			if len(logs) == 0 {
				a.warn("No devlogs found for this project.")
				return nil
			}

			s := a.styles
			for _, d := range logs {
				fmt.Fprintf(a.out, "%s %s\n", s.ID.Render(padID(strconv.FormatInt(d.ID, 10))), s.Dim.Render(formatDate(d.CreatedAt)))
				fmt.Fprintln(a.out, "    "+preview(d.Body, bodyPreviewLen))
				fmt.Fprintf(a.out, "    %s %d | %s %d\n", s.Danger.Render("❤"), d.LikesCount, s.Type.Render("💬"), d.CommentsCount)
				fmt.Fprintln(a.out)
			}
			a.dim(fmt.Sprintf("Showing %d devlogs.", len(logs)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

func (a *app) devlogsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get PROJECT_ID ID",
		Short: "Get devlog details",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			d, err := c.Devlog(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("fetching devlog: %w", err)
			}

			s := a.styles
			fmt.Fprintln(a.out, s.Title.Render(fmt.Sprintf("Devlog #%d - %s", d.ID, formatDateTime(d.CreatedAt))))
			a.rule()
			fmt.Fprintln(a.out, a.markdown(d.Body))
			a.rule()
			fmt.Fprintf(a.out, "%s %d Likes | %s %d Comments\n", s.Danger.Render("❤"), d.LikesCount, s.Type.Render("💬"), d.CommentsCount)
			fmt.Fprintf(a.out, "Duration: %ss\n", s.Cost.Render(strconv.FormatInt(d.DurationSeconds, 10)))
			if d.ScrapbookURL != "" {
				fmt.Fprintln(a.out, "URL: "+s.Link.Render(d.ScrapbookURL))
			}
			return nil
		},
	}
}
