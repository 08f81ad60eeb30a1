package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vanderheijden86/flavortown/pkg/model"
)

func (a *app) projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}
	cmd.AddCommand(a.projectsListCmd(), a.projectsGetCmd())
	return cmd
}

func (a *app) projectsListCmd() *cobra.Command {
	var (
		page   int
		query  string
		sortBy string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sortBy != "title" && sortBy != "date" {
				return fmt.Errorf("invalid sort %q (expected title|date)", sortBy)
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			projects, err := c.Projects(cmd.Context(), page, query)
			if err != nil {
				return fmt.Errorf("fetching projects: %w", err)
			}
			if len(projects) == 0 {
				a.warn("No projects found.")
				return nil
			}
			sortProjects(projects, sortBy)
			a.writeProjects(projects)
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "date", "sort by: title, date")
	return cmd
}

// sortProjects orders by collated title, or newest first by creation date.
func sortProjects(projects []model.Project, by string) {
	if by == "title" {
		col := collate.New(language.Und)
		slices.SortStableFunc(projects, func(x, y model.Project) int {
			return col.CompareString(x.Title, y.Title)
		})
		return
	}
	slices.SortStableFunc(projects, func(x, y model.Project) int {
		return y.CreatedAt.Compare(x.CreatedAt)
	})
}

func (a *app) writeProjects(projects []model.Project) {
	s := a.styles
	for _, p := range projects {
		fmt.Fprintf(a.out, "%s %s %s\n",
			s.ID.Render(padID(strconv.FormatInt(p.ID, 10))),
			s.Name.Render(p.Title),
			s.Dim.Render("("+formatDate(p.CreatedAt)+")"))
		desc := p.Description
		if desc == "" {
			desc = "No description"
		}
		fmt.Fprintln(a.out, "    "+s.Description.Render(desc))
		if p.RepoURL != "" {
			fmt.Fprintln(a.out, "    Repo: "+s.Link.Render(p.RepoURL))
		}
		fmt.Fprintln(a.out)
	}
	a.dim(fmt.Sprintf("Showing %d projects.", len(projects)))
}

func (a *app) projectsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get project details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			p, err := c.Project(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching project: %w", err)
			}
			fmt.Fprintln(a.out, a.styles.Title.Render(p.Title))
			fmt.Fprintln(a.out, a.markdown(p.Description))
			fmt.Fprintln(a.out, "Repo: "+orNA(p.RepoURL))
			fmt.Fprintln(a.out, "Demo: "+orNA(p.DemoURL))
			fmt.Fprintln(a.out, "Readme: "+orNA(p.ReadmeURL))
			return nil
		},
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
