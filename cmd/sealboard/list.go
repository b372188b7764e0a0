package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/rpggio/sealboard/internal/listview"
	"github.com/spf13/cobra"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	overdueStyle = cellStyle.Foreground(lipgloss.Color("9"))
	dueStyle     = cellStyle.Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	currentStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

type listOptions struct {
	query    listview.Query
	filters  map[listview.FilterKey]*string
	remote   bool
	from     string
	pageSize int
}

func newListCmd() *cobra.Command {
	opts := &listOptions{filters: map[listview.FilterKey]*string{}}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the project board",
		Example: `  sealboard list --stage red_seal --page 2
  sealboard list --country India --q tin
  sealboard list --remote --from https://erp.example.com/api`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.query.Search, "q", "", "search code, name, company, brand and category")
	f.StringVar(&opts.query.Stage, "stage", "", "stage identifier, e.g. red_seal")
	f.IntVar(&opts.query.Page, "page", 1, "page number")
	f.IntVar(&opts.pageSize, "page-size", 0, "rows per page (default from view.default_page_size)")
	for _, key := range listview.FilterKeys {
		opts.filters[key] = f.String(string(key), "", fmt.Sprintf("filter by %s (\"all\" disables)", key))
	}
	f.BoolVar(&opts.remote, "remote", false, "read from the remote ERP backend instead of the local store")
	f.StringVar(&opts.from, "from", "", "remote backend base URL (default source.base_url)")
	return cmd
}

func runList(cmd *cobra.Command, opts *listOptions) error {
	q := opts.query
	q.PageSize = opts.pageSize
	q.Criteria = listview.Criteria{}
	for key, value := range opts.filters {
		q.Criteria.Set(key, *value)
	}

	var (
		res listview.Result[project.Row]
		err error
	)
	if opts.remote {
		client := newSourceClient(cfg.Source, opts.from, logger)
		defer client.Close()

		projects, fetchErr := client.FetchProjects(cmd.Context())
		if fetchErr != nil {
			return fetchErr
		}
		res, err = project.BuildView(projects, q, viewConfig(cfg.View))
	} else {
		a, openErr := openApp(cfg, logger)
		if openErr != nil {
			return openErr
		}
		defer a.Close()
		res, err = a.projects.View(cmd.Context(), tenantFlag, q)
	}
	if err != nil {
		return err
	}

	renderBoard(cmd.OutOrStdout(), res)
	return nil
}

func renderBoard(w io.Writer, res listview.Result[project.Row]) {
	if res.TotalItems == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No projects match."))
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CODE", "NAME", "COMPANY", "COUNTRY", "STAGE", "TARGET").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 5 && row >= 0 && row < len(res.Items) {
				d := res.Items[row].Duration
				switch {
				case d.Overdue:
					return overdueStyle
				case d.Known && d.Days == 0:
					return dueStyle
				}
			}
			return cellStyle
		})
	for _, r := range res.Items {
		t.Row(r.Code, r.Name, r.CompanyName, r.Country, r.StageLabel, r.Duration.Label)
	}
	fmt.Fprintln(w, t.Render())

	summary := fmt.Sprintf("%d projects", res.TotalItems)
	if res.ActiveFilters > 0 {
		summary += fmt.Sprintf(", %d filters", res.ActiveFilters)
	}
	if res.ShowPagination {
		summary = fmt.Sprintf("page %d of %d  %s  (%s)", res.Page, res.TotalPages, pageWindow(res), summary)
	}
	fmt.Fprintln(w, mutedStyle.Render(summary))
}

func pageWindow(res listview.Result[project.Row]) string {
	parts := make([]string, 0, len(res.Window))
	for _, item := range res.Window {
		if !item.Ellipsis && item.Page == res.Page {
			parts = append(parts, currentStyle.Render(item.String()))
			continue
		}
		parts = append(parts, item.String())
	}
	return strings.Join(parts, " ")
}
