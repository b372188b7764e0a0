package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/rpggio/sealboard/internal/listview"
)

const serverInstructions = `sealboard tracks product developments (projects) through a fixed stage pipeline,
from idea through Red Seal and Green Seal sample approval to PO issue.

Workflow:
1) Orient: call stage_summary for per-stage counts, optionally narrowed by query and filters.
2) Browse: call list_projects with a stage, query and filters. Results are paginated; follow page until page == total_pages.
3) Inspect: get_project and get_recent_activity for one project.
4) Mutate: create_project, then transition_stage one step at a time. Moving backward requires a reason.

Filters accept exact values (case-insensitive). Omit a filter or pass "all" to disable it.

Docs:
- sealboard://docs/stages (pipeline and transition rules)
- sealboard://docs/filters (search fields, filters and pagination)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "sealboard://docs/stages",
		Name:        "docs_stages",
		Title:       "Stage pipeline",
		Description: "Stage identifiers in pipeline order and the transition rules.",
		Content:     stagesDoc(),
	},
	{
		URI:         "sealboard://docs/filters",
		Name:        "docs_filters",
		Title:       "Board filters",
		Description: "How search, filters and pagination narrow the project board.",
		Content:     filtersDoc(),
	},
}

func stagesDoc() string {
	var b strings.Builder
	b.WriteString("# Stage pipeline\n\n| # | stage | label |\n|---|---|---|\n")
	for i, s := range project.Stages {
		fmt.Fprintf(&b, "| %d | `%s` | %s |\n", i+1, s, s.Label())
	}
	b.WriteString(`
## Transitions

- Forward moves advance exactly one stage.
- Backward moves to any earlier stage are allowed with a reason.
- ` + "`po_issued`" + ` is terminal.
- Projects imported with an unrecognized stage may move to any stage. They are not listed under any stage tab
  and are reported as ` + "`unrecognized`" + ` by stage_summary.

Red Seal and Green Seal projects carry a target date; the board shows the days left until it
(or "TBD" when no date is set).
`)
	return b.String()
}

func filtersDoc() string {
	keys := make([]string, len(listview.FilterKeys))
	for i, k := range listview.FilterKeys {
		keys[i] = "`" + string(k) + "`"
	}
	return fmt.Sprintf(`# Board filters

- query: case-insensitive substring match on code, name, company, brand and category.
- filters: %s. Each matches the whole value, ignoring case. Empty or "all" disables a filter.
- stage: one stage identifier; omit for every project.
- page: 1-based; out-of-range pages are clamped.
- page_size: defaults to %d.
`, strings.Join(keys, ", "), listview.DefaultPageSize)
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      doc.URI,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
