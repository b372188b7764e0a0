package source

import (
	"strings"

	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/rpggio/sealboard/internal/listview"
	"github.com/tidwall/gjson"
)

// Lookups maps master-data IDs to display names.
type Lookups struct {
	Companies  map[string]string
	Brands     map[string]string
	Categories map[string]string
}

// Items returns the elements of a response body that is either a bare JSON
// array or an envelope with a "data" array.
func Items(body []byte) []gjson.Result {
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root.Array()
	}
	if data := root.Get("data"); data.IsArray() {
		return data.Array()
	}
	return nil
}

// ParseLookup builds an ID to name map from a master-data response.
func ParseLookup(body []byte) map[string]string {
	out := map[string]string{}
	for _, item := range Items(body) {
		id := first(item, "_id", "id")
		name := first(item, "name", "title")
		if id != "" && name != "" {
			out[id] = name
		}
	}
	return out
}

// NormalizeProject maps one loosely shaped backend project onto a Project.
// Unknown stage values are kept verbatim. ok is false when the record has no
// usable ID.
func NormalizeProject(raw gjson.Result, lookups Lookups) (project.Project, bool) {
	id := first(raw, "project._id", "id", "_id")
	if id == "" {
		return project.Project{}, false
	}

	stage := project.Stage(strings.TrimSpace(first(raw, "stage", "status", "project.stage")))
	p := project.Project{
		ID:           id,
		Code:         first(raw, "code", "projectCode", "project.code"),
		Name:         first(raw, "name", "artName", "projectName", "project.name"),
		CompanyName:  resolve(raw, lookups.Companies, "company.name", "companyName", "company"),
		BrandName:    resolve(raw, lookups.Brands, "brand.name", "brandName", "brand"),
		CategoryName: resolve(raw, lookups.Categories, "category.name", "categoryName", "category"),
		Country:      first(raw, "country", "company.country"),
		Priority:     project.Priority(strings.ToLower(first(raw, "priority"))),
		Type:         first(raw, "type", "productType"),
		Stage:        stage,
		Remarks:      first(raw, "remarks", "remark"),
	}

	if created, ok := listview.ParseDate(first(raw, "createdAt", "created_at", "project.createdAt")); ok {
		p.CreatedAt = created.UTC()
	}
	if updated, ok := listview.ParseDate(first(raw, "updatedAt", "updated_at")); ok {
		p.UpdatedAt = updated.UTC()
	}
	if target, ok := listview.ParseDate(first(raw, targetPaths(stage)...)); ok {
		t := target.UTC()
		p.TargetDate = &t
	}
	return p, true
}

// NormalizeProjects normalizes every project in body, dropping records without an ID.
func NormalizeProjects(body []byte, lookups Lookups) []project.Project {
	items := Items(body)
	out := make([]project.Project, 0, len(items))
	for _, item := range items {
		if p, ok := NormalizeProject(item, lookups); ok {
			out = append(out, p)
		}
	}
	return out
}

func targetPaths(stage project.Stage) []string {
	switch stage {
	case project.StageRedSeal:
		return []string{"redSealTargetDate", "redSeal.targetDate", "targetDate", "target_date"}
	case project.StageGreenSeal:
		return []string{"greenSealTargetDate", "greenSeal.targetDate", "targetDate", "target_date"}
	default:
		return []string{"targetDate", "target_date"}
	}
}

// first returns the first non-empty string value among paths.
func first(raw gjson.Result, paths ...string) string {
	for _, path := range paths {
		v := raw.Get(path)
		if !v.Exists() || v.Type == gjson.JSON {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

// resolve reads a reference field that may hold a name or an ID, plus the
// matching "<field>Id" key, and translates IDs through lookup.
func resolve(raw gjson.Result, lookup map[string]string, namePath, flatPath, refPath string) string {
	if name := first(raw, namePath, flatPath); name != "" {
		return name
	}
	for _, idPath := range []string{refPath + "._id", refPath + "Id", refPath} {
		ref := first(raw, idPath)
		if ref == "" {
			continue
		}
		if name, ok := lookup[ref]; ok {
			return name
		}
		if idPath == refPath {
			return ref
		}
	}
	return ""
}
