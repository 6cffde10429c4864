package notebook

import "github.com/tidwall/gjson"

// Issue describes one widget entry whose "state" key is missing or null.
// The model fields are captured from the entry at scan time so the repair can
// synthesize a placeholder state; any that the entry lacks are empty strings.
type Issue struct {
	WidgetID           string
	ModelModule        string
	ModelModuleVersion string
	ModelName          string
}

// ScanResult is the outcome of scanning one document.
type ScanResult struct {
	// WidgetsPresent reports whether the widget-state map exists at all.
	// A document with no metadata, no widgets key, or no widget-state
	// media-type entry has WidgetsPresent false and no issues.
	WidgetsPresent bool

	// TotalWidgets is the number of entries in the widget-state map.
	TotalWidgets int

	// Issues lists the affected entries in their stored document order.
	Issues []Issue
}

// HasIssues reports whether any entry needs repair.
func (r *ScanResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AffectedIDs returns the widget IDs of all issues, in scan order.
func (r *ScanResult) AffectedIDs() []string {
	ids := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		ids = append(ids, issue.WidgetID)
	}
	return ids
}

// Scan walks the document's widget-state map and records every entry whose
// "state" key is absent or null. Presence of a non-null "state" is the whole
// validity criterion: an empty state object is valid, and no deeper
// validation is attempted. Entries that are not objects are a different kind
// of malformation and are skipped. Scan never modifies the document.
func Scan(doc *Document) *ScanResult {
	result := &ScanResult{}

	widgets := gjson.GetBytes(doc.raw, widgetStatePath())
	if !widgets.Exists() || !widgets.IsObject() {
		return result
	}
	result.WidgetsPresent = true

	widgets.ForEach(func(key, entry gjson.Result) bool {
		result.TotalWidgets++
		if !entry.IsObject() {
			return true
		}
		state := entry.Get("state")
		if state.Exists() && state.Type != gjson.Null {
			return true
		}
		result.Issues = append(result.Issues, Issue{
			WidgetID:           key.String(),
			ModelModule:        entry.Get("model_module").String(),
			ModelModuleVersion: entry.Get("model_module_version").String(),
			ModelName:          entry.Get("model_name").String(),
		})
		return true
	})

	return result
}
