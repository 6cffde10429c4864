package notebook

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// SynthesizedState is the minimal placeholder state inserted for an affected
// widget entry. It satisfies structural validity for renderers; it is not a
// reconstruction of the widget's real prior state. Field order matches the
// serialized key order.
type SynthesizedState struct {
	ModelModule        string `json:"_model_module"`
	ModelModuleVersion string `json:"_model_module_version"`
	ModelName          string `json:"_model_name"`
	ViewCount          *int   `json:"_view_count"`
}

// Repair returns a new document in which every entry recorded in scan has a
// synthesized "state", along with the repaired widget IDs in scan order.
//
// The scan must have been produced from this exact document. Each repair
// touches only the entry's "state" key: a null state is replaced in place,
// a missing one is appended to the entry, and every other byte of the
// document is preserved. Scanning the returned document finds no issues.
func Repair(doc *Document, scan *ScanResult) (*Document, []string, error) {
	raw := doc.raw
	repaired := make([]string, 0, len(scan.Issues))

	for _, issue := range scan.Issues {
		state, err := json.Marshal(SynthesizedState{
			ModelModule:        issue.ModelModule,
			ModelModuleVersion: issue.ModelModuleVersion,
			ModelName:          issue.ModelName,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build state for widget %s: %w", issue.WidgetID, err)
		}

		path := entryStatePath(issue.WidgetID)
		raw, err = sjson.SetRawBytes(raw, path, state)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to set state for widget %s: %w", issue.WidgetID, err)
		}
		// sjson leaves the document unchanged when a path does not
		// resolve, so a splice must never be taken on faith.
		if !gjson.GetBytes(raw, path).IsObject() {
			return nil, nil, fmt.Errorf("state for widget %s did not apply", issue.WidgetID)
		}
		repaired = append(repaired, issue.WidgetID)
	}

	return &Document{raw: raw}, repaired, nil
}
