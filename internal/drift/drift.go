package drift

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gridbill/internal/confidence"
	"gridbill/internal/domain"
)

// volatileKeys change on every run and never constitute drift.
var volatileKeys = map[string]bool{
	"extraction_id":         true,
	"extraction_timestamp":  true,
	"processing_time_ms":    true,
	"few_shot_context_hash": true,
}

var severityRank = map[domain.MismatchSeverity]int{
	domain.MismatchLow:    0,
	domain.MismatchMedium: 1,
	domain.MismatchHigh:   2,
	domain.MismatchFatal:  3,
}

// Compare diffs a rerun against its pinned baseline for the same physical
// document. Differences are graded with the confidence engine's field
// weights; metadata deltas become cause hypotheses, not differences.
func Compare(baseline *domain.DriftBaseline, current *domain.ExtractionResult) (*domain.DriftReport, error) {
	var baseResult domain.ExtractionResult
	if err := json.Unmarshal(baseline.Result, &baseResult); err != nil {
		return nil, fmt.Errorf("unmarshaling baseline result: %w", err)
	}

	baseMap, err := toMap(baseline.Result)
	if err != nil {
		return nil, fmt.Errorf("flattening baseline: %w", err)
	}
	curBytes, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("marshaling current result: %w", err)
	}
	curMap, err := toMap(curBytes)
	if err != nil {
		return nil, fmt.Errorf("flattening current result: %w", err)
	}

	diffs := diffValue("", baseMap, curMap)
	sort.Slice(diffs, func(i, j int) bool { return diffs[i].FieldPath < diffs[j].FieldPath })

	report := &domain.DriftReport{
		SourceSHA256:    baseline.SourceSHA256,
		BaselineID:      baseline.ID,
		Differences:     diffs,
		WorstSeverity:   worstSeverity(diffs),
		CauseHypotheses: hypotheses(&baseResult, current),
		ComparedAt:      time.Now().UTC(),
	}
	return report, nil
}

func toMap(raw []byte) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func diffValue(path string, a, b interface{}) []domain.DriftDifference {
	switch av := a.(type) {
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok {
			return []domain.DriftDifference{difference(path, a, b)}
		}
		return diffMaps(path, av, bv)
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok {
			return []domain.DriftDifference{difference(path, a, b)}
		}
		return diffSlices(path, av, bv)
	default:
		if fmt.Sprintf("%v", a) != fmt.Sprintf("%v", b) {
			return []domain.DriftDifference{difference(path, a, b)}
		}
		return nil
	}
}

func diffMaps(path string, a, b map[string]interface{}) []domain.DriftDifference {
	var diffs []domain.DriftDifference

	keys := make(map[string]bool, len(a)+len(b))
	for k := range a {
		keys[k] = true
	}
	for k := range b {
		keys[k] = true
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		if volatileKeys[k] {
			continue
		}
		childPath := k
		if path != "" {
			childPath = path + "." + k
		}
		av, aok := a[k]
		bv, bok := b[k]
		switch {
		case aok && bok:
			diffs = append(diffs, diffValue(childPath, av, bv)...)
		case aok:
			diffs = append(diffs, difference(childPath, av, nil))
		default:
			diffs = append(diffs, difference(childPath, nil, bv))
		}
	}

	return diffs
}

func diffSlices(path string, a, b []interface{}) []domain.DriftDifference {
	var diffs []domain.DriftDifference
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		childPath := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case i >= len(a):
			diffs = append(diffs, difference(childPath, nil, b[i]))
		case i >= len(b):
			diffs = append(diffs, difference(childPath, a[i], nil))
		default:
			diffs = append(diffs, diffValue(childPath, a[i], b[i])...)
		}
	}
	return diffs
}

func difference(path string, baselineValue, currentValue interface{}) domain.DriftDifference {
	return domain.DriftDifference{
		FieldPath:     path,
		BaselineValue: formatValue(baselineValue),
		CurrentValue:  formatValue(currentValue),
		Severity:      confidence.FieldWeight(path),
	}
}

func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}
	switch tv := v.(type) {
	case map[string]interface{}, []interface{}:
		raw, err := json.Marshal(tv)
		if err != nil {
			return fmt.Sprintf("%v", tv)
		}
		return string(raw)
	default:
		return fmt.Sprintf("%v", tv)
	}
}

func worstSeverity(diffs []domain.DriftDifference) domain.MismatchSeverity {
	worst := domain.MismatchLow
	for _, d := range diffs {
		if severityRank[d.Severity] > severityRank[worst] {
			worst = d.Severity
		}
	}
	return worst
}

// hypotheses names what changed between the two runs' provenance. A drift
// report with differences but no hypotheses points at model
// nondeterminism.
func hypotheses(baseline, current *domain.ExtractionResult) []string {
	var out []string
	bm, cm := baseline.Metadata, current.Metadata

	if bm.ExtractionModel != cm.ExtractionModel {
		out = append(out, fmt.Sprintf("extraction model changed from %s to %s", bm.ExtractionModel, cm.ExtractionModel))
	}
	if bm.AuditModel != cm.AuditModel {
		out = append(out, fmt.Sprintf("audit model changed from %s to %s", bm.AuditModel, cm.AuditModel))
	}

	names := make(map[string]bool, len(bm.PromptVersions)+len(cm.PromptVersions))
	for name := range bm.PromptVersions {
		names[name] = true
	}
	for name := range cm.PromptVersions {
		names[name] = true
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	for _, name := range sorted {
		if bm.PromptVersions[name] != cm.PromptVersions[name] {
			out = append(out, fmt.Sprintf("prompt %q changed version (%s -> %s)", name, bm.PromptVersions[name], cm.PromptVersions[name]))
		}
	}

	if bm.FewShotContextHash != cm.FewShotContextHash {
		out = append(out, "few-shot correction context changed between runs")
	}

	return out
}
