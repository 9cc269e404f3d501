// Package submitter builds fix plans out of week gap diffs and pushes them
// to the production timekeeping service.
package submitter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"hoursync/internal/timeutil"
	"hoursync/prodapi"
	"hoursync/reconcile"
	"hoursync/record"
)

// DefaultImportStatus is stamped on imported entries when the plan does not
// carry a status of its own.
const DefaultImportStatus = "APPROVED"

// Plan is the serialized fix list produced by the planner and consumed by
// Apply. Imports add rows the snapshot is missing; Deletes remove snapshot
// entries with no timesheet counterpart, addressed by entry ID.
type Plan struct {
	CreatedAt     string                `json:"created_at"`
	DefaultStatus string                `json:"default_status"`
	Imports       []prodapi.ImportEntry `json:"imports"`
	Deletes       []string              `json:"deletes,omitempty"`
}

// Counts returns the number of queued imports and deletes.
func (p Plan) Counts() (imports, deletes int) {
	return len(p.Imports), len(p.Deletes)
}

// BuildPlan turns week gap diffs into a concrete fix plan. Every surplus
// occurrence of a manual-only entry becomes one import, with the entry's
// source tag carried as the note. DB-only entries resolve to snapshot entry
// IDs through entryIDs, taking at most as many IDs as the surplus count; a
// key with no known IDs contributes no delete.
func BuildPlan(gaps []reconcile.WeekGap, entryIDs map[record.Key][]string, defaultStatus string) Plan {
	if defaultStatus == "" {
		defaultStatus = DefaultImportStatus
	}
	plan := Plan{
		CreatedAt:     timeutil.UTCStamp(time.Now()),
		DefaultStatus: defaultStatus,
		Imports:       make([]prodapi.ImportEntry, 0),
	}

	for _, gap := range gaps {
		for _, entry := range gap.ManualOnly {
			for i := 0; i < entry.Count; i++ {
				plan.Imports = append(plan.Imports, prodapi.ImportEntry{
					Employee: entry.Employee,
					Customer: entry.Customer,
					WorkDate: entry.Date,
					Hours:    entry.Hours,
					Notes:    entry.Source,
				})
			}
		}
		for _, entry := range gap.DBOnly {
			key := record.Record{
				Date:     entry.Date,
				Employee: entry.Employee,
				Customer: entry.Customer,
				Hours:    entry.Hours,
			}.Key()
			ids := entryIDs[key]
			take := entry.Count
			if take > len(ids) {
				take = len(ids)
			}
			plan.Deletes = append(plan.Deletes, ids[:take]...)
		}
	}

	return plan
}

// ClassifyImports drops planned imports whose key is already present in the
// snapshot. Each snapshot occurrence absorbs at most one import, so a double
// entry stays queued when the snapshot holds only one copy.
func ClassifyImports(planned []prodapi.ImportEntry, existing []record.Record) (toAdd []prodapi.ImportEntry, duplicates int) {
	remaining := make(map[record.Key]int, len(existing))
	for _, rec := range existing {
		remaining[rec.Key()]++
	}

	toAdd = make([]prodapi.ImportEntry, 0, len(planned))
	for _, candidate := range planned {
		key := record.Record{
			Date:     candidate.WorkDate,
			Employee: candidate.Employee,
			Customer: candidate.Customer,
			Hours:    candidate.Hours,
		}.Key()
		if remaining[key] > 0 {
			remaining[key]--
			duplicates++
			continue
		}
		toAdd = append(toAdd, candidate)
	}

	return toAdd, duplicates
}

// SavePlan writes the plan as indented JSON, replacing any file at path.
func SavePlan(path string, plan Plan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write plan %s: %w", path, err)
	}
	return nil
}

// LoadPlan reads a plan written by SavePlan.
func LoadPlan(path string) (Plan, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan %s: %w", path, err)
	}
	var plan Plan
	if err := json.Unmarshal(content, &plan); err != nil {
		return Plan{}, fmt.Errorf("decode plan %s: %w", path, err)
	}
	return plan, nil
}

// ApplyOptions controls Apply.
type ApplyOptions struct {
	// DryRun reports what the plan would do without touching the API.
	DryRun bool
}

// ApplyResult reports what Apply did, or would do under DryRun.
type ApplyResult struct {
	Imported int
	Deleted  int
	DryRun   bool
}

// Apply executes a plan against the production API: one import batch for
// all queued entries, then per-entry force deletes. The first failed call
// stops the run, so a partial result may have been applied remotely.
func Apply(ctx context.Context, client prodapi.Client, plan Plan, opts ApplyOptions) (ApplyResult, error) {
	result := ApplyResult{DryRun: opts.DryRun}
	if opts.DryRun {
		result.Imported = len(plan.Imports)
		result.Deleted = len(plan.Deletes)
		return result, nil
	}

	if len(plan.Imports) > 0 {
		status := plan.DefaultStatus
		if status == "" {
			status = DefaultImportStatus
		}
		if _, err := client.ImportEntries(ctx, plan.Imports, status); err != nil {
			return result, fmt.Errorf("import %d entries: %w", len(plan.Imports), err)
		}
		result.Imported = len(plan.Imports)
	}

	for _, id := range plan.Deletes {
		if err := client.DeleteEntry(ctx, id, true); err != nil {
			return result, fmt.Errorf("delete entry %s: %w", id, err)
		}
		result.Deleted++
	}

	return result, nil
}
