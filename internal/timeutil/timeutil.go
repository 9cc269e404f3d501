// Package timeutil holds the timestamp helpers shared by the fix planner,
// the task queue, and the probe.
package timeutil

import "time"

// StampLayout is the UTC second-resolution timestamp written into plan
// files, queue tasks, and probe alerts. The trailing Z is a literal.
const StampLayout = "2006-01-02T15:04:05Z"

// UTCStamp formats value in UTC at second resolution.
func UTCStamp(value time.Time) string {
	return value.UTC().Format(StampLayout)
}

// ParseStamp reads a stamp written by UTCStamp.
func ParseStamp(value string) (time.Time, error) {
	return time.Parse(StampLayout, value)
}
