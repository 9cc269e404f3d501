package timesheet

import (
	"strings"

	"hoursync/record"
)

// Sources names the timesheet inputs for one collection run. ExportsRoot is
// required for manual exports; voice and OCR inputs are optional extras.
type Sources struct {
	ExportsRoot string
	Weeks       []string
	MonthHint   string
	VoiceFiles  []string
	OCRReview   string
}

// Result summarizes a collection run across every configured source.
type Result struct {
	ManualFiles int
	VoiceFiles  int
	OCRFiles    int
	Records     []record.Record
}

// Collect parses every configured timesheet source and returns the combined
// records in source order: manual exports first, then voice workbooks, then
// the OCR review. The first file that fails to parse aborts the run.
func Collect(sources Sources) (Result, error) {
	result := Result{}

	if sources.ExportsRoot != "" {
		weekDirs, err := resolveWeekDirs(sources.ExportsRoot, sources.Weeks)
		if err != nil {
			return result, err
		}
		for _, dir := range weekDirs {
			paths, err := listWorkbooks(dir)
			if err != nil {
				return result, err
			}
			for _, path := range paths {
				records, err := ParseManualFile(path, sources.MonthHint)
				if err != nil {
					return result, err
				}
				result.ManualFiles++
				result.Records = append(result.Records, records...)
			}
		}
	}

	for _, path := range sources.VoiceFiles {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		records, err := ParseVoiceFile(path)
		if err != nil {
			return result, err
		}
		result.VoiceFiles++
		result.Records = append(result.Records, records...)
	}

	if sources.OCRReview != "" {
		records, err := ParseOCRReview(sources.OCRReview)
		if err != nil {
			return result, err
		}
		result.OCRFiles++
		result.Records = append(result.Records, records...)
	}

	return result, nil
}
