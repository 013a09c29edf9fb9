package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// formatBatchResults formats the batch processing results in the specified format.
func formatBatchResults(r *Result, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(r)
	case "csv":
		return formatCSV(r)
	case "", "text":
		return formatText(r), nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", format)
	}
}

type itemReport struct {
	ID         string `json:"id,omitempty"`
	Index      int    `json:"index"`
	Value      string `json:"value"`
	Symbology  string `json:"symbology,omitempty"`
	File       string `json:"file,omitempty"`
	Bytes      int    `json:"bytes"`
	DurationMs int64  `json:"duration_ms"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

func status(it ItemResult) string {
	switch {
	case it.Skipped:
		return "skipped"
	case it.Err != nil:
		return "failed"
	default:
		return "ok"
	}
}

func toReport(it ItemResult) itemReport {
	rep := itemReport{
		ID:         it.ID,
		Index:      it.Index,
		Value:      it.Value,
		Symbology:  it.Symbology,
		Bytes:      it.Bytes,
		DurationMs: it.Duration.Milliseconds(),
		Status:     status(it),
	}
	if it.Err != nil {
		rep.Error = it.Err.Error()
	} else if !it.Skipped {
		rep.File = it.File
	}
	return rep
}

// formatJSON formats results as JSON.
func formatJSON(r *Result) (string, error) {
	out := struct {
		ID         string       `json:"id"`
		Workers    int          `json:"workers"`
		DurationMs int64        `json:"duration_ms"`
		Succeeded  int          `json:"succeeded"`
		Failed     int          `json:"failed"`
		Items      []itemReport `json:"items"`
	}{
		ID:         r.ID,
		Workers:    r.WorkerCount,
		DurationMs: r.Duration.Milliseconds(),
		Succeeded:  r.Succeeded(),
		Failed:     r.Failed(),
		Items:      make([]itemReport, len(r.Items)),
	}
	for i, it := range r.Items {
		out.Items[i] = toReport(it)
	}

	bts, err := json.MarshalIndent(out, "", "  ")
	return string(bts), err
}

// formatCSV formats results as CSV.
func formatCSV(r *Result) (string, error) {
	var output strings.Builder
	writer := csv.NewWriter(&output)
	rows := [][]string{{"index", "id", "value", "symbology", "file", "bytes", "duration_ms", "status", "error"}}
	for _, it := range r.Items {
		rep := toReport(it)
		rows = append(rows, []string{
			strconv.Itoa(rep.Index),
			rep.ID,
			rep.Value,
			rep.Symbology,
			rep.File,
			strconv.Itoa(rep.Bytes),
			strconv.FormatInt(rep.DurationMs, 10),
			rep.Status,
			rep.Error,
		})
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), writer.Error()
}

// formatText formats results as plain text.
func formatText(r *Result) string {
	var output strings.Builder
	for _, it := range r.Items {
		rep := toReport(it)
		switch rep.Status {
		case "ok":
			fmt.Fprintf(&output, "ok      %s -> %s (%d bytes)\n", rep.Value, rep.File, rep.Bytes)
		case "failed":
			fmt.Fprintf(&output, "failed  %s: %s\n", rep.Value, rep.Error)
		default:
			fmt.Fprintf(&output, "skipped %s\n", rep.Value)
		}
	}
	fmt.Fprintf(&output, "\n%d succeeded, %d failed, %d items in %v (%d workers)\n",
		r.Succeeded(), r.Failed(), len(r.Items), r.Duration.Round(time.Millisecond), r.WorkerCount)
	return output.String()
}
