package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"planitia/internal/dataextract"
	"planitia/internal/model"
)

const indexFile = "index.json"

const (
	KindSequenceSet    = "sequence_set"
	KindFlatnessReport = "flatness_report"
)

// IndexEntry describes one exported record directory.
type IndexEntry struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	CreatedAtUTC string `json:"created_at_utc"`
	Dir          string `json:"dir"`
}

// WriteSequenceSet writes set.json and sequences.csv under baseDir/<set id>
// and records the directory in the index.
func WriteSequenceSet(baseDir string, set model.SequenceSet) (string, error) {
	if set.ID == "" {
		return "", fmt.Errorf("sequence set id is required")
	}
	dir := filepath.Join(baseDir, set.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dir, "set.json"), set); err != nil {
		return "", err
	}

	table := dataextract.Table{Header: []string{"index", "sequence"}}
	for i, seq := range set.Sequences {
		table.Rows = append(table.Rows, []string{strconv.Itoa(i), seq})
	}
	if err := dataextract.WriteCSVFile(filepath.Join(dir, "sequences.csv"), table); err != nil {
		return "", err
	}

	entry := IndexEntry{ID: set.ID, Kind: KindSequenceSet, CreatedAtUTC: set.CreatedAtUTC, Dir: set.ID}
	if err := AppendIndex(baseDir, entry); err != nil {
		return "", err
	}
	return dir, nil
}

// WriteFlatnessReport writes report.json plus scores.csv and, when groups
// were skipped, skipped.csv.
func WriteFlatnessReport(baseDir string, report model.FlatnessReport) (string, error) {
	if report.ID == "" {
		return "", fmt.Errorf("flatness report id is required")
	}
	dir := filepath.Join(baseDir, report.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dir, "report.json"), report); err != nil {
		return "", err
	}

	scores := dataextract.Table{Header: []string{"group", "sequence", "fitness", "neighbors", "score"}}
	for _, s := range report.Scores {
		scores.Rows = append(scores.Rows, []string{
			s.GroupID,
			s.Sequence,
			strconv.FormatFloat(s.Fitness, 'g', -1, 64),
			strconv.Itoa(s.NeighborCount),
			strconv.FormatFloat(s.Score, 'g', -1, 64),
		})
	}
	if err := dataextract.WriteCSVFile(filepath.Join(dir, "scores.csv"), scores); err != nil {
		return "", err
	}
	if len(report.Skipped) > 0 {
		skipped := dataextract.Table{Header: []string{"group", "reason"}}
		for _, s := range report.Skipped {
			skipped.Rows = append(skipped.Rows, []string{s.GroupID, s.Reason})
		}
		if err := dataextract.WriteCSVFile(filepath.Join(dir, "skipped.csv"), skipped); err != nil {
			return "", err
		}
	}

	entry := IndexEntry{ID: report.ID, Kind: KindFlatnessReport, CreatedAtUTC: report.CreatedAtUTC, Dir: report.ID}
	if err := AppendIndex(baseDir, entry); err != nil {
		return "", err
	}
	return dir, nil
}

// AppendIndex adds entry to the index, replacing any entry with the same id.
func AppendIndex(baseDir string, entry IndexEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("index entry id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := readIndex(baseDir)
	if err != nil {
		return err
	}
	for i := range index {
		if index[i].ID == entry.ID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, indexFile), index)
		}
	}
	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, indexFile), index)
}

// ListIndex returns the index newest first. A missing index is empty.
func ListIndex(baseDir string) ([]IndexEntry, error) {
	entries, err := readIndex(baseDir)
	if err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry IndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		c := model.CompareTimestamps(indexed[i].entry.CreatedAtUTC, indexed[j].entry.CreatedAtUTC)
		if c == 0 {
			// later appends win ties
			return indexed[i].idx > indexed[j].idx
		}
		return c > 0
	})

	sorted := make([]IndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func readIndex(baseDir string) ([]IndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []IndexEntry{}, nil
		}
		return nil, err
	}
	var entries []IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", indexFile, err)
	}
	return entries, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
