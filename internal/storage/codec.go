package storage

import (
	"encoding/json"
	"errors"
	"sort"

	"planitia/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// CurrentVersion is the version stamp for newly created records.
func CurrentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeSequenceSet(s model.SequenceSet) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSequenceSet(data []byte) (model.SequenceSet, error) {
	var set model.SequenceSet
	if err := json.Unmarshal(data, &set); err != nil {
		return model.SequenceSet{}, err
	}
	if err := checkVersion(set.VersionedRecord); err != nil {
		return model.SequenceSet{}, err
	}
	return set, nil
}

func EncodeFlatnessReport(r model.FlatnessReport) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeFlatnessReport(data []byte) (model.FlatnessReport, error) {
	var report model.FlatnessReport
	if err := json.Unmarshal(data, &report); err != nil {
		return model.FlatnessReport{}, err
	}
	if err := checkVersion(report.VersionedRecord); err != nil {
		return model.FlatnessReport{}, err
	}
	return report, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

func sortNewestFirst(sets []model.SequenceSet) {
	sort.SliceStable(sets, func(i, j int) bool {
		if c := model.CompareTimestamps(sets[i].CreatedAtUTC, sets[j].CreatedAtUTC); c != 0 {
			return c > 0
		}
		return sets[i].ID < sets[j].ID
	})
}
