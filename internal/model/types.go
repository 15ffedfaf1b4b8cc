package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// SequenceSet is one generation run: the sequences accepted by rejection
// sampling together with the parameters that produced them.
type SequenceSet struct {
	VersionedRecord
	ID           string   `json:"id"`
	Length       int      `json:"length"`
	MinDistance  int      `json:"min_distance"`
	Seed         int64    `json:"seed"`
	Requested    int      `json:"requested"`
	Attempts     int      `json:"attempts"`
	MaxAttempts  int      `json:"max_attempts"`
	Sequences    []string `json:"sequences"`
	CreatedAtUTC string   `json:"created_at_utc"`
}

// Shortfall is the number of requested sequences the run failed to find.
func (s SequenceSet) Shortfall() int {
	if missing := s.Requested - len(s.Sequences); missing > 0 {
		return missing
	}
	return 0
}

// FitnessRecord pairs a sequence with a measured or interpolated fitness.
// Records sharing a GroupID form one neighborhood; the first record of a
// group is the parent.
type FitnessRecord struct {
	GroupID  string  `json:"group_id"`
	Sequence string  `json:"sequence,omitempty"`
	Fitness  float64 `json:"fitness"`
}

type FlatnessScore struct {
	GroupID       string  `json:"group_id"`
	Sequence      string  `json:"sequence,omitempty"`
	Fitness       float64 `json:"fitness"`
	NeighborCount int     `json:"neighbor_count"`
	Score         float64 `json:"score"`
}

// GroupSkip records why a fitness group produced no score.
type GroupSkip struct {
	GroupID string `json:"group_id"`
	Reason  string `json:"reason"`
}

type FlatnessReport struct {
	VersionedRecord
	ID           string          `json:"id"`
	SourceSetID  string          `json:"source_set_id,omitempty"`
	Scores       []FlatnessScore `json:"scores"`
	Skipped      []GroupSkip     `json:"skipped,omitempty"`
	CreatedAtUTC string          `json:"created_at_utc"`
}
