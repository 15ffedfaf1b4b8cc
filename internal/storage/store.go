package storage

import (
	"context"

	"planitia/internal/model"
)

// Store persists generation runs and flatness reports between CLI calls.
type Store interface {
	Init(ctx context.Context) error
	SaveSequenceSet(ctx context.Context, set model.SequenceSet) error
	GetSequenceSet(ctx context.Context, id string) (model.SequenceSet, bool, error)
	// ListSequenceSets returns every set, newest first.
	ListSequenceSets(ctx context.Context) ([]model.SequenceSet, error)
	SaveFlatnessReport(ctx context.Context, report model.FlatnessReport) error
	GetFlatnessReport(ctx context.Context, id string) (model.FlatnessReport, bool, error)
}
