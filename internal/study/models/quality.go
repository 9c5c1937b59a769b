package models

import (
	dErrors "studycat/pkg/domain-errors"
)

// QualityFilter selects genomes on CheckM estimates.
// A genome passes when completeness >= MinCompleteness, contamination <=
// MaxContamination and completeness - Weight*contamination >= MinQuality.
type QualityFilter struct {
	MinCompleteness  float64 `json:"min_completeness"`
	MaxContamination float64 `json:"max_contamination"`
	MinQuality       float64 `json:"min_quality"`
	Weight           float64 `json:"weight"`
	// RetainRepresentatives keeps representatives that fail the thresholds.
	RetainRepresentatives bool `json:"retain_representatives"`
}

// DefaultQualityFilter matches the thresholds used for reference trees.
func DefaultQualityFilter() QualityFilter {
	return QualityFilter{
		MinCompleteness:       50,
		MaxContamination:      10,
		MinQuality:            50,
		Weight:                5,
		RetainRepresentatives: true,
	}
}

func (f QualityFilter) Validate() error {
	if f.MinCompleteness < 0 || f.MinCompleteness > 100 {
		return dErrors.New(dErrors.CodeValidation, "min_completeness must be between 0 and 100")
	}
	if f.MaxContamination < 0 {
		return dErrors.New(dErrors.CodeValidation, "max_contamination cannot be negative")
	}
	if f.Weight < 0 {
		return dErrors.New(dErrors.CodeValidation, "weight cannot be negative")
	}
	return nil
}

// Score is completeness - Weight*contamination.
func (f QualityFilter) Score(completeness, contamination float64) float64 {
	return completeness - f.Weight*contamination
}

// Passes applies the thresholds to one estimate.
func (f QualityFilter) Passes(completeness, contamination float64) bool {
	return completeness >= f.MinCompleteness &&
		contamination <= f.MaxContamination &&
		f.Score(completeness, contamination) >= f.MinQuality
}

// FilteredGenome is a genome that survived filtering.
type FilteredGenome struct {
	Genome        *Genome    `json:"genome"`
	Completeness  float64    `json:"completeness"`
	Contamination float64    `json:"contamination"`
	Quality       float64    `json:"quality"`
	MIMAG         MIMAGClass `json:"mimag"`
	// Retained is set when a representative was kept despite failing.
	Retained bool `json:"retained,omitempty"`
}

// FilterResult splits a study's genomes by the filter outcome.
type FilterResult struct {
	Kept       []FilteredGenome `json:"kept"`
	Filtered   []string         `json:"filtered"`
	NoEstimate []string         `json:"no_estimate"`
}
