package record

// Known record keys, in the order curators author them.
const (
	KeyStudyDescription        = "study_description"
	KeySequencingPlatform      = "sequencing_platform"
	KeyReadFiles               = "read_files"
	KeyQCProgram               = "qc_program"
	KeyAssemblyProgram         = "assembly_program"
	KeyGapFillingProgram       = "gap_filling_program"
	KeyMappingProgram          = "mapping_program"
	KeyBinningProgram          = "binning_program"
	KeyScaffoldingProgram      = "scaffolding_program"
	KeyGenomeAssessmentProgram = "genome_assessment_program"
	KeyRefinementDescription   = "refinement_description"
	KeyGenomeCoverage          = "genome_coverage"
)

var knownKeys = []string{
	KeyStudyDescription,
	KeySequencingPlatform,
	KeyReadFiles,
	KeyQCProgram,
	KeyAssemblyProgram,
	KeyGapFillingProgram,
	KeyMappingProgram,
	KeyBinningProgram,
	KeyScaffoldingProgram,
	KeyGenomeAssessmentProgram,
	KeyRefinementDescription,
	KeyGenomeCoverage,
}

var knownKeySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(knownKeys))
	for _, k := range knownKeys {
		m[k] = struct{}{}
	}
	return m
}()

// KnownKeys returns the known keys in canonical order.
func KnownKeys() []string {
	return append([]string(nil), knownKeys...)
}

// IsKnownKey reports whether key is one of the known keys.
func IsKnownKey(key string) bool {
	_, ok := knownKeySet[key]
	return ok
}

// Stage is a pipeline stage whose tool is recorded for provenance.
type Stage string

const (
	StageQC               Stage = "qc"
	StageAssembly         Stage = "assembly"
	StageGapFilling       Stage = "gap_filling"
	StageMapping          Stage = "mapping"
	StageBinning          Stage = "binning"
	StageScaffolding      Stage = "scaffolding"
	StageGenomeAssessment Stage = "genome_assessment"
	StageRefinement       Stage = "refinement"
)

// stageKeys maps each stage to the key holding its tool. Refinement is a
// free-text description rather than a program line.
var stageKeys = []struct {
	stage Stage
	key   string
}{
	{StageQC, KeyQCProgram},
	{StageAssembly, KeyAssemblyProgram},
	{StageGapFilling, KeyGapFillingProgram},
	{StageMapping, KeyMappingProgram},
	{StageBinning, KeyBinningProgram},
	{StageScaffolding, KeyScaffoldingProgram},
	{StageGenomeAssessment, KeyGenomeAssessmentProgram},
	{StageRefinement, KeyRefinementDescription},
}

// Stages returns all stages in pipeline order.
func Stages() []Stage {
	out := make([]Stage, len(stageKeys))
	for i, s := range stageKeys {
		out[i] = s.stage
	}
	return out
}

// Key returns the record key for the stage, or "" for an unknown stage.
func (s Stage) Key() string {
	for _, sk := range stageKeys {
		if sk.stage == s {
			return sk.key
		}
	}
	return ""
}
