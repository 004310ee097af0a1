package schema

import "fmt"

// Stage is one point in the processing pipeline. Each stage has its own set
// of legal and required variables.
type Stage string

const (
	StageAnalysis     Stage = "analysis"
	StageTranslation  Stage = "translation"
	StageOptimization Stage = "optimization"
	StageProofreading Stage = "proofreading"
)

// Stages lists every pipeline stage in pipeline order.
func Stages() []Stage {
	return []Stage{StageAnalysis, StageTranslation, StageOptimization, StageProofreading}
}

// ParseStage converts a stage name into a Stage, rejecting unknown names.
func ParseStage(name string) (Stage, error) {
	switch Stage(name) {
	case StageAnalysis, StageTranslation, StageOptimization, StageProofreading:
		return Stage(name), nil
	}
	return "", fmt.Errorf("unknown stage %q: expected one of analysis, translation, optimization, proofreading", name)
}

// allStages is shorthand for variables legal in every stage.
var allStages = []Stage{StageAnalysis, StageTranslation, StageOptimization, StageProofreading}

// contains reports whether the stage list includes st.
func contains(stages []Stage, st Stage) bool {
	for _, s := range stages {
		if s == st {
			return true
		}
	}
	return false
}
