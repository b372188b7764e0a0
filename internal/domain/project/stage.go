package project

import "strings"

// Stage is the lifecycle status of a project.
type Stage string

const (
	StageIdea            Stage = "idea"
	StageCostingPending  Stage = "costing_pending"
	StageCostingReceived Stage = "costing_received"
	StagePrototype       Stage = "prototype"
	StageRedSeal         Stage = "red_seal"
	StageGreenSeal       Stage = "green_seal"
	StageFinalApproved   Stage = "final_approved"
	StagePOIssued        Stage = "po_issued"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{
	StageIdea,
	StageCostingPending,
	StageCostingReceived,
	StagePrototype,
	StageRedSeal,
	StageGreenSeal,
	StageFinalApproved,
	StagePOIssued,
}

var stageLabels = map[Stage]string{
	StageIdea:            "Idea",
	StageCostingPending:  "Costing Pending",
	StageCostingReceived: "Costing Received",
	StagePrototype:       "Prototype",
	StageRedSeal:         "Red Seal",
	StageGreenSeal:       "Green Seal",
	StageFinalApproved:   "Final Approved",
	StagePOIssued:        "PO Issued",
}

// StageNames returns the stage identifiers as plain strings.
func StageNames() []string {
	out := make([]string, len(Stages))
	for i, s := range Stages {
		out[i] = string(s)
	}
	return out
}

// ParseStage returns the stage named s. Matching is exact after trimming.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.TrimSpace(s))
	if !stage.Valid() {
		return "", ErrInvalidStage
	}
	return stage, nil
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	_, ok := stageLabels[s]
	return ok
}

// Label returns the display name, or the raw value for unknown stages.
func (s Stage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

// Index returns the pipeline position of s, or -1 when unknown.
func (s Stage) Index() int {
	for i, stage := range Stages {
		if stage == s {
			return i
		}
	}
	return -1
}

// Next returns the stage after s and false when s is terminal or unknown.
func (s Stage) Next() (Stage, bool) {
	i := s.Index()
	if i < 0 || i == len(Stages)-1 {
		return "", false
	}
	return Stages[i+1], true
}

// ValidateTransition checks a requested stage change. Moving forward is
// allowed one stage at a time; moving back to any earlier stage needs a reason.
func ValidateTransition(from, to Stage, reason string) error {
	if !to.Valid() {
		return ErrInvalidStage
	}
	fromIdx := from.Index()
	if fromIdx < 0 {
		// Unknown stages come from imports and may move to any stage.
		return nil
	}
	if from == StagePOIssued {
		return ErrInvalidTransition
	}

	toIdx := to.Index()
	switch {
	case toIdx == fromIdx+1:
		return nil
	case toIdx < fromIdx:
		if strings.TrimSpace(reason) == "" {
			return ErrMissingReason
		}
		return nil
	default:
		return ErrInvalidTransition
	}
}
