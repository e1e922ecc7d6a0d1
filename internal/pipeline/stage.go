package pipeline

// Stage identifies one step of the per-document state machine. Transitions
// are one-way and strictly ordered; a document never revisits a stage.
type Stage string

const (
	StageReceived        Stage = "received"
	StageRasterized      Stage = "rasterized"
	StageTextExtracted   Stage = "text_extracted"
	StageClassified      Stage = "classified"
	StageFieldsExtracted Stage = "fields_extracted"
	StageScored          Stage = "scored"
	StageAssembled       Stage = "assembled"
	StageFailed          Stage = "failed"
)

// stageOrder is the fixed forward sequence; StageFailed is reachable from
// anywhere and terminal.
var stageOrder = []Stage{
	StageReceived,
	StageRasterized,
	StageTextExtracted,
	StageClassified,
	StageFieldsExtracted,
	StageScored,
	StageAssembled,
}

var stageIndex = func() map[Stage]int {
	m := make(map[Stage]int, len(stageOrder))
	for i, s := range stageOrder {
		m[s] = i
	}
	return m
}()

// Terminal reports whether the stage ends processing.
func (s Stage) Terminal() bool { return s == StageAssembled || s == StageFailed }

// CanAdvance reports whether next is a legal transition from s.
func (s Stage) CanAdvance(next Stage) bool {
	if s.Terminal() {
		return false
	}
	if next == StageFailed {
		return true
	}
	i, ok := stageIndex[s]
	j, ok2 := stageIndex[next]
	return ok && ok2 && j == i+1
}
