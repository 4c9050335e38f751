package domain

import "errors"

// ErrSubStatusRequiresGenuineStage is returned by StrictStageRule when a
// genuine-lead sub-status is supplied for a lead outside the Genuine
// Lead stage.
var ErrSubStatusRequiresGenuineStage = errors.New("genuine lead status requires the Genuine Lead stage")
