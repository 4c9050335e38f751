// Package domain defines the lead entity vocabulary: acquisition
// channels, pipeline stages, and the optional stage/sub-status rule.
package domain

// Source is the acquisition channel a lead arrived from.
type Source string

const (
	SourceWati    Source = "WATI"
	SourceGoogle  Source = "Google"
	SourceMeta    Source = "Meta"
	SourceSEO     Source = "SEO"
	SourceOrganic Source = "Organic"
	SourceDirect  Source = "Direct/Unknown"
)

// Medium is the contact medium a lead arrived through.
type Medium string

const (
	MediumWhatsApp    Medium = "WhatsApp"
	MediumEmail       Medium = "Email"
	MediumPhone       Medium = "Phone"
	MediumWebsite     Medium = "Website"
	MediumSocialMedia Medium = "Social Media"
	MediumDirect      Medium = "Direct"
)

// PipelineStage is the coarse lifecycle state of a lead in the funnel.
// Any stage is reachable from any other; the engine imposes no
// transition graph.
type PipelineStage string

const (
	StageRawLead       PipelineStage = "Raw lead"
	StageInContact     PipelineStage = "In Contact"
	StageNotInterested PipelineStage = "Not Interested"
	StageNoResponse    PipelineStage = "No Response"
	StageJunk          PipelineStage = "Junk"
	StageGenuineLead   PipelineStage = "Genuine Lead"
)

// GenuineLeadStatus is a sub-state only meaningful while the lead sits
// in the Genuine Lead stage.
type GenuineLeadStatus string

const (
	GenuineFirstCallDone   GenuineLeadStatus = "First call done"
	GenuineEstimatesShared GenuineLeadStatus = "Estimates shared"
	GenuineDisqualified    GenuineLeadStatus = "Disqualified"
)

// FollowUpStatus tracks the post-conversion life of a lead on an axis
// independent of the pipeline stage.
type FollowUpStatus string

const (
	FollowUpActive        FollowUpStatus = "Follow Up"
	FollowUpGoneCold      FollowUpStatus = "Gone Cold"
	FollowUpSaleCompleted FollowUpStatus = "Sale Completed"
)

// RequestType categorizes what the lead asked for.
type RequestType string

const (
	RequestProductEnquiry RequestType = "Product enquiry"
	RequestInformation    RequestType = "Request for information"
	RequestSuggestions    RequestType = "Suggestions"
	RequestOther          RequestType = "Other"
)

// UrgencyLevel expresses how soon the lead needs a response.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "Low"
	UrgencyMedium UrgencyLevel = "Medium"
	UrgencyHigh   UrgencyLevel = "High"
	UrgencyUrgent UrgencyLevel = "Urgent"
)

// StageRule validates a pipeline stage / genuine-lead sub-status
// combination on update. The sub-status is nil when not supplied.
type StageRule func(stage PipelineStage, sub *GenuineLeadStatus) error

// PermissiveStageRule accepts every combination. This matches the
// historical behavior: the sub-status column is stored regardless of
// the current stage.
func PermissiveStageRule(PipelineStage, *GenuineLeadStatus) error {
	return nil
}

// StrictStageRule rejects a genuine-lead sub-status on any stage other
// than Genuine Lead.
func StrictStageRule(stage PipelineStage, sub *GenuineLeadStatus) error {
	if sub != nil && stage != StageGenuineLead {
		return ErrSubStatusRequiresGenuineStage
	}
	return nil
}
