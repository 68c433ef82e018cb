package content

// ReviewStatus tracks one strand of review work (the explanatory note or the audio).
type ReviewStatus string

const (
	ReviewOutstanding   ReviewStatus = "Outstanding"
	ReviewBeingReviewed ReviewStatus = "Being reviewed"
	ReviewDone          ReviewStatus = "Done"
)

// OverallStatus is derived from the two review strands.
type OverallStatus string

const (
	OverallOutstanding OverallStatus = "Outstanding"
	OverallInProgress  OverallStatus = "In progress"
	OverallComplete    OverallStatus = "Complete"
)

var (
	reviewStatuses  = []string{string(ReviewOutstanding), string(ReviewBeingReviewed), string(ReviewDone)}
	overallStatuses = []string{string(OverallOutstanding), string(OverallInProgress), string(OverallComplete)}
)

// DeriveOverall computes the overall status of a letter from its note and
// audio review statuses. An empty status counts as Outstanding.
func DeriveOverall(note, audio ReviewStatus) OverallStatus {
	switch {
	case note == ReviewDone && audio == ReviewDone:
		return OverallComplete
	case note == ReviewBeingReviewed || audio == ReviewBeingReviewed:
		return OverallInProgress
	default:
		return OverallOutstanding
	}
}

// Review holds the review workflow state of a letter.
type Review struct {
	NoteStatus   ReviewStatus  `json:"noteStatus,omitempty"`
	AudioStatus  ReviewStatus  `json:"audioStatus,omitempty"`
	LetterStatus OverallStatus `json:"letterStatus,omitempty"`
	UpdatedBy    string        `json:"updatedBy,omitempty"`
	UpdatedAt    string        `json:"updatedAt,omitempty"`
}

// Overall recomputes the overall status instead of trusting LetterStatus.
func (r Review) Overall() OverallStatus {
	return DeriveOverall(r.NoteStatus, r.AudioStatus)
}

func readReview(o *object) *Review {
	note, _ := o.optionalEnum("noteStatus", reviewStatuses)
	audio, _ := o.optionalEnum("audioStatus", reviewStatuses)
	// Validated for shape only; the stored value is replaced below.
	o.optionalEnum("letterStatus", overallStatuses)

	r := &Review{
		NoteStatus:  ReviewStatus(note),
		AudioStatus: ReviewStatus(audio),
		UpdatedBy:   o.optionalString("updatedBy"),
		UpdatedAt:   o.optionalString("updatedAt"),
	}
	r.LetterStatus = r.Overall()
	return r
}
