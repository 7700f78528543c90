package domain

import "time"

// Recipient is one eligible (user, device token) pair for a broadcast cycle
type Recipient struct {
	UserID   string
	Token    string
	Language string
}

// Message is a rendered push notification; Data is never localized
type Message struct {
	Title    string
	Body     string
	ImageURL string
	Data     map[string]string
}

// DeliveryResult captures the outcome of one isolated send
type DeliveryResult struct {
	Recipient Recipient
	Err       error
}

// DispatchReport aggregates a fan-out
type DispatchReport struct {
	Attempted int
	Failed    int
	Results   []DeliveryResult
}

// Merge folds other into r
func (r *DispatchReport) Merge(other DispatchReport) {
	r.Attempted += other.Attempted
	r.Failed += other.Failed
	r.Results = append(r.Results, other.Results...)
}

// CycleOutcome names how a broadcast cycle ended
type CycleOutcome string

const (
	OutcomeCompleted    CycleOutcome = "completed"
	OutcomeNoRecipients CycleOutcome = "no_recipients"
	OutcomeNoContent    CycleOutcome = "no_content"
	OutcomeFailed       CycleOutcome = "failed"
	OutcomePanicked     CycleOutcome = "panicked"
)

// CycleReport describes one broadcast cycle. It is transient and never persisted.
type CycleReport struct {
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     time.Time    `json:"finished_at"`
	Outcome        CycleOutcome `json:"outcome"`
	Recipients     int          `json:"recipients"`
	ContentID      string       `json:"content_id,omitempty"`
	Languages      []string     `json:"languages,omitempty"`
	Attempted      int          `json:"attempted"`
	Failed         int          `json:"failed"`
	DisabledTokens int          `json:"disabled_tokens"`
	Error          string       `json:"error,omitempty"`
}

func (r CycleReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
