// internal/domain/mail/entity.go
package mail

// Template is a server-side email template.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Variables   []string `json:"variables,omitempty"`
}

// Stats is the email delivery overview.
type Stats struct {
	TotalSent    int `json:"totalSent"`
	SentToday    int `json:"sentToday"`
	SentThisWeek int `json:"sentThisWeek"`
	Failed       int `json:"failed"`
}

// Newsletter audiences
const (
	AudienceAll         = "all"
	AudienceCustomers   = "customers"
	AudienceSubscribers = "subscribers"
)
