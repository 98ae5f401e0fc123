package candidate

// Defaults substituted by Validate when the corresponding field is missing.
const (
	DefaultName    = "Unknown"
	DefaultRole    = "Not specified"
	DefaultCompany = "Not specified"
	DefaultSource  = "LinkedIn Search"
)

// Candidate is a validated, normalized candidate profile. Every Candidate
// handed to downstream consumers has passed Validate: required fields carry
// defaults, MatchScore is within [0,100] and Skills is never nil.
type Candidate struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Location    string   `json:"location,omitempty"`
	CurrentRole string   `json:"currentRole"`
	Company     string   `json:"company"`
	Skills      []string `json:"skills"`
	Experience  string   `json:"experience,omitempty"`
	Education   string   `json:"education,omitempty"`
	ProfileURL  string   `json:"profileUrl,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	MatchScore  float64  `json:"matchScore"`
	Source      string   `json:"source"`
	Notes       string   `json:"notes,omitempty"`
}
