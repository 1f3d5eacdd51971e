package protocol

// HELLO (client -> server). The client is the game; it drives one cook.
type HelloMsg struct {
	Type              string   `json:"type"`
	ProtocolVersion   string   `json:"protocol_version"`
	SupportedVersions []string `json:"supported_versions,omitempty"`
	AgentName         string   `json:"agent_name"`
	Level             string   `json:"level,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	SelectedVersion string         `json:"selected_version,omitempty"`
	SessionID       string         `json:"session_id"`
	ControllerID    string         `json:"controller_id"`
	Goals           []string       `json:"goals"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type CatalogDigests struct {
	RecipesDigest string `json:"recipes_digest"`
	TuningDigest  string `json:"tuning_digest,omitempty"`
}

// GOALS (client -> server): request goals for the cook. Replace interrupts
// the running goal; otherwise the ids are queued behind it.
type GoalsMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	Goals           []string `json:"goals"`
	Replace         bool     `json:"replace,omitempty"`
}

// SURVEY (both ways). The client sends it with no candidates to ask which
// goals can begin in the last observed state.
type SurveyMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Tick            uint64      `json:"tick"`
	Candidates      []Candidate `json:"candidates,omitempty"`
}

type Candidate struct {
	Goal     string   `json:"goal"`
	OK       bool     `json:"ok"`
	Reason   string   `json:"reason"`
	Prereqs  []string `json:"prereqs,omitempty"`
	Priority float64  `json:"priority"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}

func NewError(code, msg string) ErrorMsg {
	return ErrorMsg{Type: TypeError, ProtocolVersion: Version, Code: code, Message: msg}
}
