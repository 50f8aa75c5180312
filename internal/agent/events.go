package agent

// Roles attributed to narrative events.
const (
	RoleModel = "model"
	RoleUser  = "user"
)

// Event is the closed set of observations the runner emits while driving
// one directive. The orchestrator interprets the stream with a type
// switch; no attribute probing.
type Event interface {
	isEvent()
}

// ToolCallEvent signals that the agent requested a tool invocation.
type ToolCallEvent struct {
	Name string
	Args map[string]any
}

// ToolResultEvent carries a tool's function-response payload in generic
// map form.
type ToolResultEvent struct {
	Name    string
	Payload map[string]any
}

// NarrativeEvent carries text content attributed to a conversational
// role. The runtime may emit several per run; the last model-attributed
// one is authoritative.
type NarrativeEvent struct {
	Role string
	Text string
}

func (ToolCallEvent) isEvent()   {}
func (ToolResultEvent) isEvent() {}
func (NarrativeEvent) isEvent()  {}
