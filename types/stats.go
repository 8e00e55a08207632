package types

// Stats are the controller's event counters.
type Stats struct {
	ButtonPresses uint32 `json:"button_presses"`
	CommandsA     uint32 `json:"commands_a"`
	CommandsB     uint32 `json:"commands_b"`
	Ignored       uint32 `json:"ignored"`        // single bytes that are not commands
	BurstsIgnored uint32 `json:"bursts_ignored"` // RxReady with more than one byte
	Rearms        uint32 `json:"rearms"`
	RearmFailures uint32 `json:"rearm_failures"`
}
