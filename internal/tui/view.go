package tui

// FocusMode is the pane or popup that receives keys.
type FocusMode int

const (
	FocusTopicOverview FocusMode = iota
	FocusJSONPayload
	FocusCleanRetained
	FocusSearch
)

// Focus is the current mode. Topic is only set for FocusCleanRetained and
// names the subtree awaiting confirmation.
type Focus struct {
	Mode  FocusMode
	Topic string
}

// Refresh tells the update loop what to do after an input was handled.
type Refresh int

const (
	// RefreshUpdate redraws the frame.
	RefreshUpdate Refresh = iota
	// RefreshSkip keeps the last frame because nothing visible changed.
	RefreshSkip
	// RefreshQuit ends the program.
	RefreshQuit
)
