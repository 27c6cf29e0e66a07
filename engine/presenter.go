package engine

// Presenter is the thin presentation toolkit the experiment runs against:
// visual output, non-blocking audio start/stop, and a non-blocking keyboard
// poll. The SDL implementation is Screen; tests use a scripted fake. Every
// Show method draws a full frame and flips it.
type Presenter interface {
	// ShowFixation presents the fixation cross on the background.
	ShowFixation()
	// ShowCircle presents a filled circle of the given radius, centered.
	ShowCircle(radius int)
	// ShowText presents a centered multi-line message.
	ShowText(msg string)
	// ClearScreen presents an empty background.
	ClearScreen()
	// PlayAudio starts playback of a stimulus without blocking.
	PlayAudio(s *Stimulus)
	// StopAudio cuts any active playback.
	StopAudio()
	// PollKey reports at most one pending key event without blocking.
	PollKey() KeyEvent
	// FlushInput drops all pending input events and reports whether an
	// abort key was among them.
	FlushInput() bool
}
