package ui

// LogMsg appends one line to the log pane.
type LogMsg string

// RunStartedMsg marks the start of a scrape run.
type RunStartedMsg struct {
	Subreddit string
}

// RunFinishedMsg marks the end of a scrape run, successful or not.
type RunFinishedMsg struct {
	Path string
	Err  error
}
