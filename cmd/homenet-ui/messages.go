package main

// counterMsg carries the new counter value from the periodic job.
type counterMsg struct {
	value int
}

// logLineMsg is one log entry routed from the logger into the log pane.
type logLineMsg string

// notifyDoneMsg is returned by the tea.Cmd that forwards a button press.
type notifyDoneMsg struct {
	name  string
	value string
	err   error
}
