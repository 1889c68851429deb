package screener

// Event reports scan progress after each finished ticker
type Event struct {
	RunID    string `json:"run_id"`
	Strategy string `json:"strategy"`
	Ticker   string `json:"ticker,omitempty"`
	Done     int    `json:"done"`
	Total    int    `json:"total"`
	Emitted  int    `json:"emitted"`
	Finished bool   `json:"finished"`
}

// ProgressSink receives progress events. Publish is called from the
// collecting goroutine and must not block.
type ProgressSink interface {
	Publish(e Event)
}

// ProgressFunc adapts a function to ProgressSink
type ProgressFunc func(e Event)

// Publish calls f(e)
func (f ProgressFunc) Publish(e Event) { f(e) }
