// package tasks drives the end-to-end sync: fetch catalog pages, map each
// asset, reconcile it into the store and advance the watermark when the
// whole run succeeds.
package tasks

// Phase identifies where a running sync currently is.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseFetching
	PhaseProcessing
	PhaseDone
	PhaseAborted
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseFetching:
		return "fetching"
	case PhaseProcessing:
		return "processing"
	case PhaseDone:
		return "done"
	case PhaseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// ProgressUpdate is a point-in-time snapshot sent over the progress channel.
type ProgressUpdate struct {
	Phase   Phase
	Message string
	Current int
	Total   int
}

// SyncResult summarizes one completed run.
type SyncResult struct {
	RunID      string
	Requests   int
	Downloaded int
	TotalCount int
	Succeeded  int
	Failed     int
	Watermark  string
}
