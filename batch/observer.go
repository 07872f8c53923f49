package batch

// Observer receives progress and result events from a batch run. Calls are
// made sequentially from the goroutine driving the run, in discovery order:
// one OnProgress/OnResult pair per task, each task fully resolved before the
// next begins, then exactly one OnComplete. Implementations that feed a UI
// or API response must marshal to their own context; the engine never calls
// an observer concurrently with itself.
type Observer interface {
	OnProgress(completed, total int, current Task)
	OnResult(res Result)
	OnComplete(sum Summary)
}

// NopObserver discards all events. Used when a caller only wants the
// returned Summary.
type NopObserver struct{}

func (NopObserver) OnProgress(completed, total int, current Task) {}
func (NopObserver) OnResult(res Result)                           {}
func (NopObserver) OnComplete(sum Summary)                        {}
