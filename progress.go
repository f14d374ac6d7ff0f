package tablesplit

// ProgressBar lets a caller plug in its own visualization of chunking
// progress. Optional, may be nil to disable. Implemented in cmd/tablesplit
// with gopkg.in/cheggaaa/pb.v1.
type ProgressBar interface {
	SetTotal(total int)
	Start()
	Finish()
	Increment() int
	Add(add int) int
	Set(current int)
}
