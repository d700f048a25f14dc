package worker

// Log messages
const (
	LogMsgWorkerJobFailed = "worker job failed"
)

// Pool defaults
const (
	DefaultWorkers   = 2
	DefaultQueueSize = 16
)
