package worker

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// Log messages for the periodic jobs
const (
	LogMsgTickApplied    = "Operation tick applied"
	LogMsgSweepCompleted = "Effect sweep completed"
	LogMsgSyncSweep      = "Periodic sync sweep"
)
