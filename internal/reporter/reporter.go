package reporter

// Reporter receives probe events from the prober and batch processor.
type Reporter interface {
	BatchStarted(info BatchStartInfo)
	FileStarted(file FileContext)
	SnapshotReady(result SnapshotResult)
	Warning(message string)
	Error(err ReporterError)
	BatchComplete(summary BatchSummary)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) BatchStarted(BatchStartInfo)   {}
func (NullReporter) FileStarted(FileContext)       {}
func (NullReporter) SnapshotReady(SnapshotResult)  {}
func (NullReporter) Warning(string)                {}
func (NullReporter) Error(ReporterError)           {}
func (NullReporter) BatchComplete(BatchSummary)    {}
func (NullReporter) Verbose(string)                {}
