package port

// ProgressReporter receives load and validation progress. The engine may call
// the validation methods from several goroutines at once, so implementations
// must be safe for concurrent use.
type ProgressReporter interface {
	SetTotalFiles(n int)
	OnStartFileLoad(file string)
	OnFinishFileLoad(file string)

	SetTotalValidators(n int)
	OnStartValidation(name string)
	OnFinishValidation(name string)
	IncrementValidatorProgress()
}
