package interfaces

type RunnerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}
