package framework

// ScenarioLogger receives progress callbacks as scenarios execute. The
// console implementation lives with the CLI; a null implementation is used
// when no logger is configured.
type ScenarioLogger interface {
	ScenarioStarted(name string)
	ScenarioError(name string, err error)
	ScenarioFinished(outcome Outcome, debugOutput CapturedOutput)
	ScenarioSkipped(name string, reason string)
}

type nullScenarioLogger struct{}

func (n nullScenarioLogger) ScenarioStarted(string)                  {}
func (n nullScenarioLogger) ScenarioError(string, error)             {}
func (n nullScenarioLogger) ScenarioFinished(Outcome, CapturedOutput) {}
func (n nullScenarioLogger) ScenarioSkipped(string, string)          {}

func NullScenarioLogger() ScenarioLogger { return nullScenarioLogger{} }
