package sim

import "fmt"

// StepError reports the step a run failed on.
type StepError struct {
	Step int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sim: step %d: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
