package campaign

import "errors"

var ErrNoResetPending = errors.New("no reset pending")

type ResetStage int

const (
	ResetIdle ResetStage = iota
	ResetAwaitingFirst
	ResetAwaitingSecond
)

const (
	FirstResetPrompt  = "Reset your campaign? All progress, zen points and achievements will be lost."
	SecondResetPrompt = "Are you absolutely sure? This cannot be undone."
)

// ResetFlow gates the destructive reset behind two explicit confirmations.
// Nothing is reset until Confirm(true) has been called twice in a row;
// declining at any point sends the flow back to idle.
type ResetFlow struct {
	Stage ResetStage
}

func (f *ResetFlow) Request() string {
	f.Stage = ResetAwaitingFirst
	return FirstResetPrompt
}

// Confirm answers the pending prompt. It returns the next prompt, or done=true
// once the reset should be carried out.
func (f *ResetFlow) Confirm(accept bool) (done bool, nextPrompt string, err error) {
	if f.Stage == ResetIdle {
		return false, "", ErrNoResetPending
	}
	if !accept {
		f.Stage = ResetIdle
		return false, "", nil
	}
	switch f.Stage {
	case ResetAwaitingFirst:
		f.Stage = ResetAwaitingSecond
		return false, SecondResetPrompt, nil
	default:
		f.Stage = ResetIdle
		return true, "", nil
	}
}

// RunReset drives a whole flow with a synchronous confirm callback. reset runs
// only after both prompts were accepted; the result reports whether it ran.
func RunReset(confirm func(prompt string) bool, reset func() error) (bool, error) {
	var f ResetFlow
	prompt := f.Request()
	for {
		done, next, err := f.Confirm(confirm(prompt))
		if err != nil {
			return false, err
		}
		if done {
			if err := reset(); err != nil {
				return false, err
			}
			return true, nil
		}
		if f.Stage == ResetIdle {
			return false, nil
		}
		prompt = next
	}
}
