package ipc

import (
	"context"
	"time"
)

// Verifier asks a connected front end whether an unexpected file of an opened
// fiddle should get its own editor. The reply's first argument is the answer.
type Verifier struct {
	Bridge  *Bridge
	Timeout time.Duration
}

func (v *Verifier) VerifyCreateCustomEditor(ctx context.Context, name string) (bool, error) {
	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}
	reply, err := v.Bridge.Ask(ctx, VerifyCreateCustomEditor, name)
	if err != nil {
		return false, err
	}
	ok, _ := reply.BoolArg(0)
	return ok, nil
}
