package engine

import (
	"fmt"
	"time"

	"github.com/chazu/armature/pkg/assembly"
)

// EvalTimeout is the hard limit for a single script evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	asm    *assembly.Assembly
	errors []EvalError
	err    error
}

// wait blocks until the evaluation goroutine delivers a result or
// EvalTimeout elapses. Results from a superseded generation are
// discarded, so a slow evaluation cannot clobber a newer one. On
// timeout the goroutine keeps running; its late result fails the same
// generation check and is dropped.
func (e *Engine) wait(ch <-chan evalResult, gen uint64) (*assembly.Assembly, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		stale := gen != e.generation
		e.mu.Unlock()
		if stale {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.asm, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
