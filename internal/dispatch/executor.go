package dispatch

import (
	"context"
	"fmt"

	"github.com/shpaw415/frame-master-sub000/internal/errors"
	"github.com/shpaw415/frame-master-sub000/internal/logging"
	"github.com/shpaw415/frame-master-sub000/internal/registry"
	"github.com/shpaw415/frame-master-sub000/internal/types"
)

// chainState is the accumulator threaded through one resource's chain.
// Exactly one exists per in-flight dispatch; it lives for that one call and
// is never shared across resources.
type chainState struct {
	content    []byte
	kind       types.Kind
	hasContent bool
	stopped    bool
	executed   []string
}

// runChain executes the matched handlers strictly in order. Each handler's
// input is the previous handler's output; a handler that returns no result
// is a pass-through and leaves the accumulator unchanged, so the next
// handler may still see the first-in-chain input. A Stop result terminates
// the loop; an error aborts the chain wrapped with the owner's identity.
func runChain(ctx context.Context, log logging.Logger, matched []registry.HandlerRegistration, res types.Resource) (*chainState, error) {
	state := &chainState{}

	for _, h := range matched {
		in := types.Input{Resource: res, First: true}
		if state.hasContent {
			in = types.Input{Resource: res, Content: state.content, Kind: state.kind}
		}

		result, err := h.Callback(ctx, in)
		if err != nil {
			return nil, &errors.ChainError{Owner: h.Owner, Resource: res.Path, Err: err}
		}
		state.executed = append(state.executed, h.Owner)

		if result == nil {
			// The handler declined this particular file even though its
			// pattern matched.
			log.Debug(ctx, "handler passed through", "owner", h.Owner)
			continue
		}
		if result.Content != nil {
			state.content = result.Content
			state.hasContent = true
			if result.Kind != "" {
				state.kind = result.Kind
			}
		}
		if result.Stop {
			state.stopped = true
			log.Debug(ctx, "handler stopped the chain", "owner", h.Owner)
			break
		}
	}

	if !state.hasContent {
		// A matched handler set with zero output is a plugin-authoring bug,
		// not a legitimate empty-file case.
		return nil, fmt.Errorf("%s: %w", res.Path, errors.ErrEmptyChain)
	}
	return state, nil
}
