package placement

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/danmuck/arplace/internal/observability"
	"github.com/danmuck/arplace/internal/spatial"
	"github.com/danmuck/arplace/internal/xr"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Negotiator selects the most stable reference space a session accepts.
type Negotiator struct {
	order []spatial.ReferenceSpaceKind
}

// NewNegotiator validates order: non-empty, known kinds, no duplicates and
// never more stable than the kind before it. No order means the default
// floor -> local -> viewer sequence.
func NewNegotiator(order ...spatial.ReferenceSpaceKind) (*Negotiator, error) {
	if len(order) == 0 {
		order = spatial.DefaultSpaceOrder()
	}
	if err := ValidateSpaceOrder(order); err != nil {
		return nil, err
	}
	return &Negotiator{order: slices.Clone(order)}, nil
}

func ValidateSpaceOrder(order []spatial.ReferenceSpaceKind) error {
	if len(order) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidSpaceOrder)
	}
	for i, kind := range order {
		if !kind.Known() {
			return fmt.Errorf("%w: unknown kind %q", ErrInvalidSpaceOrder, kind)
		}
		if slices.Index(order, kind) != i {
			return fmt.Errorf("%w: duplicate kind %q", ErrInvalidSpaceOrder, kind)
		}
		if i > 0 && kind.Tier() > order[i-1].Tier() {
			return fmt.Errorf(
				"%w: %q (%s) listed after less stable %q (%s)",
				ErrInvalidSpaceOrder,
				kind, kind.Tier(),
				order[i-1], order[i-1].Tier(),
			)
		}
	}
	return nil
}

func (n *Negotiator) Order() []spatial.ReferenceSpaceKind {
	return slices.Clone(n.order)
}

// Negotiate requests each kind in order and returns the first accepted
// space. A rejected kind moves on to the next; only ctx cancellation stops
// the sequence early.
func (n *Negotiator) Negotiate(ctx context.Context, session xr.Session) (xr.ReferenceSpace, error) {
	ctx, span := observability.Tracer().Start(ctx, "placement.Negotiator.Negotiate")
	defer span.End()

	attempts := make([]error, 0, len(n.order))
	for _, kind := range n.order {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return nil, err
		}
		space, err := session.RequestReferenceSpace(ctx, kind)
		if err == nil && space == nil {
			err = fmt.Errorf("platform returned no %q space", kind)
		}
		observability.RecordSpaceAttempt(string(kind), err == nil)
		if err != nil {
			log.Debug().
				Str("kind", string(kind)).
				Err(err).
				Msg("placement.Negotiator.Negotiate attempt rejected")
			attempts = append(attempts, fmt.Errorf("%s: %w", kind, err))
			continue
		}

		span.SetAttributes(attribute.String("reference_space", string(kind)))
		log.Info().
			Str("kind", string(kind)).
			Str("tier", kind.Tier().String()).
			Int("attempt", len(attempts)+1).
			Msg("placement.Negotiator.Negotiate selected")
		return space, nil
	}

	err := errors.Join(append(
		[]error{fmt.Errorf("%w: %d kinds rejected", ErrReferenceSpaceNegotiationFailed, len(n.order))},
		attempts...,
	)...)
	span.RecordError(err)
	span.SetStatus(codes.Error, "no reference space accepted")
	return nil, err
}
