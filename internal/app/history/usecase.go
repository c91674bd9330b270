package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"idlescape/internal/app/ports"
	"idlescape/internal/domain/game"
)

var ErrInvalidRequest = errors.New("invalid history request")

const (
	defaultLimit = 50
	maxLimit     = 500
)

type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.CharacterID) == "" {
		return Response{}, ErrInvalidRequest
	}
	if !req.OccurredFrom.IsZero() && !req.OccurredTo.IsZero() && req.OccurredTo.Before(req.OccurredFrom) {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	events, err := u.Events.ListByCharacterID(ctx, req.CharacterID, limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	summary := make(map[string]int, len(events))
	for _, evt := range events {
		summary[evt.Type]++
	}
	return Response{Events: events, Summary: summary}, nil
}

func filterByTimeWindow(events []game.DomainEvent, from, to time.Time) []game.DomainEvent {
	if from.IsZero() && to.IsZero() {
		return events
	}
	out := make([]game.DomainEvent, 0, len(events))
	for _, evt := range events {
		if !from.IsZero() && evt.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && evt.OccurredAt.After(to) {
			continue
		}
		out = append(out, evt)
	}
	return out
}
