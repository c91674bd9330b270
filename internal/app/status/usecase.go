package status

import (
	"context"
	"errors"
	"strings"

	"idlescape/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid status request")

type UseCase struct {
	Characters ports.CharacterRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.OwnerID) == "" || strings.TrimSpace(req.CharacterID) == "" {
		return Response{}, ErrInvalidRequest
	}
	c, err := u.Characters.GetByID(ctx, req.OwnerID, req.CharacterID)
	if err != nil {
		return Response{}, err
	}
	c.Normalize()
	return Response{
		Character:       c,
		TotalLevel:      c.TotalLevel(),
		TotalExperience: c.TotalExperience(),
	}, nil
}
