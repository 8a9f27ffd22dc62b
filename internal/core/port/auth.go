package port

import "github.com/MikeRez0/ypfulfillment/internal/core/domain"

type TokenPayload struct {
	ActorID string
	Role    domain.Role
}

//go:generate mockgen -source=auth.go -destination=mock/auth.go -package=mock
type TokenService interface {
	CreateToken(actor domain.Actor) (string, error)
	VerifyToken(token string) (*TokenPayload, error)
}
