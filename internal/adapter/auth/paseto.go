package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
)

const defaultTTL = 24 * time.Hour

type PasetoToken struct {
	parser *paseto.Parser
	key    *paseto.V4SymmetricKey
	ttl    time.Duration
}

// New builds the token service. An empty key generates a random one, so
// tokens do not survive a restart.
func New(cfg *config.Auth) (port.TokenService, error) {
	parser := paseto.NewParser()

	key := paseto.NewV4SymmetricKey()
	if cfg.TokenKey != "" {
		var err error
		key, err = paseto.V4SymmetricKeyFromHex(cfg.TokenKey)
		if err != nil {
			return nil, fmt.Errorf("bad token key: %w", err)
		}
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	s := PasetoToken{
		parser: &parser,
		key:    &key,
		ttl:    ttl,
	}

	return &s, nil
}

func (p *PasetoToken) CreateToken(actor domain.Actor) (string, error) {
	if actor.ID == "" || !actor.Role.Valid() {
		return "", domain.ErrTokenCreation
	}

	token := paseto.NewToken()
	now := time.Now()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(p.ttl))

	payload := port.TokenPayload{ActorID: actor.ID, Role: actor.Role}
	err := token.Set("payload", payload)
	if err != nil {
		return "", domain.ErrTokenCreation
	}

	return token.V4Encrypt(*p.key, nil), nil
}

func (p *PasetoToken) VerifyToken(token string) (*port.TokenPayload, error) {
	parsedToken, err := p.parser.ParseV4Local(*p.key, token, nil)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	payload := port.TokenPayload{}
	err = parsedToken.Get("payload", &payload)
	if err != nil || !payload.Role.Valid() {
		return nil, domain.ErrInvalidToken
	}
	return &payload, nil
}
