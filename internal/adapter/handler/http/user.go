package http

import (
	"net/http"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActorHandler lets an admin issue tokens for staff and integrations.
type ActorHandler struct {
	Handler
	tokens port.TokenService
}

type TokenReq struct {
	ActorID string `json:"actor_id"`
	Role    string `json:"role"`
}

type TokenResp struct {
	Token string `json:"token"`
}

func NewActorHandler(tokens port.TokenService, logger *zap.Logger) (*ActorHandler, error) {
	return &ActorHandler{Handler: *NewHandler(logger), tokens: tokens}, nil
}

func (ah *ActorHandler) IssueToken(ctx *gin.Context) {
	req := TokenReq{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ah.handleValidationError(ctx, err)
		return
	}

	token, err := ah.tokens.CreateToken(domain.Actor{ID: req.ActorID, Role: domain.Role(req.Role)})
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	ah.logger.Info("token issued",
		zap.String("actor", req.ActorID),
		zap.String("role", req.Role),
		zap.String("by", getActor(ctx).ID))
	ctx.Header(authHeaderKey, authType+" "+token)
	ah.handleSuccessWithStatus(ctx, TokenResp{Token: token}, http.StatusCreated)
}
