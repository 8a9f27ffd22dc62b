package http

import (
	"slices"
	"strings"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const authHeaderKey = "Authorization"
const authType = "Bearer"
const actorPayloadKey = "actor_payload"

func authCheck(tokenService port.TokenService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.Request.Header.Get(authHeaderKey)
		if len(header) == 0 {
			handleAbort(ctx, domain.ErrEmptyAuthorizationHeader)
			return
		}

		words := strings.Split(header, " ")
		if len(words) != 2 {
			handleAbort(ctx, domain.ErrInvalidAuthorizationHeader)
			return
		}
		if words[0] != authType {
			handleAbort(ctx, domain.ErrInvalidAuthorizationType)
			return
		}
		token := words[1]
		payload, err := tokenService.VerifyToken(token)
		if err != nil {
			handleAbort(ctx, domain.ErrInvalidToken)
			return
		}

		ctx.Set(actorPayloadKey, payload)

		ctx.Next()
	}
}

// requireRole must run after authCheck.
func requireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !slices.Contains(roles, getActor(ctx).Role) {
			handleAbort(ctx, domain.ErrForbidden)
			return
		}
		ctx.Next()
	}
}

func getActor(ctx *gin.Context) domain.Actor {
	payload := ctx.MustGet(actorPayloadKey).(*port.TokenPayload)
	return domain.Actor{ID: payload.ActorID, Role: payload.Role}
}

// tracing continues the caller's trace and opens a server span per request.
func tracing() gin.HandlerFunc {
	tracer := otel.Tracer("github.com/MikeRez0/ypfulfillment/internal/adapter/handler/http")
	return func(ctx *gin.Context) {
		parent := otel.GetTextMapPropagator().Extract(ctx.Request.Context(),
			propagation.HeaderCarrier(ctx.Request.Header))

		reqCtx, span := tracer.Start(parent, ctx.Request.Method+" "+ctx.FullPath(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("http.method", ctx.Request.Method)))
		defer span.End()

		ctx.Request = ctx.Request.WithContext(reqCtx)
		ctx.Next()

		span.SetAttributes(attribute.Int("http.status_code", ctx.Writer.Status()))
	}
}
