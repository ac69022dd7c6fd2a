package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/apiapp/internal/common"
	"github.com/dmitrijs2005/apiapp/internal/dbx"
	"github.com/dmitrijs2005/apiapp/internal/server/models"
	"github.com/dmitrijs2005/apiapp/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// methodAccess is the access level of every API method.
var methodAccess = map[string]services.Access{
	fullMethod("Login"):             services.AccessPublic,
	fullMethod("ListUsers"):         services.AccessPublic,
	fullMethod("GetCurrentUser"):    services.AccessAuthenticated,
	fullMethod("GetUser"):           services.AccessPublic,
	fullMethod("CreateUser"):        services.AccessSuperuser,
	fullMethod("ListItems"):         services.AccessPublic,
	fullMethod("CreateItem"):        services.AccessAuthenticated,
	fullMethod("CreateItemForUser"): services.AccessSuperuser,
}

type ctxKey string

const (
	sessionKey ctxKey = "session"
	callerKey  ctxKey = "caller"
)

func sessionFrom(ctx context.Context) (*services.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*services.Session)
	return s, ok
}

func callerFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(callerKey).(*models.User)
	return u
}

// bearerFromMetadata reads "authorization: Bearer <token>".
func bearerFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(strings.ToLower(common.AuthorizationHeaderName))
	if len(values) == 0 {
		return ""
	}
	scheme, token, ok := strings.Cut(values[0], " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// sessionInterceptor runs every API call in its own transaction, applying
// the method's access level before the handler. Methods outside the table
// are denied.
func (s *GRPCServer) sessionInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	level, ok := methodAccess[info.FullMethod]
	if !ok {
		return nil, status.Error(codes.Unimplemented, "unknown method")
	}

	var resp any
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		session := s.provider.Session(tx)

		caller, err := session.Authorize(ctx, bearerFromMetadata(ctx), level)
		if err != nil {
			return err
		}

		ctx = context.WithValue(ctx, sessionKey, session)
		ctx = context.WithValue(ctx, callerKey, caller)

		resp, err = handler(ctx, req)
		return err
	})

	if err != nil {
		return nil, s.toStatus(ctx, info.FullMethod, err)
	}
	return resp, nil
}

func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.InvalidArgument, "Incorrect email or password")
	case errors.Is(err, common.ErrDuplicateEmail):
		return status.Error(codes.InvalidArgument, "Email already registered")
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrNotAuthenticated):
		return status.Error(codes.PermissionDenied, "Not authenticated")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.PermissionDenied, "Could not validate credentials")
	case errors.Is(err, common.ErrNotSuperuser):
		return status.Error(codes.PermissionDenied, "The user doesn't have enough privileges")
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrUnknownOwner):
		return status.Error(codes.NotFound, "User not found")
	}

	if st, ok := status.FromError(err); ok {
		return st.Err()
	}

	s.logger.Error(ctx, "call failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}
