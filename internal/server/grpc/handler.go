package grpc

import (
	"context"
	"fmt"
	"math"

	"github.com/dmitrijs2005/apiapp/internal/common"
	"github.com/dmitrijs2005/apiapp/internal/server/models"
	"github.com/dmitrijs2005/apiapp/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func session(ctx context.Context) (*services.Session, error) {
	s, ok := sessionFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Internal, "no session")
	}
	return s, nil
}

func stringField(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

// intField reads a whole number; def applies when the field is absent.
func intField(in *structpb.Struct, name string, def int64) (int64, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return def, nil
	}
	n, isNum := v.GetKind().(*structpb.Value_NumberValue)
	if !isNum || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", common.ErrValidation, name)
	}
	return int64(n.NumberValue), nil
}

func pageFields(in *structpb.Struct) (int, int, error) {
	skip, err := intField(in, "skip", 0)
	if err != nil {
		return 0, 0, err
	}
	limit, err := intField(in, "limit", services.DefaultLimit)
	if err != nil {
		return 0, 0, err
	}
	return int(skip), int(limit), nil
}

func idField(in *structpb.Struct) (int64, error) {
	id, err := intField(in, "id", 0)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: id is required", common.ErrValidation)
	}
	return id, nil
}

func userValue(u *models.User) map[string]any {
	return map[string]any{"id": u.ID, "email": u.Email, "superuser": u.IsSuperuser}
}

func itemValue(i *models.Item) map[string]any {
	return map[string]any{"id": i.ID, "title": i.Title, "description": i.Description, "owner_id": i.OwnerID}
}

func (s *GRPCServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := session(ctx)
	if err != nil {
		return nil, err
	}
	token, err := sess.Login(ctx, stringField(in, "username"), stringField(in, "password"))
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]any{"access_token": token, "token_type": common.TokenType})
}

func (s *GRPCServer) ListUsers(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := session(ctx)
	if err != nil {
		return nil, err
	}
	skip, limit, err := pageFields(in)
	if err != nil {
		return nil, err
	}
	users, err := sess.ListUsers(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	list := make([]any, 0, len(users))
	for _, u := range users {
		list = append(list, userValue(u))
	}
	return structpb.NewStruct(map[string]any{"users": list})
}

func (s *GRPCServer) GetCurrentUser(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return structpb.NewStruct(userValue(callerFrom(ctx)))
}

func (s *GRPCServer) GetUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := session(ctx)
	if err != nil {
		return nil, err
	}
	id, err := idField(in)
	if err != nil {
		return nil, err
	}
	user, err := sess.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(userValue(user))
}

func (s *GRPCServer) CreateUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := session(ctx)
	if err != nil {
		return nil, err
	}
	user, err := sess.CreateUser(ctx, stringField(in, "email"), stringField(in, "password"))
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user created", "id", user.ID)
	return structpb.NewStruct(userValue(user))
}

func (s *GRPCServer) ListItems(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := session(ctx)
	if err != nil {
		return nil, err
	}
	skip, limit, err := pageFields(in)
	if err != nil {
		return nil, err
	}
	items, err := sess.ListItems(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	list := make([]any, 0, len(items))
	for _, i := range items {
		list = append(list, itemValue(i))
	}
	return structpb.NewStruct(map[string]any{"items": list})
}

func (s *GRPCServer) CreateItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.createItem(ctx, in, callerFrom(ctx).ID)
}

func (s *GRPCServer) CreateItemForUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(in)
	if err != nil {
		return nil, err
	}
	return s.createItem(ctx, in, id)
}

func (s *GRPCServer) createItem(ctx context.Context, in *structpb.Struct, ownerID int64) (*structpb.Struct, error) {
	sess, err := session(ctx)
	if err != nil {
		return nil, err
	}
	item, err := sess.CreateItem(ctx, stringField(in, "title"), stringField(in, "description"), ownerID)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(itemValue(item))
}
