package grpc

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	out, err := e.client.Call(context.Background(), "Login", map[string]any{"username": email, "password": password})
	require.NoError(t, err)
	assert.Equal(t, "bearer", out.GetFields()["token_type"].GetStringValue())
	return out.GetFields()["access_token"].GetStringValue()
}

func field(s *structpb.Struct, name string) *structpb.Value {
	return s.GetFields()[name]
}

func TestLoginAndCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin@example.com", "changethis")

	out, err := env.client.Call(withToken(admin), "GetCurrentUser", nil)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", field(out, "email").GetStringValue())
	assert.True(t, field(out, "superuser").GetBoolValue())

	_, err = env.client.Call(context.Background(), "Login", map[string]any{"username": "admin@example.com", "password": "nope"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Equal(t, "Incorrect email or password", status.Convert(err).Message())
}

func TestAccessLevels(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin@example.com", "changethis")

	_, err := env.client.Call(withToken(admin), "CreateUser", map[string]any{"email": "bob@example.com", "password": "pw"})
	require.NoError(t, err)
	bob := env.login(t, "bob@example.com", "pw")

	tests := []struct {
		name   string
		ctx    context.Context
		method string
		in     map[string]any
		code   codes.Code
		msg    string
	}{
		{"no token", context.Background(), "GetCurrentUser", nil, codes.PermissionDenied, "Not authenticated"},
		{"garbage token", withToken("garbage"), "GetCurrentUser", nil, codes.PermissionDenied, "Could not validate credentials"},
		{"not superuser", withToken(bob), "CreateUser", map[string]any{"email": "eve@example.com", "password": "pw"}, codes.PermissionDenied, "The user doesn't have enough privileges"},
		{"duplicate", withToken(admin), "CreateUser", map[string]any{"email": "bob@example.com", "password": "pw"}, codes.InvalidArgument, "Email already registered"},
		{"missing user", context.Background(), "GetUser", map[string]any{"id": 42}, codes.NotFound, "User not found"},
		{"bad id", context.Background(), "GetUser", map[string]any{"id": "x"}, codes.InvalidArgument, ""},
		{"unknown owner", withToken(admin), "CreateItemForUser", map[string]any{"id": 9999, "title": "t"}, codes.NotFound, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.client.Call(tt.ctx, tt.method, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
			if tt.msg != "" {
				assert.Equal(t, tt.msg, status.Convert(err).Message())
			}
		})
	}
}

func TestVanishedSubject(t *testing.T) {
	env := newTestEnv(t)

	ghost, err := env.tokens.Issue("9999")
	require.NoError(t, err)

	_, err = env.client.Call(withToken(ghost), "GetCurrentUser", nil)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestItemsRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin@example.com", "changethis")

	bobOut, err := env.client.Call(withToken(admin), "CreateUser", map[string]any{"email": "bob@example.com", "password": "pw"})
	require.NoError(t, err)
	bobID := int64(field(bobOut, "id").GetNumberValue())
	bob := env.login(t, "bob@example.com", "pw")

	item, err := env.client.Call(withToken(bob), "CreateItem", map[string]any{"title": "Pen", "description": "Blue"})
	require.NoError(t, err)
	assert.Equal(t, float64(bobID), field(item, "owner_id").GetNumberValue())

	_, err = env.client.Call(withToken(admin), "CreateItemForUser", map[string]any{"id": bobID, "title": "Cup"})
	require.NoError(t, err)

	list, err := env.client.Call(context.Background(), "ListItems", map[string]any{"skip": 0, "limit": 10})
	require.NoError(t, err)
	items := field(list, "items").GetListValue().GetValues()
	require.Len(t, items, 2)
	assert.Equal(t, "Pen", items[0].GetStructValue().GetFields()["title"].GetStringValue())

	users, err := env.client.Call(context.Background(), "ListUsers", map[string]any{"skip": 1})
	require.NoError(t, err)
	ul := field(users, "users").GetListValue().GetValues()
	require.Len(t, ul, 1)
	assert.Equal(t, strconv.FormatInt(bobID, 10), strconv.FormatFloat(ul[0].GetStructValue().GetFields()["id"].GetNumberValue(), 'f', -1, 64))

	_, err = env.client.Call(context.Background(), "ListUsers", map[string]any{"limit": -1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
