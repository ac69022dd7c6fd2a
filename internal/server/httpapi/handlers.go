package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/apiapp/internal/common"
	"github.com/go-chi/chi/v5"
)

func (s *Server) hello(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error(r.Context(), "health check failed", "error", err)
		writeErrorMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// login takes an OAuth2 password form: username (the email) and password.
func (s *Server) login(ctx context.Context, req *apiRequest) (int, any, error) {
	req.r.Body = http.MaxBytesReader(req.w, req.r.Body, maxBodyBytes)
	if err := req.r.ParseForm(); err != nil {
		return 0, nil, fmt.Errorf("%w: malformed form", common.ErrValidation)
	}

	email := req.r.PostForm.Get("username")
	password := req.r.PostForm.Get("password")
	if email == "" || password == "" {
		return 0, nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	token, err := req.session.Login(ctx, email, password)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, tokenResponse{AccessToken: token, TokenType: common.TokenType}, nil
}

func (s *Server) listUsers(ctx context.Context, req *apiRequest) (int, any, error) {
	skip, limit, err := page(req.r)
	if err != nil {
		return 0, nil, err
	}
	users, err := req.session.ListUsers(ctx, skip, limit)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, toUsers(users), nil
}

func (s *Server) me(ctx context.Context, req *apiRequest) (int, any, error) {
	return http.StatusOK, toUser(req.caller), nil
}

func (s *Server) getUser(ctx context.Context, req *apiRequest) (int, any, error) {
	id, err := common.ParseID(chi.URLParam(req.r, "id"))
	if err != nil {
		return 0, nil, err
	}
	user, err := req.session.GetUser(ctx, id)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, toUser(user), nil
}

func (s *Server) createUser(ctx context.Context, req *apiRequest) (int, any, error) {
	var in createUserRequest
	if err := decodeJSON(req.w, req.r, &in); err != nil {
		return 0, nil, err
	}
	user, err := req.session.CreateUser(ctx, in.Email, in.Password)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, toUser(user), nil
}

func (s *Server) listItems(ctx context.Context, req *apiRequest) (int, any, error) {
	skip, limit, err := page(req.r)
	if err != nil {
		return 0, nil, err
	}
	items, err := req.session.ListItems(ctx, skip, limit)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, toItems(items), nil
}

func (s *Server) createItem(ctx context.Context, req *apiRequest) (int, any, error) {
	return s.createItemOwnedBy(ctx, req, req.caller.ID)
}

func (s *Server) createItemForUser(ctx context.Context, req *apiRequest) (int, any, error) {
	id, err := common.ParseID(chi.URLParam(req.r, "id"))
	if err != nil {
		return 0, nil, err
	}
	return s.createItemOwnedBy(ctx, req, id)
}

func (s *Server) createItemOwnedBy(ctx context.Context, req *apiRequest, ownerID int64) (int, any, error) {
	var in createItemRequest
	if err := decodeJSON(req.w, req.r, &in); err != nil {
		return 0, nil, err
	}
	item, err := req.session.CreateItem(ctx, in.Title, in.Description, ownerID)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, toItem(item), nil
}
