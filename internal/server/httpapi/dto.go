package httpapi

import "github.com/dmitrijs2005/apiapp/internal/server/models"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Superuser bool   `json:"superuser"`
}

type itemResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     int64  `json:"owner_id"`
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func toUser(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Superuser: u.IsSuperuser}
}

func toUsers(us []*models.User) []userResponse {
	out := make([]userResponse, 0, len(us))
	for _, u := range us {
		out = append(out, toUser(u))
	}
	return out
}

func toItem(i *models.Item) itemResponse {
	return itemResponse{ID: i.ID, Title: i.Title, Description: i.Description, OwnerID: i.OwnerID}
}

func toItems(is []*models.Item) []itemResponse {
	out := make([]itemResponse, 0, len(is))
	for _, i := range is {
		out = append(out, toItem(i))
	}
	return out
}
