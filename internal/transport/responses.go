package transport

import (
	"errors"
	"net/http"
	"time"

	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/middleware"

	"go.uber.org/zap"
)

// ViewerResponse describes who is looking at the page
type ViewerResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
	IsAdmin       bool   `json:"is_admin"`
}

// PaginationResponse is the page navigation of a listing
type PaginationResponse struct {
	Number       int  `json:"number"`
	NumPages     int  `json:"num_pages"`
	TotalCount   int  `json:"total_count"`
	PageSize     int  `json:"page_size"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
	NextPage     *int `json:"next_page"`
	PreviousPage *int `json:"previous_page"`
	StartIndex   int  `json:"start_index"`
	EndIndex     int  `json:"end_index"`
}

// ProductResponse represents a product on a page
type ProductResponse struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       domain.Price `json:"price"`
	ImageURL    string       `json:"image_url"`
	InStock     bool         `json:"in_stock"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// UserResponse represents an account in the admin users list
type UserResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	DateJoined  time.Time  `json:"date_joined"`
	LastLogin   *time.Time `json:"last_login"`
}

// View is the envelope of every page payload
type View struct {
	Viewer   ViewerResponse       `json:"user"`
	Messages []middleware.Message `json:"messages"`
	Data     interface{}          `json:"data"`
}

func newViewer(actor *domain.Actor) ViewerResponse {
	if !actor.IsAuthenticated() {
		return ViewerResponse{}
	}
	return ViewerResponse{
		Authenticated: true,
		Username:      actor.User.Username,
		DisplayName:   actor.User.DisplayName(),
		IsAdmin:       actor.IsAdmin(),
	}
}

func newPagination[T any](page *domain.Page[T]) PaginationResponse {
	resp := PaginationResponse{
		Number:      page.Number,
		NumPages:    page.NumPages,
		TotalCount:  page.TotalCount,
		PageSize:    page.Size,
		HasNext:     page.HasNext(),
		HasPrevious: page.HasPrevious(),
		StartIndex:  page.StartIndex(),
		EndIndex:    page.EndIndex(),
	}
	if resp.HasNext {
		next := page.Number + 1
		resp.NextPage = &next
	}
	if resp.HasPrevious {
		prev := page.Number - 1
		resp.PreviousPage = &prev
	}
	return resp
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductResponses(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toUserResponses(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserResponse{
			ID:          u.ID,
			Username:    u.Username,
			Email:       u.Email,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			IsStaff:     u.IsStaff,
			IsSuperuser: u.IsSuperuser,
			DateJoined:  u.DateJoined,
			LastLogin:   u.LastLogin,
		})
	}
	return out
}

// pages renders a GET payload, consuming any pending notices
type pages struct {
	flasher *middleware.Flasher
	logger  *zap.Logger
}

func (p pages) render(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	view := View{
		Viewer:   newViewer(middleware.ActorFromContext(r.Context())),
		Messages: p.flasher.Pop(w, r),
		Data:     data,
	}
	middleware.RespondWithJSON(w, status, view)
}

// redirect sends the browser on with a notice for the next page
func (p pages) redirect(w http.ResponseWriter, r *http.Request, target, level, notice string) {
	if notice != "" {
		p.flasher.Add(w, r, level, notice)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// fail maps service errors onto responses
func (p pages) fail(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := domain.AsValidationErrors(err); ok {
		middleware.RespondWithValidationErrors(w, ve)
		return
	}

	switch {
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrUserNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		p.redirect(w, r, middleware.LoginRedirectURL(r.URL.RequestURI()), middleware.LevelError,
			"You need to be logged in to access the admin panel.")
	case errors.Is(err, domain.ErrForbidden):
		p.redirect(w, r, middleware.CatalogPath, middleware.LevelError,
			"You do not have permission to access the admin panel.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password.")
	default:
		p.logger.Error("Request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
