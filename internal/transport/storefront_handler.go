package transport

import (
	"net/http"

	"m-cosmetics/internal/config"
	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/middleware"
	"m-cosmetics/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductListResponse is the catalog page
type ProductListResponse struct {
	Products   []ProductResponse  `json:"products"`
	Pagination PaginationResponse `json:"pagination"`
}

// AboutResponse is the static about page
type AboutResponse struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	Story   string `json:"story"`
}

// StorefrontHandler serves the public pages of the shop
type StorefrontHandler struct {
	catalog service.CatalogService
	contact config.ContactConfig
	pages
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(
	catalog service.CatalogService,
	contact config.ContactConfig,
	flasher *middleware.Flasher,
	logger *zap.Logger,
) *StorefrontHandler {
	return &StorefrontHandler{
		catalog: catalog,
		contact: contact,
		pages:   pages{flasher: flasher, logger: logger},
	}
}

// RegisterRoutes registers the storefront routes
func (h *StorefrontHandler) RegisterRoutes(r chi.Router, requireLogin func(http.Handler) http.Handler) {
	r.Get("/", h.ListProducts)
	r.Get("/contact/", h.Contact)
	r.Get("/about/", h.About)

	r.With(requireLogin).Get("/cart/", h.Cart)
}

// ListProducts handles the paginated catalog
func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	number := domain.ParsePageNumber(r.URL.Query().Get("page"))

	page, err := h.catalog.ListProducts(r.Context(), number, service.CatalogPageSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, ProductListResponse{
		Products:   toProductResponses(page.Items),
		Pagination: newPagination(page),
	})
}

// Contact shows the shop's contact details
func (h *StorefrontHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, map[string]interface{}{
		"contact_info": h.contact,
	})
}

// About shows the about page
func (h *StorefrontHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, AboutResponse{
		Name:    "M Cosmetics",
		Tagline: "Beauty that feels like you.",
		Story:   "M Cosmetics curates skincare, makeup and fragrance for everyday confidence.",
	})
}

// Cart is a placeholder; the cart itself lives in the browser
func (h *StorefrontHandler) Cart(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
