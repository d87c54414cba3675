package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/metrics"
	"m-cosmetics/internal/middleware"
	"m-cosmetics/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const manageProductsPath = "/admin/products/"

var productFields = []string{"name", "description", "price", "image", "in_stock"}

// DashboardResponse is the admin overview
type DashboardResponse struct {
	TotalProducts      int               `json:"total_products"`
	TotalUsers         int               `json:"total_users"`
	InStockProducts    int               `json:"in_stock_products"`
	OutOfStockProducts int               `json:"out_of_stock_products"`
	RecentProducts     []ProductResponse `json:"recent_products"`
}

// ProductFormResponse is the add or edit product page
type ProductFormResponse struct {
	Title   string           `json:"title"`
	Fields  []string         `json:"fields"`
	Product *ProductResponse `json:"product,omitempty"`
}

// DeleteConfirmResponse is the delete confirmation page
type DeleteConfirmResponse struct {
	Product ProductResponse `json:"product"`
	Confirm string          `json:"confirm"`
}

// UserListResponse is the admin users page
type UserListResponse struct {
	Users      []UserResponse     `json:"users"`
	Pagination PaginationResponse `json:"pagination"`
}

// AdminHandler handles the staff-only admin panel
type AdminHandler struct {
	catalog service.CatalogService
	admin   service.AdminService
	pages
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	catalog service.CatalogService,
	admin service.AdminService,
	flasher *middleware.Flasher,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		catalog: catalog,
		admin:   admin,
		pages:   pages{flasher: flasher, logger: logger},
	}
}

// RegisterRoutes registers the admin routes behind the staff guard
func (h *AdminHandler) RegisterRoutes(r chi.Router, requireStaff func(http.Handler) http.Handler) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(requireStaff)

		r.Get("/", h.Dashboard)
		r.Get("/users/", h.ListUsers)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/add/", h.AddProductForm)
			r.Post("/add/", h.AddProduct)
			r.Get("/{id}/edit/", h.EditProductForm)
			r.Post("/{id}/edit/", h.EditProduct)
			r.Get("/{id}/delete/", h.ConfirmDeleteProduct)
			r.Post("/{id}/delete/", h.DeleteProduct)
		})
	})
}

// Dashboard shows catalog and account totals
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Dashboard(r.Context(), middleware.ActorFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, DashboardResponse{
		TotalProducts:      stats.TotalProducts,
		TotalUsers:         stats.TotalUsers,
		InStockProducts:    stats.InStockProducts,
		OutOfStockProducts: stats.OutOfStockProducts,
		RecentProducts:     toProductResponses(stats.RecentProducts),
	})
}

// ListProducts shows the catalog with admin options
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	number := domain.ParsePageNumber(r.URL.Query().Get("page"))

	page, err := h.admin.ListProducts(r.Context(), middleware.ActorFromContext(r.Context()), number)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, ProductListResponse{
		Products:   toProductResponses(page.Items),
		Pagination: newPagination(page),
	})
}

// AddProductForm shows an empty product form
func (h *AdminHandler) AddProductForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, ProductFormResponse{Title: "Add New Product", Fields: productFields})
}

// AddProduct creates a product
func (h *AdminHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var input service.ProductInput
	if err := bindForm(r, &input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	product, err := h.catalog.CreateProduct(r.Context(), actor, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()
	h.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Int64("user_id", actor.User.ID),
	)

	h.redirect(w, r, manageProductsPath, middleware.LevelSuccess, "Product added successfully!")
}

// EditProductForm shows the product form filled with current values
func (h *AdminHandler) EditProductForm(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	resp := toProductResponse(product)
	h.render(w, r, http.StatusOK, ProductFormResponse{
		Title:   "Edit " + product.Name,
		Fields:  productFields,
		Product: &resp,
	})
}

// EditProduct saves changes to a product
func (h *AdminHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var input service.ProductInput
	if err := bindForm(r, &input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	product, err := h.catalog.UpdateProduct(r.Context(), actor, id, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	h.logger.Info("Product updated",
		zap.Int64("product_id", product.ID),
		zap.Int64("user_id", actor.User.ID),
	)

	h.redirect(w, r, manageProductsPath, middleware.LevelSuccess, "Product updated successfully!")
}

// ConfirmDeleteProduct shows the product about to be deleted. It never
// changes anything; the delete happens on POST.
func (h *AdminHandler) ConfirmDeleteProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	h.render(w, r, http.StatusOK, DeleteConfirmResponse{
		Product: toProductResponse(product),
		Confirm: fmt.Sprintf("Are you sure you want to delete %q? Submit this form with POST to confirm.", product.Name),
	})
}

// DeleteProduct removes a product
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	product, err := h.catalog.DeleteProduct(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	h.logger.Info("Product deleted",
		zap.Int64("product_id", product.ID),
		zap.Int64("user_id", actor.User.ID),
	)

	h.redirect(w, r, manageProductsPath, middleware.LevelSuccess,
		fmt.Sprintf("Product %q deleted successfully!", product.Name))
}

// ListUsers shows registered accounts
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	number := domain.ParsePageNumber(r.URL.Query().Get("page"))

	page, err := h.admin.ListUsers(r.Context(), middleware.ActorFromContext(r.Context()), number)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, UserListResponse{
		Users:      toUserResponses(page.Items),
		Pagination: newPagination(page),
	})
}

func (h *AdminHandler) loadProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	id, ok := productID(w, r)
	if !ok {
		return nil, false
	}

	product, err := h.catalog.GetProduct(r.Context(), middleware.ActorFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return product, true
}

// productID reads the {id} path segment; anything but a positive integer is
// a missing product
func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		middleware.RespondWithError(w, http.StatusNotFound, domain.ErrProductNotFound.Error())
		return 0, false
	}
	return id, true
}
