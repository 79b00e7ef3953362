package http

import (
	"net/http"

	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
)

const (
	maxImageRequestSize = 16 << 20
	maxImageMemory      = 8 << 20
	maxImageFileSize    = 15 << 20
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// listCategories
//
//	@Summary	List active categories
//	@Tags		categories
//	@Produce	json
//	@Param		name	query		string	false	"Only categories with this name"
//	@Success	200		{array}		CategoryResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/categories [get]
func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogUsecase.ListCategories(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toCategoryResponses(categories))
}

// createCategory
//
//	@Summary		Create a category
//	@Description	Only (name, subcategory) pairs of the product taxonomy are accepted.
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			category	body		CategoryRequest	true	"Category"
//	@Success		201			{object}	CategoryResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse	"Name and subcategory already taken"
//	@Router			/categories [post]
func (h *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	category, err := h.catalogUsecase.CreateCategory(r.Context(), &usecase.CreateCategoryReq{
		Name:        req.Name,
		Subcategory: req.Subcategory,
		Description: req.Description,
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	h.logger.Infof("category %d created: %s %s", category.ID, category.Name, category.Subcategory)
	WriteSuccess(w, http.StatusCreated, toCategoryResponse(category))
}

func (h *CatalogHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	category, err := h.catalogUsecase.GetCategory(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

func (h *CatalogHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	var req CategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	category, err := h.catalogUsecase.UpdateCategory(r.Context(), &usecase.UpdateCategoryReq{
		ID:          id,
		Name:        req.Name,
		Subcategory: req.Subcategory,
		Description: req.Description,
		Active:      active,
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

// deleteCategory
//
//	@Summary		Delete a category
//	@Description	Categories still used by products are deactivated instead of removed.
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		int	true	"Category id"
//	@Success		200	{object}	DeleteCategoryResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/categories/{id} [delete]
func (h *CatalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	res, err := h.catalogUsecase.DeleteCategory(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, DeleteCategoryResponse{SoftDeleted: res.SoftDeleted, ProductsInUse: res.ProductsInUse})
}

// listProducts
//
//	@Summary		List or search products
//	@Description	With q the search covers name, description, category and subcategory and only returns products in stock.
//	@Tags			products
//	@Produce		json
//	@Param			category	query	int		false	"Category id"
//	@Param			subcategory	query	string	false	"Subcategory"
//	@Param			q			query	string	false	"Search text"
//	@Success		200			{array}	ProductResponse
//	@Router			/products [get]
func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		products, err := h.catalogUsecase.SearchProducts(r.Context(), q)
		if err != nil {
			fail(h.logger, w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, toProductResponses(products))
		return
	}

	categoryID, err := queryID(r, "category")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	products, err := h.catalogUsecase.ListProducts(r.Context(), usecase.ProductFilter{
		CategoryID:  categoryID,
		Subcategory: r.URL.Query().Get("subcategory"),
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

// createProduct
//
//	@Summary	Create a product
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		product	body		ProductRequest	true	"Product, price as a decimal string"
//	@Success	201		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse	"Unknown category"
//	@Router		/products [post]
func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	req, err := h.productReq(w, r)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	product, err := h.catalogUsecase.CreateProduct(r.Context(), req)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	h.logger.Infof("product %d created: %s", product.ID, product.Name)
	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	product, err := h.catalogUsecase.GetProduct(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

func (h *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	req, err := h.productReq(w, r)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	product, err := h.catalogUsecase.UpdateProduct(r.Context(), id, req)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// uploadProductImage
//
//	@Summary	Upload the product picture
//	@Tags		products
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id		path		int		true	"Product id"
//	@Param		image	formData	file	true	"jpeg, png or webp"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	415		{object}	ErrorResponse
//	@Router		/products/{id}/image [post]
func (h *CatalogHandler) uploadProductImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageRequestSize)
	if err := ensureMultipartForm(r, maxImageMemory); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	image, err := parseImage(r.MultipartForm.File["image"], maxImageFileSize)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	product, err := h.catalogUsecase.UploadProductImage(r.Context(), id, *image)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

func (h *CatalogHandler) productReq(w http.ResponseWriter, r *http.Request) (*usecase.ProductReq, error) {
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	return &usecase.ProductReq{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		CategoryID:  req.CategoryID,
		Subcategory: req.Subcategory,
		Stock:       req.Stock,
	}, nil
}
