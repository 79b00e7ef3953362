package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"github.com/Rafa-lopez12/examen-arqui/pkg/validator"
)

const productSearchLimit = 10

// CatalogUseCase manages categories and products.
type CatalogUseCase struct {
	categoryRepo CategoryRepository
	productRepo  ProductRepository
	cacheRepo    CacheRepository
	imagesInfra  ImagesInfra
	logger       logger.Logger
}

func NewCatalogUC(
	categoryRepo CategoryRepository,
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	imagesInfra ImagesInfra,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cacheRepo:    cacheRepo,
		imagesInfra:  imagesInfra,
		logger:       logger,
	}
}

// CreateCategory adds a (name, subcategory) pair of the product taxonomy.
// Duplicates are reported as e.ErrCategoryExists.
func (c *CatalogUseCase) CreateCategory(ctx context.Context, req *CreateCategoryReq) (*domain.Category, error) {
	const op = "CatalogUseCase.CreateCategory"

	req.Name = strings.TrimSpace(req.Name)
	req.Subcategory = strings.TrimSpace(req.Subcategory)
	if err := validateReq(req); err != nil {
		return nil, e.Wrap(op, err)
	}
	if !domain.IsValidSubcategory(req.Name, req.Subcategory) {
		return nil, e.Wrap(op, e.ErrInvalidSubcategory)
	}

	category, err := c.categoryRepo.Create(ctx, domain.NewCategory(req.Name, req.Subcategory, req.Description))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Infof("category created: id=%d name=%s subcategory=%s", category.ID, category.Name, category.Subcategory)
	return category, nil
}

func (c *CatalogUseCase) UpdateCategory(ctx context.Context, req *UpdateCategoryReq) (*domain.Category, error) {
	const op = "CatalogUseCase.UpdateCategory"

	req.Name = strings.TrimSpace(req.Name)
	req.Subcategory = strings.TrimSpace(req.Subcategory)
	if err := validateReq(req); err != nil {
		return nil, e.Wrap(op, err)
	}
	if !domain.IsValidSubcategory(req.Name, req.Subcategory) {
		return nil, e.Wrap(op, e.ErrInvalidSubcategory)
	}

	category, err := c.categoryRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	category.Name = req.Name
	category.Subcategory = req.Subcategory
	category.Description = req.Description
	category.Active = req.Active
	if category.Description == "" {
		category.Description = domain.DefaultCategoryDescription(req.Name, req.Subcategory)
	}

	updated, err := c.categoryRepo.Update(ctx, category)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

func (c *CatalogUseCase) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	const op = "CatalogUseCase.GetCategory"

	category, err := c.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return category, nil
}

// ListCategories lists active categories, all of them or those called name.
func (c *CatalogUseCase) ListCategories(ctx context.Context, name string) ([]domain.Category, error) {
	const op = "CatalogUseCase.ListCategories"

	var (
		categories []domain.Category
		err        error
	)
	if name = strings.TrimSpace(name); name == "" {
		categories, err = c.categoryRepo.ListActive(ctx)
	} else {
		categories, err = c.categoryRepo.ListByName(ctx, name)
	}
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

// DeleteCategory deactivates a category used by products and removes an unused one.
func (c *CatalogUseCase) DeleteCategory(ctx context.Context, id int64) (*DeleteCategoryRes, error) {
	const op = "CatalogUseCase.DeleteCategory"

	if _, err := c.categoryRepo.GetByID(ctx, id); err != nil {
		return nil, e.Wrap(op, err)
	}

	inUse, err := c.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if inUse > 0 {
		if err := c.categoryRepo.Deactivate(ctx, id); err != nil {
			return nil, e.Wrap(op, err)
		}
		c.logger.Infof("category %d deactivated, used by %d products", id, inUse)
		return &DeleteCategoryRes{SoftDeleted: true, ProductsInUse: inUse}, nil
	}

	if err := c.categoryRepo.Delete(ctx, id); err != nil {
		return nil, e.Wrap(op, err)
	}

	return &DeleteCategoryRes{}, nil
}

func (c *CatalogUseCase) CreateProduct(ctx context.Context, req *ProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.CreateProduct"

	product, err := c.productFromReq(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	created, err := c.productRepo.Create(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Infof("product created: id=%d name=%s stock=%d", created.ID, created.Name, created.Stock)
	return created, nil
}

func (c *CatalogUseCase) UpdateProduct(ctx context.Context, id int64, req *ProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.UpdateProduct"

	existing, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := c.productFromReq(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	product.ID = existing.ID
	product.ImageKey = existing.ImageKey

	updated, err := c.productRepo.Update(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateProducts(ctx, op, []int64{id})
	return updated, nil
}

func (c *CatalogUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	res, err := c.GetProducts(ctx, NewGetProductsReq([]int64{id}))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(res.Products) == 0 {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	product := res.Products[0]
	return &product, nil
}

// GetProducts returns products by id, reading through the cache.
func (c *CatalogUseCase) GetProducts(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "CatalogUseCase.GetProducts"

	if len(req.IDs) == 0 {
		return NewGetProductsRes(nil, nil), nil
	}

	cached, err := c.cacheRepo.GetProducts(ctx, req.IDs)
	if err != nil {
		cached = nil
	}

	var nonCached []int64
	for _, id := range req.IDs {
		if _, ok := cached[id]; !ok {
			nonCached = append(nonCached, id)
		}
	}

	fromDB := make(map[int64]domain.Product, len(nonCached))
	if len(nonCached) > 0 {
		products, err := c.productRepo.GetByIDs(ctx, nonCached)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		for _, p := range products {
			fromDB[p.ID] = p
		}

		if len(products) > 0 {
			go func() {
				bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
				defer cancel()

				if err := c.cacheRepo.SetProducts(bgCtx, products); err != nil {
					c.logger.Warnf("failed to cache products in background: %v", e.Wrap(op, err))
				}
			}()
		}
	}

	result := make([]domain.Product, 0, len(req.IDs))
	notFound := make([]int64, 0)
	for _, id := range req.IDs {
		if p, ok := cached[id]; ok {
			result = append(result, p)
		} else if p, ok := fromDB[id]; ok {
			result = append(result, p)
		} else {
			notFound = append(notFound, id)
		}
	}

	return NewGetProductsRes(result, notFound), nil
}

func (c *CatalogUseCase) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	const op = "CatalogUseCase.ListProducts"

	products, err := c.productRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return products, nil
}

// SearchProducts matches name, description, category or subcategory and
// returns at most ten products that are in stock.
func (c *CatalogUseCase) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	const op = "CatalogUseCase.SearchProducts"

	query = strings.TrimSpace(query)
	if query == "" {
		return c.ListProducts(ctx, ProductFilter{})
	}

	products, err := c.productRepo.Search(ctx, query, productSearchLimit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return products, nil
}

// UploadProductImage stores image and points the product at it.
// The previous picture, if any, is removed in the background.
func (c *CatalogUseCase) UploadProductImage(ctx context.Context, productID int64, image ProductImage) (*domain.Product, error) {
	const op = "CatalogUseCase.UploadProductImage"

	if len(image.Data) == 0 {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	product, err := c.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	key, err := c.imagesInfra.UploadProductImage(ctx, productID, image)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.productRepo.SetImageKey(ctx, productID, key); err != nil {
		c.logger.Warnf("cleaning up orphaned image after failed update. product_id: %d, error: %v", productID, e.Wrap(op, err))
		c.imagesInfra.CleanupImages([]string{key})
		return nil, e.Wrap(op, err)
	}

	if product.ImageKey != "" && product.ImageKey != key {
		c.imagesInfra.CleanupImages([]string{product.ImageKey})
	}

	c.invalidateProducts(ctx, op, []int64{productID})
	product.ImageKey = key
	return product, nil
}

// productFromReq validates req against the category it references.
func (c *CatalogUseCase) productFromReq(ctx context.Context, req *ProductReq) (*domain.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Subcategory = strings.TrimSpace(req.Subcategory)
	if err := validateReq(req); err != nil {
		return nil, err
	}
	if !req.Price.Equal(req.Price.Truncate(2)) {
		return nil, e.ErrPricePrecision
	}

	category, err := c.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.Active {
		return nil, e.Wrap("inactive category", e.ErrCategoryNotFound)
	}

	subcategory := req.Subcategory
	if subcategory == "" {
		subcategory = category.Subcategory
	}
	if !domain.IsValidSubcategory(category.Name, subcategory) {
		return nil, e.ErrInvalidSubcategory
	}

	product := domain.NewProduct(req.Name, req.Description, req.Price, category.ID, subcategory, req.Stock)
	product.CategoryName = category.Name
	return product, nil
}

func (c *CatalogUseCase) invalidateProducts(ctx context.Context, op string, ids []int64) {
	if err := c.cacheRepo.DeleteProducts(ctx, ids); err != nil {
		c.logger.Warnf("failed to delete products from cache: %v", e.Wrap(op, err))
	}
}

// validateReq runs struct tag validation and folds the failures into e.ErrValidation.
func validateReq(req any) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return e.Wrap(validator.Summary(errs), e.ErrValidation)
	}
	return nil
}
