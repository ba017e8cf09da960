package padoca

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/ivens03/microservices-padoca/internal/model"
)

// ListCategories fetches every category. Public endpoint.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.get(ctx, "list_categories", "/categorias", nil, false, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a category
func (c *Client) CreateCategory(ctx context.Context, auth Auth, req model.CategoryRequest) (*model.Category, error) {
	var category model.Category
	if err := c.send(ctx, "create_category", http.MethodPost, "/categorias", auth, req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory edits a category
func (c *Client) UpdateCategory(ctx context.Context, auth Auth, id uint, req model.CategoryRequest) (*model.Category, error) {
	var category model.Category
	path := fmt.Sprintf("/categorias/%d", id)
	if err := c.send(ctx, "update_category", http.MethodPut, path, auth, req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category
func (c *Client) DeleteCategory(ctx context.Context, auth Auth, id uint) error {
	return c.send(ctx, "delete_category", http.MethodDelete, fmt.Sprintf("/categorias/%d", id), auth, nil, nil)
}

// ListProducts fetches every product. Public endpoint.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.get(ctx, "list_products", "/produtos", nil, false, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product
func (c *Client) GetProduct(ctx context.Context, auth Auth, id uint) (*model.Product, error) {
	var product model.Product
	if err := c.get(ctx, "get_product", fmt.Sprintf("/produtos/%d", id), auth, true, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Upload is an optional product image sent alongside the product JSON
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// CreateProduct sends the multipart create call
func (c *Client) CreateProduct(ctx context.Context, auth Auth, req model.ProductRequest, image *Upload) (*model.Product, error) {
	return c.sendProduct(ctx, "create_product", http.MethodPost, "/produtos", auth, req, image)
}

// UpdateProduct sends the multipart update call
func (c *Client) UpdateProduct(ctx context.Context, auth Auth, id uint, req model.ProductRequest, image *Upload) (*model.Product, error) {
	return c.sendProduct(ctx, "update_product", http.MethodPut, fmt.Sprintf("/produtos/%d", id), auth, req, image)
}

// DeleteProduct removes a product
func (c *Client) DeleteProduct(ctx context.Context, auth Auth, id uint) error {
	return c.send(ctx, "delete_product", http.MethodDelete, fmt.Sprintf("/produtos/%d", id), auth, nil, nil)
}

func (c *Client) sendProduct(ctx context.Context, operation, method, path string, auth Auth, req model.ProductRequest, image *Upload) (*model.Product, error) {
	body, contentType, err := productForm(req, image)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", operation, err)
	}

	var product model.Product
	err = c.do(ctx, call{
		operation:   operation,
		method:      method,
		path:        path,
		auth:        auth,
		needsAuth:   true,
		body:        body,
		contentType: contentType,
	}, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// productForm builds the multipart body: a JSON "produto" part and an optional "imagem" file part
func productForm(req model.ProductRequest, image *Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="produto"; filename="blob"`)
	header.Set("Content-Type", "application/json")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if err := json.NewEncoder(part).Encode(req); err != nil {
		return nil, "", err
	}

	if image != nil && image.Content != nil {
		contentType := image.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="imagem"; filename=%q`, image.Filename))
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, image.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
