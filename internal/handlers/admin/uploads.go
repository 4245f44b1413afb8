// internal/handlers/admin/uploads.go
package admin

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mining-storefront/internal/domain/blog"
	"mining-storefront/internal/gateway"
	"mining-storefront/internal/pkg/response"
)

// maxUploadBytes caps a product or post form, images included.
const maxUploadBytes = 32 << 20

// formFromRequest copies the multipart body into a gateway form. Fields and
// file parts keep their names. The returned closer releases the files.
func formFromRequest(c *gin.Context) (*gateway.Form, io.Closer, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}

	form := &gateway.Form{}
	for _, name := range sortedKeys(mf.Value) {
		for _, v := range mf.Value[name] {
			form.AddField(name, v)
		}
	}

	var files closers
	for _, name := range sortedKeys(mf.File) {
		for _, fh := range mf.File[name] {
			f, err := fh.Open()
			if err != nil {
				files.Close()
				return nil, nil, err
			}
			files = append(files, f)
			form.AddFile(name, fh.Filename, fh.Header.Get("Content-Type"), f)
		}
	}
	return form, files, nil
}

type closers []multipart.File

func (cs closers) Close() error {
	var errs []error
	for _, c := range cs {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ========== Products ==========

// CreateProduct forwards the product form with its images
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	form, files, err := formFromRequest(c)
	if err != nil {
		response.ValidationError(c, "invalid product form", err)
		return
	}
	defer files.Close()

	product, err := h.api.Products.Create(c.Request.Context(), token(c), form)
	if err != nil {
		response.FromError(c, err, "Failed to create product")
		return
	}
	h.logger.Info("product created", append(actor(c), zap.String("product_id", product.ID))...)
	response.Success(c, http.StatusCreated, "product created", product)
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	form, files, err := formFromRequest(c)
	if err != nil {
		response.ValidationError(c, "invalid product form", err)
		return
	}
	defer files.Close()

	product, err := h.api.Products.Update(c.Request.Context(), token(c), c.Param("id"), form)
	if err != nil {
		response.FromError(c, err, "Failed to update product")
		return
	}
	h.logger.Info("product updated", append(actor(c), zap.String("product_id", c.Param("id")))...)
	response.Success(c, http.StatusOK, "product updated", product)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.api.Products.Delete(c.Request.Context(), token(c), c.Param("id")); err != nil {
		response.FromError(c, err, "Failed to delete product")
		return
	}
	h.logger.Info("product deleted", append(actor(c), zap.String("product_id", c.Param("id")))...)
	response.Success(c, http.StatusOK, "product deleted", nil)
}

// BulkImportProducts forwards a CSV upload in the "file" field
func (h *AdminHandler) BulkImportProducts(c *gin.Context) {
	form, files, err := formFromRequest(c)
	if err != nil {
		response.ValidationError(c, "invalid import form", err)
		return
	}
	defer files.Close()
	if len(form.Files) == 0 {
		response.ValidationError(c, "a CSV file is required", nil)
		return
	}

	result, err := h.api.Products.BulkImport(c.Request.Context(), token(c), form)
	if err != nil {
		response.FromError(c, err, "Import failed")
		return
	}
	h.logger.Info("products imported", append(actor(c),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed),
	)...)
	response.Success(c, http.StatusOK, messageOr(result.Message, "import finished"), result)
}

func (h *AdminHandler) DownloadImportTemplate(c *gin.Context) {
	blob, err := h.api.Products.ImportTemplate(c.Request.Context(), token(c))
	if err != nil {
		response.FromError(c, err, "Failed to download template")
		return
	}
	if blob.Filename == "" {
		blob.Filename = "product-import-template.csv"
	}
	response.Attachment(c, blob)
}

func (h *AdminHandler) DownloadImportSample(c *gin.Context) {
	blob, err := h.api.Products.ImportSample(c.Request.Context(), token(c))
	if err != nil {
		response.FromError(c, err, "Failed to download sample")
		return
	}
	if blob.Filename == "" {
		blob.Filename = "product-import-sample.csv"
	}
	response.Attachment(c, blob)
}

// ========== Categories ==========

// CreateCategory forwards the category form with its optional image
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	form, files, err := formFromRequest(c)
	if err != nil {
		response.ValidationError(c, "invalid category form", err)
		return
	}
	defer files.Close()
	if !form.HasField("name") {
		response.ValidationError(c, "name is required", nil)
		return
	}

	category, err := h.api.Categories.Create(c.Request.Context(), token(c), form)
	if err != nil {
		response.FromError(c, err, "Failed to create category")
		return
	}
	h.logger.Info("category created", append(actor(c), zap.String("category_id", category.ID))...)
	response.Success(c, http.StatusCreated, "category created", category)
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	form, files, err := formFromRequest(c)
	if err != nil {
		response.ValidationError(c, "invalid category form", err)
		return
	}
	defer files.Close()

	category, err := h.api.Categories.Update(c.Request.Context(), token(c), c.Param("id"), form)
	if err != nil {
		response.FromError(c, err, "Failed to update category")
		return
	}
	h.logger.Info("category updated", append(actor(c), zap.String("category_id", c.Param("id")))...)
	response.Success(c, http.StatusOK, "category updated", category)
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	if err := h.api.Categories.Delete(c.Request.Context(), token(c), c.Param("id")); err != nil {
		response.FromError(c, err, "Failed to delete category")
		return
	}
	h.logger.Info("category deleted", append(actor(c), zap.String("category_id", c.Param("id")))...)
	response.Success(c, http.StatusOK, "category deleted", nil)
}

// ========== Blog ==========

func (h *AdminHandler) CreatePost(c *gin.Context) {
	form, files, err := formFromRequest(c)
	if err != nil {
		response.ValidationError(c, "invalid post form", err)
		return
	}
	defer files.Close()

	resp, err := h.api.Blog.CreatePost(c.Request.Context(), token(c), form)
	if err != nil {
		response.FromError(c, err, "Failed to create post")
		return
	}
	response.Success(c, http.StatusCreated, messageOr(resp.Message, "post created"), resp.Post)
}

func (h *AdminHandler) UpdatePost(c *gin.Context) {
	form, files, err := formFromRequest(c)
	if err != nil {
		response.ValidationError(c, "invalid post form", err)
		return
	}
	defer files.Close()

	resp, err := h.api.Blog.UpdatePost(c.Request.Context(), token(c), c.Param("id"), form)
	if err != nil {
		response.FromError(c, err, "Failed to update post")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "post updated"), resp.Post)
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	resp, err := h.api.Blog.DeletePost(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to delete post")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "post deleted"), nil)
}

func (h *AdminHandler) CreateBlogCategory(c *gin.Context) {
	var req blog.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	resp, err := h.api.Blog.CreateCategory(c.Request.Context(), token(c), req)
	if err != nil {
		response.FromError(c, err, "Failed to create category")
		return
	}
	response.Success(c, http.StatusCreated, messageOr(resp.Message, "category created"), resp.Category)
}

func (h *AdminHandler) UpdateBlogCategory(c *gin.Context) {
	var req blog.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	resp, err := h.api.Blog.UpdateCategory(c.Request.Context(), token(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err, "Failed to update category")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "category updated"), resp.Category)
}

func (h *AdminHandler) DeleteBlogCategory(c *gin.Context) {
	resp, err := h.api.Blog.DeleteCategory(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to delete category")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "category deleted"), nil)
}
