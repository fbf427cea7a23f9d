// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess     = "success"
	KeyError       = "error"
	KeyRateLimited = "rate.limited"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAdminAccessDenied      = "auth.admin_access_denied"

	// Users
	KeyUserCreated       = "user.created"
	KeyUserUpdated       = "user.updated"
	KeyUserDeleted       = "user.deleted"
	KeyUserRemoved       = "user.removed"
	KeyUserNotFound      = "user.not_found"
	KeyUserEmailExists   = "user.email_exists"
	KeyUserNoneFound     = "user.none_found"
	KeyUserInactive      = "user.inactive"
	KeyUserPasswordReset = "user.password_reset"
	KeyUserCreationError = "user.creation_error"

	// Categories
	KeyCategoryCreated      = "category.created"
	KeyCategoryUpdated      = "category.updated"
	KeyCategoryDeleted      = "category.deleted"
	KeyCategoryRestored     = "category.restored"
	KeyCategoryNotFound     = "category.not_found"
	KeyCategoryExists       = "category.exists"
	KeyCategoryActive       = "category.active"
	KeyCategoriesImported   = "category.imported"
	KeyCategoryImportFailed = "category.import_failed"
	KeyCategoriesMissing    = "category.missing"

	// Products
	KeyProductCreated        = "product.created"
	KeyProductUpdated        = "product.updated"
	KeyProductDeleted        = "product.deleted"
	KeyProductRestored       = "product.restored"
	KeyProductNotFound       = "product.not_found"
	KeyProductExists         = "product.exists"
	KeyProductActive         = "product.active"
	KeyProductsImported      = "product.imported"
	KeyProductImportFailed   = "product.import_failed"
	KeyProductNoValidRows    = "product.no_valid_rows"
	KeyProductCreationFailed = "product.creation_failed"
	KeyProductOutOfStock     = "product.out_of_stock"

	// Images
	KeyImageUploaded = "image.uploaded"
	KeyImageDeleted  = "image.deleted"
	KeyImageNotFound = "image.not_found"

	// Orders
	KeyOrderCreated  = "order.created"
	KeyOrderNotFound = "order.not_found"

	// Reports
	KeyReportNoData = "report.no_data"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
	KeyFileTooMany       = "file.too_many"
)
