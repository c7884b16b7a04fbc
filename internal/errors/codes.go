package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The storefront maps these codes to localized (ar/en) messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (CATALOG_) ====================
	CategoryNotFound      = "CATALOG_CATEGORY_NOT_FOUND"
	CategoryNameExists    = "CATALOG_CATEGORY_NAME_EXISTS"
	CategorySchemaInvalid = "CATALOG_CATEGORY_SCHEMA_INVALID"
	ProductNotFound       = "CATALOG_PRODUCT_NOT_FOUND"
	ProductNumberExists   = "CATALOG_PRODUCT_NUMBER_EXISTS"
	ProductSKUExists      = "CATALOG_PRODUCT_SKU_EXISTS"
	BrandNotFound         = "CATALOG_BRAND_NOT_FOUND"
	BrandNameExists       = "CATALOG_BRAND_NAME_EXISTS"

	// ==================== Media (MEDIA_) ====================
	MediaNoFiles        = "MEDIA_NO_FILES"
	MediaFileTooLarge   = "MEDIA_FILE_TOO_LARGE"
	MediaTypeNotAllowed = "MEDIA_TYPE_NOT_ALLOWED"
	MediaUploadFailed   = "MEDIA_UPLOAD_FAILED"
	MediaEmptyResponse  = "MEDIA_EMPTY_RESPONSE"
	MediaAssetNotFound  = "MEDIA_ASSET_NOT_FOUND"

	// ==================== Product form (FORM_) ====================
	FormSessionNotFound = "FORM_SESSION_NOT_FOUND"
	FormStepInvalid     = "FORM_STEP_INVALID"
	FormSchemaFetch     = "FORM_SCHEMA_FETCH_FAILED"
	FormSubmitFailed    = "FORM_SUBMIT_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalDatabase    = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API_ERROR"
)
