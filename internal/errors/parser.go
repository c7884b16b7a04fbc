package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed error with a stable code and a safe message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts low-level database errors into user-facing codes.
// Sensitive driver detail is hidden; the message still tells the user
// what to fix.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM sentinel errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL constraint violations

	// 2-1. Unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr, context)
	}

	// 2-2. Foreign key constraint (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The referenced record does not exist or is still in use",
		}
	}

	// 2-3. Not null constraint (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// 2-4. Check constraint (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "A field value is outside its allowed range",
		}
	}

	// 3. Network errors from external services (S3, redis)
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An external service is unreachable. Please try again later",
		}
	}

	// 4. Default
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "product_number") || strings.Contains(errLower, "idx_products_product_number") {
		return ErrorInfo{
			Code:    ProductNumberExists,
			Message: "This product number is already in use",
		}
	}

	if strings.Contains(errLower, "sku") || strings.Contains(errLower, "idx_products_sku") {
		return ErrorInfo{
			Code:    ProductSKUExists,
			Message: "This SKU is already in use",
		}
	}

	if strings.Contains(errLower, "idx_categories_name") || strings.Contains(errLower, "categories") {
		return ErrorInfo{
			Code:    CategoryNameExists,
			Message: "A category with this name already exists",
		}
	}

	if strings.Contains(errLower, "idx_brands_name") || strings.Contains(errLower, "brands") {
		return ErrorInfo{
			Code:    BrandNameExists,
			Message: "A brand with this name already exists",
		}
	}

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email address is already registered",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "A record with the same value already exists",
	}
}

func getNotFoundMessage(context string) string {
	switch context {
	case "product":
		return "Product not found"
	case "category":
		return "Category not found"
	case "brand":
		return "Brand not found"
	case "user":
		return "User not found"
	default:
		return "The requested record was not found"
	}
}

func getDefaultErrorMessage(context string) string {
	switch context {
	case "product":
		return "Failed to process the product request"
	case "category":
		return "Failed to process the category request"
	case "brand":
		return "Failed to process the brand request"
	default:
		return "Something went wrong. Please try again later"
	}
}
