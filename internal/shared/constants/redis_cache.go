package constants

import "time"

// Redis keys follow shopadmin:{module}:{kind}:{identifier}

const (
	CACHE_PREFIX = "shopadmin"
)

// Default TTLs, overridable through CACHE_* settings
const (
	TTL_MEMBER_ROLES   = 5 * time.Minute
	TTL_PRODUCT_DETAIL = 10 * time.Minute
)

// Auth
const (
	CACHE_KEY_MEMBER_ROLES = CACHE_PREFIX + ":auth:roles:subject:" // + subject
	PATTERN_MEMBER_ROLES   = CACHE_KEY_MEMBER_ROLES + "*"
)

// Products
const (
	CACHE_KEY_PRODUCT_DETAIL = CACHE_PREFIX + ":products:detail:uuid:" // + product-id
)

// Rate limiting
const (
	RATE_LIMIT_PREFIX = CACHE_PREFIX + ":ratelimit:"
)

func BuildMemberRolesKey(subject string) string {
	return CACHE_KEY_MEMBER_ROLES + subject
}

func BuildProductDetailKey(productID string) string {
	return CACHE_KEY_PRODUCT_DETAIL + productID
}

func BuildRateLimitKey(clientIP, limitType string) string {
	return RATE_LIMIT_PREFIX + clientIP + ":" + limitType
}
