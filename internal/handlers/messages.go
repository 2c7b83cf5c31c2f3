package handlers

// Client-facing response messages.
const (
	MsgUserCreated      = "User registered successfully"
	MsgLoginSuccessful  = "Login successful"
	MsgLogoutSuccessful = "Logout successful"
	MsgURLCreated       = "Short URL created successfully"
	MsgURLDeleted       = "URL deleted successfully"
	MsgURLsFetched      = "URLs fetched successfully"

	MsgUserExists         = "User with this email already exists"
	MsgInvalidCredentials = "Invalid email or password"
	MsgUnauthorized       = "Unauthorized access"

	MsgURLNotFound       = "URL not found"
	MsgInvalidURL        = "Invalid URL format"
	MsgURLCreationFailed = "Failed to create short URL"
	MsgURLExists         = "Short code already exists"
	MsgURLForbidden      = "You are not authorized to access this URL"

	MsgValidationError  = "Validation error"
	MsgInternalError    = "Internal server error"
	MsgResourceNotFound = "Resource not found"
)
