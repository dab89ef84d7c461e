// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is shared by outbound calls to sibling services (auth
// validation, profile sync).
var HTTPClient = &http.Client{
	Timeout: 15 * time.Second,
}
