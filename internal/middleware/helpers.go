// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// MustGetAccountID gets account ID from context or panics
func MustGetAccountID(c *gin.Context) string {
	accountID, exists := GetAccountID(c)
	if !exists {
		panic("account_id not found in context")
	}
	return accountID
}

// MustGetJTI gets JTI from context or panics
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}

// GetDriverRef gets the driver display name bound to the login
func GetDriverRef(c *gin.Context) string {
	return c.GetString("driver_ref")
}
