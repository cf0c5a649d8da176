package main

// @title           Farm Exchange API
// @version         1.0
// @description     Peer-to-peer produce marketplace connecting farmers and buyers
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token
func main() {
	Execute()
}
