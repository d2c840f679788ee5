package docs

// @title           Ride Coordinator API
// @version         1.0
// @description     Ride lifecycle, per-ride chat rooms and push notification dispatch. Chat rooms stream over WebSocket.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
