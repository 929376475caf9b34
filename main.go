package main

import (
	"context"
	"time"

	"github.com/ioshacker22/2FA-authentication/internal/app"
)

// @title           Two-Factor Companion API
// @version         1.0
// @description     Stores TOTP secrets, verifies one-time codes and manages portable token backups.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  SessionAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
