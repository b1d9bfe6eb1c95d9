package api

import (
	"net/http"
	"time"

	"github.com/privacymoney/shield-wallet/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// SetupRouter sets up router with handlers
func SetupRouter(logger *zap.Logger) (http.Handler, error) {
	shieldHandler, err := handler.NewShieldHandler()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Shielded balance endpoints
	mux.HandleFunc("/shield/derive", shieldHandler.Derive)
	mux.HandleFunc("/shield/keys/", shieldHandler.GetKey)
	mux.HandleFunc("/shield/paylink", shieldHandler.PayLink)
	mux.HandleFunc("/shield/encrypt", shieldHandler.Encrypt)
	mux.HandleFunc("/shield/decrypt", shieldHandler.Decrypt)
	mux.HandleFunc("/shield/utxo/encrypt", shieldHandler.EncryptUtxo)
	mux.HandleFunc("/shield/utxo/encrypt-for", shieldHandler.EncryptUtxoFor)
	mux.HandleFunc("/shield/utxo/decrypt", shieldHandler.DecryptUtxo)
	mux.HandleFunc("/shield/detect", shieldHandler.Detect)
	mux.HandleFunc("/shield/reset", shieldHandler.Reset)

	return withLogging(logger, mux), nil
}

// withLogging logs each request's method, path and duration. Request
// bodies are never logged: they carry signatures and plaintext records.
func withLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
