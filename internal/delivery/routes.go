package delivery

import (
	"encoding/json"
	"net/http"

	"github.com/Vovarama1992/scribe/internal/ports"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(
	r chi.Router,
	hAuth *AuthHandler,
	auth ports.AuthService,
	hUpload *UploadHandler,
	hJob *JobHandler,
) {

	// health (both forms: the old Flask app answered on "/")
	health := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
	r.Get("/", health)
	r.Get("/health", health)

	// upload is public like the original
	r.Post("/upload", hUpload.Upload)

	// history behind optional auth
	r.Route("/api", func(api chi.Router) {
		api.Use(AuthMiddleware(auth))
		api.Post("/login", hAuth.Login)
		api.Get("/jobs/{id}", hJob.GetJob)
	})
}
