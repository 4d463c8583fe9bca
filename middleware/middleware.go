package middleware

import (
	"log"
	"net/http"

	"matsuri/globals"
	"matsuri/jwks"

	"github.com/julienschmidt/httprouter"
)

// Authenticate gates mutating routes behind bearer-token verification. The
// signing-key set is fetched fresh for every request; any failure collapses
// to 401.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}

		if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
			http.Error(w, "Invalid token format", http.StatusUnauthorized)
			return
		}

		verifier, err := jwks.NewVerifier(r.Context(), globals.JwksURL)
		if err != nil {
			log.Printf("JWKS fetch failed: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ok, err := verifier.VerifyToken(tokenString[7:])
		if err != nil || !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next(w, r, ps)
	}
}
