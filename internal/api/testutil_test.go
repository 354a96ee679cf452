package api

import (
	"math/rand"
	"net/http"
	"time"

	"privatetube/internal/auth"
	"privatetube/internal/identity"
	"privatetube/internal/recommend"
)

func newTestServer(db *MockDB) *Server {
	issuer := auth.NewIssuer([]byte("test-secret"), 15*time.Minute, 24*time.Hour)
	selector := recommend.NewSelector(rand.NewSource(1))
	return NewServer(db, issuer, selector)
}

// asUser attaches an authenticated identity the way authMiddleware would.
func asUser(req *http.Request, ident identity.Identity) *http.Request {
	return req.WithContext(identity.NewContext(req.Context(), ident))
}
