package builder

import (
	"encoding/base64"

	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/resolver"
)

// applyBasicAuth sets the Authorization header for HTTP Basic
// authentication (RFC 7617): base64(username:password).
func applyBasicAuth(headers *OrderedHeader, basic *objectmodel.BasicAuth, r *resolver.Resolver) {
	username := r.Substitute(basic.Username)
	password := r.Substitute(basic.Password)
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	headers.Add("Authorization", "Basic "+token)
}

// applyBearerAuth sets the Authorization header for a static bearer token.
func applyBearerAuth(headers *OrderedHeader, bearer *objectmodel.BearerAuth, r *resolver.Resolver) {
	token := r.Substitute(bearer.Token)
	headers.Add("Authorization", "Bearer "+token)
}
