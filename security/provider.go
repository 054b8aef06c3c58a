package security

import (
	"github.com/google/wire"
	"github.com/ncobase/classroom/security/jwt"
)

// ProviderSet groups the security providers.
var ProviderSet = wire.NewSet(jwt.ProviderSet)
