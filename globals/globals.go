package globals

import (
	"context"
)

var (
	// JwksURL is the remote signing-key set endpoint. Set from JWKS_URL in main.
	JwksURL string
	// BaseURL is the public base URL of this API, used in webhook embeds and QR payloads.
	BaseURL = "https://api2025.jizi.jp"
)

var Ctx = context.Background()
