package utils

import (
	"context"
)

type contextKey string

const ContextUsernameKey contextKey = "username"

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username := ctx.Value(ContextUsernameKey)
	usernameStr, ok := username.(string)
	return usernameStr, ok
}
