package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	PromptListKey       = "prompts:all"
	FeaturedPromptsKey  = "prompts:featured"
	OAuthStateKeyPrefix = "oauth_state:%s"
)

const (
	UserTTL       = 5 * time.Minute
	PromptTTL     = 10 * time.Minute
	OAuthStateTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func OAuthStateKey(state string) string {
	return fmt.Sprintf(OAuthStateKeyPrefix, state)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePrompts(ctx context.Context) {
	Invalidate(ctx, PromptListKey)
	Invalidate(ctx, FeaturedPromptsKey)
}
