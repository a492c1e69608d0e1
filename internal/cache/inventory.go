package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	BlogKeyPrefix = "blog:%s"
	UserKeyPrefix = "user:%s"
)

const (
	BlogTTL = 30 * time.Minute
	UserTTL = 5 * time.Minute
)

func BlogKey(blogID string) string {
	return fmt.Sprintf(BlogKeyPrefix, blogID)
}

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateBlog(ctx context.Context, blogID string) {
	Invalidate(ctx, BlogKey(blogID))
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}
