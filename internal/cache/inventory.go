package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix  = "user:%d"
	PostKeyPrefix  = "post:%d"
	TokenKeyPrefix = "authtoken:%s"
	PostCountKey   = "posts:count"
)

const (
	UserTTL      = 5 * time.Minute
	PostTTL      = 30 * time.Minute
	TokenTTL     = 5 * time.Minute
	PostCountTTL = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func TokenKey(key string) string {
	return fmt.Sprintf(TokenKeyPrefix, key)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidatePostCount(ctx context.Context) {
	Invalidate(ctx, PostCountKey)
}
