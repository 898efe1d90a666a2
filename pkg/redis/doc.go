// Package redis provides the Redis client plumbing used by the Redis
// delivery record store: URL-based connection with startup retry, a
// health check, and a shutdown hook.
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"),
//	    redis.WithPoolSize(20),
//	)
//	if err != nil {
//	    return err
//	}
//	store := delivery.NewRedisStore(client)
package redis
