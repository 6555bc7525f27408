package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Open returns the cache backend described by rawURL:
//
//	""                                    null cache
//	file:///var/cache/linebreak           FileCache in that directory
//	redis://host:6379/0?prefix=lb:        RedisCache (also rediss://)
//	mongodb://host:27017/db?collection=c  MongoCache (also mongodb+srv://)
//
// The prefix and collection parameters are consumed by Open and not passed to
// the drivers.
func Open(ctx context.Context, rawURL string) (Cache, error) {
	if rawURL == "" {
		return NewNullCache(), nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse cache URL: %w", err)
	}

	switch u.Scheme {
	case "file":
		dir := u.Path
		if u.Host != "" {
			dir = u.Host + dir
		}
		if dir == "" {
			return nil, fmt.Errorf("file cache URL %q has no path", rawURL)
		}
		return NewFileCache(dir)

	case "redis", "rediss":
		prefix := takeParam(u, "prefix")
		return NewRedisCache(u.String(), prefix)

	case "mongodb", "mongodb+srv":
		collection := takeParam(u, "collection")
		database := strings.TrimPrefix(u.Path, "/")
		return NewMongoCache(ctx, u.String(), database, collection)

	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// takeParam removes the query parameter name from u and returns its value.
func takeParam(u *url.URL, name string) string {
	q := u.Query()
	v := q.Get(name)
	q.Del(name)
	u.RawQuery = q.Encode()
	return v
}
