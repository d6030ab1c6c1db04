package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
)

const (
	// maxRobotsBytes caps how much of a robots.txt is read
	maxRobotsBytes = 512 * 1024
	// robotsTTL is how long a fetched robots.txt is trusted
	robotsTTL = 24 * time.Hour
)

// RobotsChecker answers robots.txt queries. Each origin's rules are fetched
// once and kept for robotsTTL.
type RobotsChecker struct {
	client    *http.Client
	userAgent string
	origins   *gocache.Cache
}

// NewRobotsChecker creates a checker that fetches robots.txt with client
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		origins:   gocache.New(robotsTTL, time.Hour),
	}
}

// Allowed reports whether rawURL may be fetched. A robots.txt that cannot be
// retrieved allows everything and is asked for again next time.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse URL: %w", err)
	}

	group, err := r.group(ctx, u)
	if err != nil {
		return true, nil
	}
	return group.Test(u.EscapedPath()), nil
}

func (r *RobotsChecker) group(ctx context.Context, u *url.URL) (*robotstxt.Group, error) {
	origin := u.Scheme + "://" + u.Host
	if g, ok := r.origins.Get(origin); ok {
		return g.(*robotstxt.Group), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return nil, err
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	g := data.FindGroup(r.userAgent)
	r.origins.SetDefault(origin, g)
	return g, nil
}
