package geoip

import (
	"context"

	"go.uber.org/zap"

	"github.com/mbintumar0519/xenonbpd/pkg/models"
)

// Chain tries an ordered list of resolvers and returns the first usable
// result. It never fails: when every provider errors out or the IP is
// private, callers get the default location instead.
type Chain struct {
	resolvers []Resolver
	logger    *zap.Logger
}

// NewChain creates a resolver chain. Order matters; providers are consulted
// front to back.
func NewChain(logger *zap.Logger, resolvers ...Resolver) *Chain {
	return &Chain{
		resolvers: resolvers,
		logger:    logger,
	}
}

// Resolvers exposes the configured providers, used by the diagnostics route
func (c *Chain) Resolvers() []Resolver {
	return c.resolvers
}

// Resolve looks up ip against each provider in turn. The boolean reports
// whether any provider produced the result, as opposed to the default.
func (c *Chain) Resolve(ctx context.Context, ip string) (*models.GeoLocation, bool) {
	if IsPrivateIP(ip) {
		c.logger.Debug("skipping geolocation for private IP", zap.String("ip", ip))
		return models.DefaultGeoLocation(), false
	}

	for _, resolver := range c.resolvers {
		location, err := resolver.Resolve(ctx, ip)
		if err != nil {
			c.logger.Warn("geolocation provider failed",
				zap.String("provider", resolver.Name()),
				zap.String("ip", ip),
				zap.Error(err))
			continue
		}
		if location == nil {
			c.logger.Warn("geolocation provider returned incomplete data",
				zap.String("provider", resolver.Name()),
				zap.String("ip", ip))
			continue
		}
		return location, true
	}

	c.logger.Warn("no geolocation data available", zap.String("ip", ip))
	return models.DefaultGeoLocation(), false
}
