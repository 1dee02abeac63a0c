package main

import "slices"

// pathKey identifies a cached path by its ordered endpoints.
type pathKey struct {
	From Coordinate
	To   Coordinate
}

func cacheKey(from, to Coordinate) pathKey {
	return pathKey{From: from, To: to}
}

// CacheStats counts how path requests were served.
type CacheStats struct {
	Entries     int `json:"entries"`
	Hits        int `json:"hits"`
	ReverseHits int `json:"reverseHits"`
	Misses      int `json:"misses"`
	Clears      int `json:"clears"`
}

// PathCache remembers computed paths per ordered endpoint pair.
// It is not safe for concurrent use; PathFinder serialises access to it.
type PathCache struct {
	paths map[pathKey][]Coordinate
	stats CacheStats
}

// NewPathCache creates an empty cache.
func NewPathCache() *PathCache {
	return &PathCache{paths: make(map[pathKey][]Coordinate)}
}

// GetOrBuild returns the path from `from` to `to`.
// A stored path for the opposite direction is reversed into a fresh slice and
// stored under this direction too. Otherwise build computes the path, which is
// stored even when empty.
func (c *PathCache) GetOrBuild(from, to Coordinate, build func(from, to Coordinate) []Coordinate) []Coordinate {
	key := cacheKey(from, to)
	if path, ok := c.paths[key]; ok {
		c.stats.Hits++
		return path
	}

	if path, ok := c.paths[cacheKey(to, from)]; ok {
		reversed := slices.Clone(path)
		slices.Reverse(reversed)
		c.paths[key] = reversed
		c.stats.ReverseHits++
		return reversed
	}

	c.stats.Misses++
	path := build(from, to)
	c.paths[key] = path
	return path
}

// Clear drops every cached path.
func (c *PathCache) Clear() {
	clear(c.paths)
	c.stats.Clears++
}

// Len returns the number of cached directions.
func (c *PathCache) Len() int { return len(c.paths) }

// Stats returns a copy of the counters.
func (c *PathCache) Stats() CacheStats {
	stats := c.stats
	stats.Entries = len(c.paths)
	return stats
}
