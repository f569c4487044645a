// cmd/taxnews/constants.go
package main

import "time"

// Application constants
const (
	AppName    = "taxnews-backend"
	AppVersion = "3.1.0"

	// Default configuration
	DefaultPort         = 8080
	DefaultSourcesPath  = "config/sources.yml"
	DefaultKeywordsPath = "config/keywords.yml"
	DefaultLogPath      = "data/logs/taxnews.log"

	// Time-related constants
	DefaultCacheTTL     = 10 * time.Minute
	DefaultFetchTimeout = 15 * time.Second
	ShutdownTimeout     = 10 * time.Second

	// Fetch settings
	MaxConcurrentFeeds = 5
	MaxFeedBodyBytes   = 10 * 1024 * 1024 // 10MB
	DefaultUserAgent   = "TaxNewsBot/" + AppVersion + " (+https://github.com/eirinibrek/taxnews-backend3)"

	// Classification settings
	MaxTagsPerItem = 3

	// Item identity: sourceID + separator + (guid | link)
	itemIDSeparator = "::"
)
