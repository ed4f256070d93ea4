package config

import (
	"github.com/creasty/defaults"
)

type Server struct {
	HTTPPort   int    `default:"8000"`
	ServerMode string `default:"dev"`
}

type Log struct {
	Level  string `default:"info"`
	Format string `default:"console"`
}

// Store points the validator at a DuckDB database. An empty path or
// ":memory:" validates against an empty in-memory catalog.
type Store struct {
	Path string `default:":memory:"`
}

// Scheduler sizes the worker pool rendering batches.
type Scheduler struct {
	NumWorkers int `default:"3"`
}

type Configuration struct {
	Server    Server
	Log       Log
	Store     Store
	Scheduler Scheduler
}

type ConfigurationOption func(*Configuration)

func WithServerMode(mode string) ConfigurationOption {
	return func(c *Configuration) {
		c.Server.ServerMode = mode
	}
}

func WithHTTPPort(port int) ConfigurationOption {
	return func(c *Configuration) {
		c.Server.HTTPPort = port
	}
}

func WithStorePath(path string) ConfigurationOption {
	return func(c *Configuration) {
		c.Store.Path = path
	}
}

func WithNumWorkers(n int) ConfigurationOption {
	return func(c *Configuration) {
		c.Scheduler.NumWorkers = n
	}
}

// NewConfigurationWithOptionsAndDefaults returns a configuration populated
// from the default tags, then modified by opts.
func NewConfigurationWithOptionsAndDefaults(opts ...ConfigurationOption) *Configuration {
	c := &Configuration{}
	if err := defaults.Set(c); err != nil {
		panic(err)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
