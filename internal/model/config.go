package model

import "time"

// Config holds the complete run configuration
type Config struct {
	Query      QueryConfig      `yaml:"query" mapstructure:"query"`
	EUtils     EUtilsConfig     `yaml:"eutils" mapstructure:"eutils"`
	Annotation AnnotationConfig `yaml:"annotation" mapstructure:"annotation"`
	Lexicon    LexiconConfig    `yaml:"lexicon" mapstructure:"lexicon"`
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// QueryConfig selects the articles to analyze
type QueryConfig struct {
	Term       string `yaml:"term" mapstructure:"term"`
	MaxResults int    `yaml:"max_results" mapstructure:"max_results"`
}

// EUtilsConfig configures the NCBI E-utilities endpoints
type EUtilsConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Tool    string `yaml:"tool" mapstructure:"tool"`
	Email   string `yaml:"email" mapstructure:"email"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
}

// AnnotationConfig configures the BioC annotation service
type AnnotationConfig struct {
	URL       string   `yaml:"url" mapstructure:"url"` // Must contain {ids}
	Concepts  []string `yaml:"concepts" mapstructure:"concepts"`
	BatchSize int      `yaml:"batch_size" mapstructure:"batch_size"`
}

// LexiconConfig locates the occupation word list
type LexiconConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// HTTPConfig configures the shared retrieval client
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	MaxAttempts       int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	HTTPProxy         string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig configures the article cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"` // 0 keeps entries forever
}

// OutputConfig controls diagnostics
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		Query: QueryConfig{
			Term:       "hypersensitivity pneumonitis",
			MaxResults: 500,
		},
		EUtils: EUtilsConfig{
			BaseURL: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/",
			Tool:    "hpextract",
		},
		Annotation: AnnotationConfig{
			URL:       "https://www.ncbi.nlm.nih.gov/research/pubtator3-api/publications/export/biocxml?pmids={ids}",
			Concepts:  []string{"Chemical", "Species"},
			BatchSize: 100,
		},
		Lexicon: LexiconConfig{
			Path: "occupations.txt",
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "hpextract/0.1 (+https://github.com/ppiankov/hpextract)",
			MaxBodyBytes:      20_000_000,
			RequestsPerSecond: 1,
			MaxAttempts:       3,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "articles",
		},
	}
}
