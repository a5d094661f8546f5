package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default artifact and crawl constants. The crawl rules mirror the fixed
// configuration of the tool: which files count as source, which are ignored,
// and which directories are invisible to the walk.
const (
	DefaultLogPath  = "Crawl.log"
	DefaultMapPath  = "MAP.txt"
	DefaultDBPath   = "pymap.db"
	DefaultExt      = ".py"
	DefaultExcluded = "__init__.py"
	DefaultCacheDir = "__pycache__"
	HiddenPrefix    = "."
)

type Config struct {
	Crawl struct {
		SourceExt    string `yaml:"source_ext"`
		ExcludedFile string `yaml:"excluded_file"`
		CacheDir     string `yaml:"cache_dir"`
	} `yaml:"crawl"`
	Output struct {
		LogPath string `yaml:"log_path"`
		MapPath string `yaml:"map_path"`
	} `yaml:"output"`
	DB struct {
		Path string `yaml:"path"`
	} `yaml:"db"`
}

// Default returns a config carrying the built-in constants.
func Default() *Config {
	cfg := &Config{}
	cfg.Crawl.SourceExt = DefaultExt
	cfg.Crawl.ExcludedFile = DefaultExcluded
	cfg.Crawl.CacheDir = DefaultCacheDir
	cfg.Output.LogPath = DefaultLogPath
	cfg.Output.MapPath = DefaultMapPath
	cfg.DB.Path = DefaultDBPath
	return cfg
}

// Load reads the YAML config at path, falling back to defaults when the file
// does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, err
	}
	fillDefaults(cfg)

	// 3. Override with Environment Variables if present
	applyEnv(cfg)

	return cfg, nil
}

func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.Crawl.SourceExt == "" {
		cfg.Crawl.SourceExt = def.Crawl.SourceExt
	}
	if cfg.Crawl.ExcludedFile == "" {
		cfg.Crawl.ExcludedFile = def.Crawl.ExcludedFile
	}
	if cfg.Crawl.CacheDir == "" {
		cfg.Crawl.CacheDir = def.Crawl.CacheDir
	}
	if cfg.Output.LogPath == "" {
		cfg.Output.LogPath = def.Output.LogPath
	}
	if cfg.Output.MapPath == "" {
		cfg.Output.MapPath = def.Output.MapPath
	}
	if cfg.DB.Path == "" {
		cfg.DB.Path = def.DB.Path
	}
}

func applyEnv(cfg *Config) {
	if logPath := os.Getenv("PYMAP_LOG_PATH"); logPath != "" {
		cfg.Output.LogPath = logPath
	}
	if mapPath := os.Getenv("PYMAP_MAP_PATH"); mapPath != "" {
		cfg.Output.MapPath = mapPath
	}
	if dbPath := os.Getenv("PYMAP_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
}
