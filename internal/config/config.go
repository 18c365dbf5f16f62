package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"taskpad/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDataDirName    = "data"
	DefaultDBName         = "tasks.db"
	appDirName            = "taskpad"
	configEnv             = "TASKPAD_CONFIG"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Toggle     string `toml:"toggle"`
	Delete     string `toml:"delete"`
	Edit       string `toml:"edit"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	NextField  string `toml:"next_field"`
	PrevField  string `toml:"prev_field"`
	Filter     string `toml:"filter"`
	Sort       string `toml:"sort"`
	FilterAll  string `toml:"filter_all"`
	FilterTodo string `toml:"filter_active"`
	FilterDone string `toml:"filter_completed"`
}

// Storage selects and locates the persistence backend.
type Storage struct {
	Backend string `toml:"backend"`
	// Path is a directory for the file backend and a database file for sqlite.
	Path string `toml:"path"`
	DSN  string `toml:"dsn"`
	Key  string `toml:"key"`
}

type Config struct {
	Locale        string  `toml:"locale"`
	DefaultFilter string  `toml:"default_filter"`
	DefaultSort   string  `toml:"default_sort"`
	LogPath       string  `toml:"log_path"`
	LogLevel      string  `toml:"log_level"`
	Storage       Storage `toml:"storage"`
	Keys          Keymap  `toml:"keys"`
}

// ResolveConfigPath honours $TASKPAD_CONFIG and otherwise uses the user's
// config directory, falling back to the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(configEnv)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Relative storage paths resolve against the config
// file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	cfg.Storage = Storage{}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

// Validate rejects values the rest of the program cannot interpret.
func (c Config) Validate() error {
	if _, err := task.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if _, err := task.ParseSort(c.DefaultSort); err != nil {
		return fmt.Errorf("default_sort: %w", err)
	}
	if _, err := c.Language(); err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	case BackendPostgres:
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	return nil
}

func (c Config) Filter() task.Filter {
	f, err := task.ParseFilter(c.DefaultFilter)
	if err != nil {
		return task.FilterAll
	}
	return f
}

func (c Config) Sort() task.SortKey {
	s, err := task.ParseSort(c.DefaultSort)
	if err != nil {
		return task.SortNewest
	}
	return s
}

// Language is the collation locale for name ordering; empty means root order.
func (c Config) Language() (language.Tag, error) {
	if strings.TrimSpace(c.Locale) == "" {
		return language.Und, nil
	}
	return language.Parse(c.Locale)
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.DefaultFilter == "" {
		c.DefaultFilter = def.DefaultFilter
	}
	if c.DefaultSort == "" {
		c.DefaultSort = def.DefaultSort
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Key == "" {
		c.Storage.Key = task.StorageKey
	}
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case BackendSQLite:
			c.Storage.Path = DefaultDBName
		default:
			c.Storage.Path = DefaultDataDirName
		}
	}
}

func (c Config) resolve(base string) Config {
	if c.Storage.Path != "" && !filepath.IsAbs(c.Storage.Path) && !strings.HasPrefix(c.Storage.Path, "file:") {
		c.Storage.Path = filepath.Join(base, c.Storage.Path)
	}
	if c.LogPath != "" && !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(base, c.LogPath)
	}
	return c
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		DefaultFilter: string(task.FilterAll),
		DefaultSort:   string(task.SortNewest),
		LogLevel:      "info",
		Storage: Storage{
			Backend: BackendFile,
			Path:    DefaultDataDirName,
			Key:     task.StorageKey,
		},
		Keys: Keymap{
			Quit:       "q",
			Add:        "a",
			Up:         "k",
			Down:       "j",
			Toggle:     " ",
			Delete:     "d",
			Edit:       "e",
			Confirm:    "enter",
			Cancel:     "esc",
			NextField:  "tab",
			PrevField:  "shift+tab",
			Filter:     "f",
			Sort:       "s",
			FilterAll:  "1",
			FilterTodo: "2",
			FilterDone: "3",
		},
	}
}
