package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "taskdash"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskdash.db"
	DefaultLogName        = "taskdash.log"
	EnvConfigPath         = "TASKDASH_CONFIG"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Edit           string `toml:"edit"`
	Delete         string `toml:"delete"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	NextField      string `toml:"next_field"`
	PrevField      string `toml:"prev_field"`
	Search         string `toml:"search"`
	StatusFilter   string `toml:"status_filter"`
	PriorityFilter string `toml:"priority_filter"`
	Sort           string `toml:"sort"`
	ClearFilters   string `toml:"clear_filters"`
	Export         string `toml:"export"`
	Import         string `toml:"import"`
	Theme          string `toml:"theme"`
}

type Config struct {
	DBPath      string `toml:"db_path"`
	LogPath     string `toml:"log_path"`
	ExportDir   string `toml:"export_dir"`
	DefaultSort string `toml:"default_sort"`
	Keys        Keymap `toml:"keys"`
}

// ResolveConfigPath prefers $TASKDASH_CONFIG, then the user config
// directory, then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing defaults there first when
// the file does not exist. Relative data paths resolve next to the config.
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
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = "dueDate"
	}
	cfg.Keys = cfg.Keys.withDefaults(defaultKeymap())
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) resolve(base string) Config {
	if !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(base, c.DBPath)
	}
	if !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(base, c.LogPath)
	}
	return c
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// withDefaults fills bindings left blank in the file.
func (k Keymap) withDefaults(d Keymap) Keymap {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Add, d.Add)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Edit, d.Edit)
	fill(&k.Delete, d.Delete)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.NextField, d.NextField)
	fill(&k.PrevField, d.PrevField)
	fill(&k.Search, d.Search)
	fill(&k.StatusFilter, d.StatusFilter)
	fill(&k.PriorityFilter, d.PriorityFilter)
	fill(&k.Sort, d.Sort)
	fill(&k.ClearFilters, d.ClearFilters)
	fill(&k.Export, d.Export)
	fill(&k.Import, d.Import)
	fill(&k.Theme, d.Theme)
	return k
}

// Default is the configuration written on first launch.
func Default() Config {
	return Config{
		DBPath:      DefaultDBName,
		LogPath:     DefaultLogName,
		ExportDir:   ".",
		DefaultSort: "dueDate",
		Keys:        defaultKeymap(),
	}
}

func defaultKeymap() Keymap {
	return Keymap{
		Quit:           "q",
		Add:            "a",
		Up:             "k",
		Down:           "j",
		Edit:           "e",
		Delete:         "d",
		Confirm:        "enter",
		Cancel:         "esc",
		NextField:      "tab",
		PrevField:      "shift+tab",
		Search:         "/",
		StatusFilter:   "s",
		PriorityFilter: "p",
		Sort:           "o",
		ClearFilters:   "c",
		Export:         "x",
		Import:         "i",
		Theme:          "t",
	}
}
